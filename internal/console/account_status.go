package console

import (
	"context"
	"log/slog"

	"github.com/molchan/harvester/internal/config"
	"github.com/molchan/harvester/internal/gateway"
)

type AccountStatusCommand struct {
}

func NewAccountStatusCommand() *AccountStatusCommand {
	cmd := AccountStatusCommand{}
	return &cmd
}

func (cmd *AccountStatusCommand) Name() string {
	return "account:status"
}

func (cmd *AccountStatusCommand) Description() string {
	return "queries the scraping gateway account endpoint for credit usage and concurrency limits"
}

func (cmd *AccountStatusCommand) Run() error {
	slog.Info("requesting account status")
	conf := config.GetConfig()

	client := gateway.NewClient(gateway.Config{
		ApiKey:           conf.ApiKey,
		BaseURL:          conf.BaseURL,
		ConcurrencyLimit: 1,
	})
	status, err := client.Account(context.Background())
	if err != nil {
		return err
	}

	slog.Info("account status",
		"request_count", status.RequestCount,
		"failed_request_count", status.FailedRequestCount,
		"request_limit", status.RequestLimit,
		"concurrent_requests", status.ConcurrentRequests,
		"concurrency_limit", status.ConcurrencyLimit,
		"subscription_date", status.SubscriptionDate)

	if conf.ConcurrencyLimit > status.ConcurrencyLimit && status.ConcurrencyLimit > 0 {
		slog.Warn("configured concurrency exceeds what the subscription allows",
			"configured", conf.ConcurrencyLimit,
			"allowed", status.ConcurrencyLimit)
	}

	return nil
}
