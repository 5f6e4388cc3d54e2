package gateway

import (
	"context"
	"encoding/json"
	"fmt"
)

// AccountStatus mirrors the vendor /account payload: credit usage and the
// concurrency the subscription allows.
type AccountStatus struct {
	RequestCount       int    `json:"requestCount"`
	FailedRequestCount int    `json:"failedRequestCount"`
	RequestLimit       int    `json:"requestLimit"`
	ConcurrentRequests int    `json:"concurrentRequests"`
	ConcurrencyLimit   int    `json:"concurrencyLimit"`
	SubscriptionDate   string `json:"subscriptionDate"`
}

// Account queries the vendor account endpoint.
func (c *Client) Account(ctx context.Context) (*AccountStatus, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("api_key", c.apiKey).
		Get("/account")
	if err != nil {
		return nil, fmt.Errorf("account status: %w", err)
	}

	code := resp.StatusCode()
	if authStatus(code) {
		return nil, fmt.Errorf("%w: HTTP %d for /account", ErrAuth, code)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{Code: code, URL: "/account"}
	}

	status := &AccountStatus{}
	if err = json.Unmarshal(resp.Body(), status); err != nil {
		return nil, fmt.Errorf("account status: %w", err)
	}

	return status, nil
}
