package console

import (
	"fmt"
	"log/slog"

	"github.com/molchan/harvester/internal/config"
	"github.com/molchan/harvester/internal/report"
	"github.com/molchan/harvester/internal/storage"
)

type ScrapeReportCommand struct {
}

func NewScrapeReportCommand() *ScrapeReportCommand {
	cmd := ScrapeReportCommand{}
	return &cmd
}

func (cmd *ScrapeReportCommand) Name() string {
	return "scrape:report"
}

func (cmd *ScrapeReportCommand) Description() string {
	return "prints aggregate statistics over stored jobs and results"
}

func (cmd *ScrapeReportCommand) Run() error {
	slog.Info("building scrape report")
	conf := config.GetConfig()

	manager := storage.NewManager(conf.DbConnectionString)
	rep := report.NewReport(manager)
	if err := rep.Load(); err != nil {
		return err
	}

	fmt.Print(rep.Format())

	slog.Info("report finished")

	return nil
}
