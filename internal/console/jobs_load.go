package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/molchan/harvester/internal/config"
	"github.com/molchan/harvester/internal/entity"
	"github.com/molchan/harvester/internal/storage"
	"gorm.io/gorm"
)

type JobsLoadCommand struct {
}

func NewJobsLoadCommand() *JobsLoadCommand {
	cmd := JobsLoadCommand{}
	return &cmd
}

func (cmd *JobsLoadCommand) Name() string {
	return "jobs:load"
}

func (cmd *JobsLoadCommand) Description() string {
	return "reads target URLs from stdin (one per line, optional priority after whitespace) and stores them as pending jobs"
}

func (cmd *JobsLoadCommand) Run() error {
	slog.Info("loading jobs from stdin")
	conf := config.GetConfig()

	jobs, err := cmd.readJobs(os.Stdin)
	if err != nil {
		return err
	}
	slog.Debug("jobs read", "jobs_count", len(jobs))
	if len(jobs) == 0 {
		slog.Warn("no valid target URLs on stdin, nothing to do")
		return nil
	}

	if conf.DryRun {
		slog.Info("DRY RUN MODE: skipping database saves", "jobs_count", len(jobs))
		return nil
	}

	manager := storage.NewManager(conf.DbConnectionString)
	if err = manager.Connect(); err != nil {
		return err
	}

	created, updated := 0, 0
	for _, job := range jobs {
		stored := entity.ScrapeJob{}
		result := manager.DB().Where(entity.ScrapeJob{URL: job.URL}).First(&stored)
		if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			if err = manager.DB().Create(&job).Error; err != nil {
				return err
			}
			created++
			continue
		}
		// Re-loading an already fetched URL does not reset its state, only a
		// pending job picks up a new priority.
		if stored.Pending() && stored.Priority != job.Priority {
			stored.Priority = job.Priority
			if err = manager.DB().Save(&stored).Error; err != nil {
				return err
			}
			updated++
		}
	}

	slog.Info("jobs loaded", "created", created, "updated", updated, "total", len(jobs))

	return nil
}

func (cmd *JobsLoadCommand) readJobs(input io.Reader) ([]entity.ScrapeJob, error) {
	var jobs []entity.ScrapeJob
	seen := make(map[string]bool)

	sc := bufio.NewScanner(input)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if len(text) == 0 || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		target := fields[0]
		parsed, err := url.Parse(target)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || len(parsed.Host) == 0 {
			slog.Warn("skipping invalid target URL", "line", line, "value", target)
			continue
		}

		priority := 0
		if len(fields) > 1 {
			priority, err = strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid priority %q", line, fields[1])
			}
		}

		if seen[target] {
			slog.Debug("skipping duplicate target URL", "line", line, "url", target)
			continue
		}
		seen[target] = true

		jobs = append(jobs, entity.ScrapeJob{
			URL:      target,
			Priority: priority,
			Status:   entity.JobStatusPending,
		})
	}
	if sc.Err() != nil {
		return nil, sc.Err()
	}

	return jobs, nil
}
