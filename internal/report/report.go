package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/molchan/harvester/internal/entity"
	"github.com/molchan/harvester/internal/storage"
)

// Summary aggregates job and result state for the report command.
type Summary struct {
	Pending int64
	Done    int64
	Failed  int64
	Skipped int64

	Attempts int64

	Results  int64
	Bytes    int64
	MinMs    int64
	AvgMs    float64
	MaxMs    int64
	ByEngine map[string]int64
}

type Report struct {
	manager *storage.Manager
	Summary Summary
}

func NewReport(manager *storage.Manager) *Report {
	return &Report{manager: manager}
}

// Load pulls the aggregates from the database.
func (r *Report) Load() error {
	if r.manager == nil {
		return errors.New("manager not initialized")
	}
	if err := r.manager.Connect(); err != nil {
		return err
	}
	db := r.manager.DB()

	statusCounts := map[string]*int64{
		entity.JobStatusPending: &r.Summary.Pending,
		entity.JobStatusDone:    &r.Summary.Done,
		entity.JobStatusFailed:  &r.Summary.Failed,
		entity.JobStatusSkipped: &r.Summary.Skipped,
	}
	for status, target := range statusCounts {
		if result := db.Model(&entity.ScrapeJob{}).
			Where("status = ?", status).
			Count(target); result.Error != nil {
			return result.Error
		}
	}

	var attempts struct{ Total int64 }
	if result := db.Model(&entity.ScrapeJob{}).
		Select("COALESCE(SUM(attempts), 0) AS total").
		Scan(&attempts); result.Error != nil {
		return result.Error
	}
	r.Summary.Attempts = attempts.Total

	var latency struct {
		Results int64
		Bytes   int64
		MinMs   int64
		AvgMs   float64
		MaxMs   int64
	}
	if result := db.Model(&entity.PageResult{}).
		Select("COUNT(*) AS results, " +
			"COALESCE(SUM(html_size), 0) AS bytes, " +
			"COALESCE(MIN(elapsed_ms), 0) AS min_ms, " +
			"COALESCE(AVG(elapsed_ms), 0) AS avg_ms, " +
			"COALESCE(MAX(elapsed_ms), 0) AS max_ms").
		Scan(&latency); result.Error != nil {
		return result.Error
	}
	r.Summary.Results = latency.Results
	r.Summary.Bytes = latency.Bytes
	r.Summary.MinMs = latency.MinMs
	r.Summary.AvgMs = latency.AvgMs
	r.Summary.MaxMs = latency.MaxMs

	var engines []struct {
		Engine string
		Count  int64
	}
	if result := db.Model(&entity.PageResult{}).
		Select("engine, COUNT(*) AS count").
		Group("engine").
		Scan(&engines); result.Error != nil {
		return result.Error
	}
	r.Summary.ByEngine = make(map[string]int64, len(engines))
	for _, row := range engines {
		r.Summary.ByEngine[row.Engine] = row.Count
	}

	return nil
}

// Format renders the summary as the text block the report command prints.
func (r *Report) Format() string {
	s := r.Summary
	total := s.Pending + s.Done + s.Failed + s.Skipped

	var b strings.Builder
	b.WriteString("Harvest summary\n")
	b.WriteString(fmt.Sprintf("jobs: %d pending, %d done, %d failed, %d skipped (%d total)\n",
		s.Pending, s.Done, s.Failed, s.Skipped, total))
	b.WriteString(fmt.Sprintf("fetch attempts: %d\n", s.Attempts))
	b.WriteString(fmt.Sprintf("pages stored: %d (%s)\n", s.Results, formatBytes(s.Bytes)))
	if s.Results > 0 {
		b.WriteString(fmt.Sprintf("latency ms: min %d, avg %.0f, max %d\n", s.MinMs, s.AvgMs, s.MaxMs))
	}
	if len(s.ByEngine) > 0 {
		var parts []string
		for _, engine := range []string{"html", "regex", "llm"} {
			if count, ok := s.ByEngine[engine]; ok {
				parts = append(parts, fmt.Sprintf("%s %d", engine, count))
			}
		}
		b.WriteString("engines: " + strings.Join(parts, ", ") + "\n")
	}
	return b.String()
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
