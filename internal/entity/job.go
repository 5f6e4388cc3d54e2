package entity

import (
	"time"

	"gorm.io/gorm"
)

const (
	JobStatusPending = "pending"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
	JobStatusSkipped = "skipped"
)

type ScrapeJob struct {
	gorm.Model
	URL       string     `json:"url" gorm:"size:2048;uniqueIndex;not null"`
	Priority  int        `json:"priority" gorm:"default:0;not null"`
	Status    string     `json:"status" gorm:"size:16;default:'pending';not null"`
	Attempts  int        `json:"attempts" gorm:"default:0;not null"`
	LastError string     `json:"last_error"`
	FetchedAt *time.Time `json:"fetched_at"`
}

func (j *ScrapeJob) Pending() bool {
	return j.Status == JobStatusPending
}

// MarkDone records a successful fetch.
func (j *ScrapeJob) MarkDone(attempts int) {
	now := time.Now()
	j.Status = JobStatusDone
	j.Attempts += attempts
	j.LastError = ""
	j.FetchedAt = &now
}

// MarkFailed records a fetch that exhausted its retry budget.
func (j *ScrapeJob) MarkFailed(attempts int, err error) {
	j.Status = JobStatusFailed
	j.Attempts += attempts
	if err != nil {
		j.LastError = err.Error()
	}
}

// MarkSkipped records a permanently dead target (404/410).
func (j *ScrapeJob) MarkSkipped(err error) {
	j.Status = JobStatusSkipped
	if err != nil {
		j.LastError = err.Error()
	}
}
