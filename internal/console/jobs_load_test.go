package console

import (
	"strings"
	"testing"
)

func TestJobsLoadCommand_readJobs(t *testing.T) {
	cmd := NewJobsLoadCommand()
	input := strings.NewReader(`
# seed list
https://example.com/products 10
https://example.com/blog
https://example.com/products 10
ftp://example.com/ignored
not-a-url
https://example.com/sale	5
`)

	jobs, err := cmd.readJobs(input)
	if err != nil {
		t.Fatalf("readJobs() error = %v, want nil", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("readJobs() jobs = %d, want 3", len(jobs))
	}

	if jobs[0].URL != "https://example.com/products" || jobs[0].Priority != 10 {
		t.Errorf("readJobs() first job = %s/%d", jobs[0].URL, jobs[0].Priority)
	}
	if jobs[1].URL != "https://example.com/blog" || jobs[1].Priority != 0 {
		t.Errorf("readJobs() second job = %s/%d", jobs[1].URL, jobs[1].Priority)
	}
	if jobs[2].URL != "https://example.com/sale" || jobs[2].Priority != 5 {
		t.Errorf("readJobs() third job = %s/%d", jobs[2].URL, jobs[2].Priority)
	}
	for _, job := range jobs {
		if !job.Pending() {
			t.Errorf("readJobs() job %s status = %s, want pending", job.URL, job.Status)
		}
	}
}

func TestJobsLoadCommand_readJobs_InvalidPriority(t *testing.T) {
	cmd := NewJobsLoadCommand()
	input := strings.NewReader("https://example.com/page high\n")

	if _, err := cmd.readJobs(input); err == nil {
		t.Error("readJobs() expected error for non-numeric priority, got nil")
	}
}

func TestJobsLoadCommand_readJobs_Empty(t *testing.T) {
	cmd := NewJobsLoadCommand()
	input := strings.NewReader("\n# only comments\n\n")

	jobs, err := cmd.readJobs(input)
	if err != nil {
		t.Fatalf("readJobs() error = %v, want nil", err)
	}
	if len(jobs) != 0 {
		t.Errorf("readJobs() jobs = %d, want 0", len(jobs))
	}
}
