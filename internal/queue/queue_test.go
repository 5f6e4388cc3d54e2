package queue

import (
	"testing"

	"github.com/molchan/harvester/internal/entity"
)

func TestPriorityQueue_HigherPriorityFirst(t *testing.T) {
	q := NewPriorityQueue(
		entity.ScrapeJob{URL: "https://example.com/low", Priority: 1},
		entity.ScrapeJob{URL: "https://example.com/high", Priority: 10},
		entity.ScrapeJob{URL: "https://example.com/mid", Priority: 5},
	)

	want := []string{
		"https://example.com/high",
		"https://example.com/mid",
		"https://example.com/low",
	}
	for _, url := range want {
		job, ok := q.Pop()
		if !ok {
			t.Fatal("Pop() returned no job, want one")
		}
		if job.URL != url {
			t.Errorf("Pop() url = %s, want %s", job.URL, url)
		}
	}
}

func TestPriorityQueue_FifoWithinPriority(t *testing.T) {
	q := NewPriorityQueue()
	urls := []string{
		"https://example.com/1",
		"https://example.com/2",
		"https://example.com/3",
		"https://example.com/4",
	}
	for _, url := range urls {
		q.Push(entity.ScrapeJob{URL: url, Priority: 7})
	}

	for _, url := range urls {
		job, ok := q.Pop()
		if !ok {
			t.Fatal("Pop() returned no job, want one")
		}
		if job.URL != url {
			t.Errorf("Pop() url = %s, want %s (FIFO order broken)", job.URL, url)
		}
	}
}

func TestPriorityQueue_PopEmpty(t *testing.T) {
	q := NewPriorityQueue()
	if _, ok := q.Pop(); ok {
		t.Error("Pop() on empty queue returned a job")
	}
}

func TestPriorityQueue_Len(t *testing.T) {
	q := NewPriorityQueue(
		entity.ScrapeJob{URL: "https://example.com/a"},
		entity.ScrapeJob{URL: "https://example.com/b"},
	)
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}
	q.Pop()
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}
}
