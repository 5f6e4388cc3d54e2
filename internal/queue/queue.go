package queue

import (
	"container/heap"

	"github.com/molchan/harvester/internal/entity"
)

// PriorityQueue orders pending jobs by descending priority, FIFO within the
// same priority. Not safe for concurrent use; the dispatcher is the only
// goroutine touching it.
type PriorityQueue struct {
	items jobHeap
	seq   uint64
}

func NewPriorityQueue(jobs ...entity.ScrapeJob) *PriorityQueue {
	q := &PriorityQueue{}
	for _, job := range jobs {
		q.Push(job)
	}
	return q
}

func (q *PriorityQueue) Push(job entity.ScrapeJob) {
	q.seq++
	heap.Push(&q.items, item{job: job, seq: q.seq})
}

func (q *PriorityQueue) Pop() (entity.ScrapeJob, bool) {
	if q.items.Len() == 0 {
		return entity.ScrapeJob{}, false
	}
	return heap.Pop(&q.items).(item).job, true
}

func (q *PriorityQueue) Len() int {
	return q.items.Len()
}

type item struct {
	job entity.ScrapeJob
	seq uint64
}

type jobHeap []item

func (h jobHeap) Len() int { return len(h) }

func (h jobHeap) Less(i, j int) bool {
	if h[i].job.Priority != h[j].job.Priority {
		return h[i].job.Priority > h[j].job.Priority
	}
	return h[i].seq < h[j].seq
}

func (h jobHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *jobHeap) Push(x any) {
	*h = append(*h, x.(item))
}

func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}
