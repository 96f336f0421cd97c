package scheduler

import (
	"sort"
	"sync"
	"time"
)

// ManualScheduler is a deterministic Scheduler and Clock whose time only moves
// on Advance. Tasks fire synchronously, immediately on registration and then
// once per elapsed interval. Intended for tests.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks map[int]*manualTask
}

type manualTask struct {
	id       int
	interval time.Duration
	next     time.Time
	task     Task
}

func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start, tasks: make(map[int]*manualTask)}
}

func (m *ManualScheduler) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *ManualScheduler) Every(_ string, interval time.Duration, task Task) CancelFunc {
	m.mu.Lock()
	m.seq++
	t := &manualTask{id: m.seq, interval: interval, next: m.now.Add(interval), task: task}
	m.tasks[t.id] = t
	now := m.now
	m.mu.Unlock()

	task(now)

	return func() {
		m.mu.Lock()
		delete(m.tasks, t.id)
		m.mu.Unlock()
	}
}

// Active returns the number of registered, uncancelled tasks.
func (m *ManualScheduler) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Advance moves time forward by d, firing every due task in time order.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		due := m.nextDue(target)
		if due == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = due.next
		due.next = due.next.Add(due.interval)
		now := m.now
		m.mu.Unlock()

		due.task(now)
	}
}

func (m *ManualScheduler) nextDue(target time.Time) *manualTask {
	candidates := make([]*manualTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		if !t.next.After(target) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].next.Equal(candidates[j].next) {
			return candidates[i].id < candidates[j].id
		}
		return candidates[i].next.Before(candidates[j].next)
	})
	return candidates[0]
}
