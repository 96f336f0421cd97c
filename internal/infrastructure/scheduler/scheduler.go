package scheduler

import (
	"sync"
	"time"

	"github.com/orris-inc/rollcall/internal/shared/biztime"
	"github.com/orris-inc/rollcall/internal/shared/goroutine"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

// Task runs on every tick with the tick's wall-clock time.
type Task func(now time.Time)

// CancelFunc stops a periodic task. It is safe to call more than once.
type CancelFunc func()

// Scheduler fires a task every interval until cancelled.
type Scheduler interface {
	Every(name string, interval time.Duration, task Task) CancelFunc
}

// TickerScheduler runs each task on its own ticker goroutine. The first run
// happens immediately. A panicking run is logged and the ticker keeps going.
type TickerScheduler struct {
	clock  biztime.Clock
	logger logger.Interface
}

func NewTickerScheduler(clock biztime.Clock, log logger.Interface) *TickerScheduler {
	if clock == nil {
		clock = biztime.SystemClock{}
	}
	return &TickerScheduler{clock: clock, logger: log}
}

func (s *TickerScheduler) Every(name string, interval time.Duration, task Task) CancelFunc {
	stopChan := make(chan struct{})
	var once sync.Once

	goroutine.SafeGo(s.logger, name, func() {
		s.run(name, task)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stopChan:
				s.logger.Debugw("periodic task stopped", "task", name)
				return
			case <-ticker.C:
				s.run(name, task)
			}
		}
	})

	return func() {
		once.Do(func() { close(stopChan) })
	}
}

func (s *TickerScheduler) run(name string, task Task) {
	defer goroutine.Recover(s.logger, name)
	task(s.clock.Now())
}
