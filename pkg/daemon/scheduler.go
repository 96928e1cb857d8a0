package daemon

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// idleWait is how long the loop sleeps when nothing is scheduled.
const idleWait = time.Hour * 10000

// TaskFunc represents a runnable task.
type TaskFunc func() error

// Scheduler runs Task on a cron schedule. Runs never overlap: a run that is
// still busy when the next one is due delays it.
type Scheduler struct {
	Task     TaskFunc    // task callback
	PreCheck TaskFunc    // skip the run when this fails
	OnError  func(error) // called on precheck or task error

	parser cron.Parser

	mu       sync.Mutex
	schedule cron.Schedule
	nextRun  time.Time
	running  bool

	controlCh chan cron.Schedule
	stopCh    chan struct{}
}

func NewScheduler(task, preCheck TaskFunc, onError func(error)) *Scheduler {
	if task == nil {
		panic("task function cannot be nil")
	}

	return &Scheduler{
		Task:      task,
		PreCheck:  preCheck,
		OnError:   onError,
		parser:    cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		controlCh: make(chan cron.Schedule, 4),
		stopCh:    make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	go s.runScheduled()
}

func (s *Scheduler) Stop() {
	select {
	case <-s.stopCh: // already closed
	default:
		close(s.stopCh)
	}
}

// Schedule sets or replaces the cron expression. It may be called while the
// scheduler is running.
func (s *Scheduler) Schedule(cronExpr string) error {
	sh, err := s.parser.Parse(cronExpr)
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cronExpr, err)
	}

	s.mu.Lock()
	running := s.running
	if !running {
		s.schedule = sh
		s.nextRun = sh.Next(time.Now())
	}
	s.mu.Unlock()

	if running {
		select {
		case s.controlCh <- sh:
		default:
			logrus.Warn("scheduler control channel full, dropping schedule change")
		}
	}
	return nil
}

func (s *Scheduler) Status() (nextRun time.Time, running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.nextRun, s.running
}

func (s *Scheduler) runScheduled() {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		logrus.Debug("scheduler stopped")
	}()

	logrus.Debug("scheduler started")

	for {
		schedule, nextRun := s.snapshot()
		wait := idleWait
		if schedule != nil && !nextRun.IsZero() {
			wait = max(time.Until(nextRun), 0)
		}
		timer := time.NewTimer(wait)

		select {
		case <-timer.C:
			if schedule == nil {
				continue
			}
			s.runOnce(nextRun)
			s.advanceNextRun()
		case sh := <-s.controlCh:
			timer.Stop()
			s.mu.Lock()
			s.schedule = sh
			s.nextRun = sh.Next(time.Now())
			s.mu.Unlock()
		case <-s.stopCh:
			timer.Stop()
			return
		}
	}
}

func (s *Scheduler) runOnce(at time.Time) {
	logrus.Debugf("running scheduled task at %s", at.Format(time.DateTime))

	if s.PreCheck != nil {
		if err := s.PreCheck(); err != nil {
			s.sendError(fmt.Errorf("precheck failed, skipping run: %w", err))
			return
		}
	}

	if err := s.Task(); err != nil {
		s.sendError(fmt.Errorf("task failed: %w", err))
	}
}

func (s *Scheduler) snapshot() (cron.Schedule, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule, s.nextRun
}

func (s *Scheduler) advanceNextRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedule != nil {
		s.nextRun = s.schedule.Next(time.Now())
	}
}

func (s *Scheduler) sendError(err error) {
	if s.OnError != nil {
		s.OnError(err)
		return
	}
	logrus.Error(err)
}
