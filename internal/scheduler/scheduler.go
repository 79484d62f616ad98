// Package scheduler arms at most one pending reminder trigger per task,
// either with the platform notification service or, when the capability is
// absent, with a process-local fallback timer that reports through a
// channel of fired events.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/qianzhouyu594-ai/todoAPP/internal/model"
	"github.com/qianzhouyu594-ai/todoAPP/internal/notify"
)

var (
	ErrPermissionDenied = errors.New("scheduler: notification permission denied")
	ErrSuperseded       = errors.New("scheduler: arm superseded by a newer request")
	ErrStopped          = errors.New("scheduler: stopped")
)

// Fired is emitted when a fallback timer elapses. Platform-backed triggers
// deliver through the platform and never appear here.
type Fired struct {
	TaskID string
	Title  string
	At     time.Time
}

// Scheduler owns the trigger table: one entry per task id, remove-then-
// insert on every arm. The generation counter guards asynchronous results —
// an arm that was superseded while its platform call was in flight must not
// resurrect a stale trigger.
type Scheduler struct {
	mu      sync.Mutex
	svc     notify.Service
	timers  map[string]*time.Timer
	gen     map[string]uint64
	out     chan Fired
	stopped bool
	dropped uint64
	now     func() time.Time
}

func New(svc notify.Service, bufferSize int) *Scheduler {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if svc == nil {
		svc = notify.AbsentService{}
	}
	return &Scheduler{
		svc:    svc,
		timers: make(map[string]*time.Timer),
		gen:    make(map[string]uint64),
		out:    make(chan Fired, bufferSize),
		now:    time.Now,
	}
}

// C delivers fallback-path reminder firings.
func (s *Scheduler) C() <-chan Fired {
	return s.out
}

// Dropped counts firings lost to a slow consumer.
func (s *Scheduler) Dropped() uint64 {
	return atomic.LoadUint64(&s.dropped)
}

// Arm replaces any existing trigger for the task with one at the target
// instant. It returns the platform handle, or "" when the fallback path was
// taken. Callers validate that the target is in the future before calling.
func (s *Scheduler) Arm(ctx context.Context, taskID, title string, at time.Time) (string, error) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return "", ErrStopped
	}
	s.stopTimerLocked(taskID)
	s.gen[taskID]++
	myGen := s.gen[taskID]
	svc := s.svc
	s.mu.Unlock()

	if svc.Available() {
		handle, err := s.armPlatform(ctx, svc, taskID, title, at, myGen)
		if err == nil || !errors.Is(err, notify.ErrUnavailable) {
			return handle, err
		}
		// Schedule failures degrade to the fallback path.
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return "", ErrStopped
	}
	if s.gen[taskID] != myGen {
		return "", ErrSuperseded
	}
	s.startTimerLocked(taskID, title, at, myGen)
	return "", nil
}

func (s *Scheduler) armPlatform(ctx context.Context, svc notify.Service, taskID, title string, at time.Time, myGen uint64) (string, error) {
	status := svc.Permission(ctx)
	if status != notify.PermissionGranted {
		status = svc.RequestPermission(ctx)
	}
	if status != notify.PermissionGranted {
		return "", ErrPermissionDenied
	}

	handle, err := svc.Schedule(ctx, title, "Reminder: "+title, at)
	if err != nil {
		return "", notify.ErrUnavailable
	}

	s.mu.Lock()
	superseded := s.gen[taskID] != myGen || s.stopped
	s.mu.Unlock()
	if superseded {
		_ = svc.Cancel(ctx, handle)
		return "", ErrSuperseded
	}
	return handle, nil
}

// Cancel disarms whatever trigger the task holds. Platform cancellation is
// best effort: the trigger may already have fired or the handle may be
// unknown to the platform, and either outcome is swallowed.
func (s *Scheduler) Cancel(ctx context.Context, taskID, handle string) {
	s.mu.Lock()
	s.gen[taskID]++
	s.stopTimerLocked(taskID)
	svc := s.svc
	s.mu.Unlock()

	if handle != "" {
		_ = svc.Cancel(ctx, handle)
	}
}

// ReconcileOnLoad re-arms fallback timers for loaded tasks whose reminder
// is in the future and not platform-backed. Platform-backed tasks are left
// alone — the platform persisted the trigger and will deliver it. Past
// reminder times stay on the task as stale data and simply never fire.
// Returns the number of timers re-armed.
func (s *Scheduler) ReconcileOnLoad(tasks []model.Task) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return 0
	}

	armed := 0
	now := s.now()
	for _, t := range tasks {
		if !t.HasReminder() || t.PlatformBacked() {
			continue
		}
		if !t.ReminderAt.After(now) {
			continue
		}
		s.stopTimerLocked(t.ID)
		s.gen[t.ID]++
		s.startTimerLocked(t.ID, t.Title, *t.ReminderAt, s.gen[t.ID])
		armed++
	}
	return armed
}

// Stop disarms every fallback timer. Pending platform triggers are left to
// the platform.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	for id := range s.timers {
		s.stopTimerLocked(id)
	}
}

func (s *Scheduler) startTimerLocked(taskID, title string, at time.Time, myGen uint64) {
	delay := at.Sub(s.now())
	if delay < 0 {
		delay = 0
	}
	s.timers[taskID] = time.AfterFunc(delay, func() {
		s.fire(taskID, title, at, myGen)
	})
}

func (s *Scheduler) stopTimerLocked(taskID string) {
	if timer, ok := s.timers[taskID]; ok {
		timer.Stop()
		delete(s.timers, taskID)
	}
}

func (s *Scheduler) fire(taskID, title string, at time.Time, myGen uint64) {
	s.mu.Lock()
	if s.stopped || s.gen[taskID] != myGen {
		s.mu.Unlock()
		return
	}
	delete(s.timers, taskID)
	s.mu.Unlock()

	select {
	case s.out <- Fired{TaskID: taskID, Title: title, At: at}:
	default:
		atomic.AddUint64(&s.dropped, 1)
	}
}
