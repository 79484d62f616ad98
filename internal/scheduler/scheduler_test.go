package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/qianzhouyu594-ai/todoAPP/internal/model"
	"github.com/qianzhouyu594-ai/todoAPP/internal/notify"
)

type fakeService struct {
	mu          sync.Mutex
	available   bool
	permission  notify.PermissionStatus
	requests    int
	scheduleErr error
	blockSched  chan struct{}
	nextHandle  int
	scheduled   []string
	cancelled   []string
}

func (f *fakeService) Available() bool { return f.available }

func (f *fakeService) Permission(context.Context) notify.PermissionStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.permission
}

func (f *fakeService) RequestPermission(context.Context) notify.PermissionStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	return f.permission
}

func (f *fakeService) Schedule(_ context.Context, title, _ string, _ time.Time) (string, error) {
	if f.blockSched != nil {
		<-f.blockSched
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scheduleErr != nil {
		return "", f.scheduleErr
	}
	f.nextHandle++
	handle := fmt.Sprintf("notif-%d", f.nextHandle)
	f.scheduled = append(f.scheduled, title)
	return handle, nil
}

func (f *fakeService) Cancel(_ context.Context, handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, handle)
	return nil
}

func (f *fakeService) cancelledHandles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.cancelled))
	copy(out, f.cancelled)
	return out
}

func waitFired(t *testing.T, ch <-chan Fired, timeout time.Duration) Fired {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatal("timed out waiting for fired reminder")
		return Fired{}
	}
}

func assertSilent(t *testing.T, ch <-chan Fired, d time.Duration) {
	t.Helper()
	select {
	case ev := <-ch:
		t.Fatalf("unexpected firing: %+v", ev)
	case <-time.After(d):
	}
}

func TestFallbackTimerFires(t *testing.T) {
	s := New(notify.AbsentService{}, 4)
	defer s.Stop()

	at := time.Now().Add(20 * time.Millisecond)
	handle, err := s.Arm(context.Background(), "t-1", "Buy milk", at)
	if err != nil {
		t.Fatalf("arm: %v", err)
	}
	if handle != "" {
		t.Fatalf("fallback path must not produce a handle, got %q", handle)
	}

	ev := waitFired(t, s.C(), time.Second)
	if ev.TaskID != "t-1" || ev.Title != "Buy milk" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestArmReplacesPriorTrigger(t *testing.T) {
	s := New(notify.AbsentService{}, 4)
	defer s.Stop()
	ctx := context.Background()

	if _, err := s.Arm(ctx, "t-1", "first", time.Now().Add(20*time.Millisecond)); err != nil {
		t.Fatalf("first arm: %v", err)
	}
	if _, err := s.Arm(ctx, "t-1", "second", time.Now().Add(40*time.Millisecond)); err != nil {
		t.Fatalf("second arm: %v", err)
	}

	ev := waitFired(t, s.C(), time.Second)
	if ev.Title != "second" {
		t.Fatalf("expected only the newest trigger to fire, got %+v", ev)
	}
	assertSilent(t, s.C(), 80*time.Millisecond)
}

func TestCancelStopsFallbackTimer(t *testing.T) {
	s := New(notify.AbsentService{}, 4)
	defer s.Stop()
	ctx := context.Background()

	if _, err := s.Arm(ctx, "t-1", "Buy milk", time.Now().Add(30*time.Millisecond)); err != nil {
		t.Fatalf("arm: %v", err)
	}
	s.Cancel(ctx, "t-1", "")
	assertSilent(t, s.C(), 80*time.Millisecond)
}

func TestCancelIsBestEffortOnPlatform(t *testing.T) {
	svc := &fakeService{available: true, permission: notify.PermissionGranted}
	s := New(svc, 4)
	defer s.Stop()

	s.Cancel(context.Background(), "t-1", "notif-unknown")
	got := svc.cancelledHandles()
	if len(got) != 1 || got[0] != "notif-unknown" {
		t.Fatalf("expected best-effort platform cancel, got %v", got)
	}
}

func TestPlatformPathReturnsHandle(t *testing.T) {
	svc := &fakeService{available: true, permission: notify.PermissionGranted}
	s := New(svc, 4)
	defer s.Stop()

	handle, err := s.Arm(context.Background(), "t-1", "Call dentist", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("arm: %v", err)
	}
	if handle == "" {
		t.Fatal("expected a platform handle")
	}
	assertSilent(t, s.C(), 30*time.Millisecond)
}

func TestPermissionRequestedOnceThenDeniedAborts(t *testing.T) {
	svc := &fakeService{available: true, permission: notify.PermissionPrompt}
	s := New(svc, 4)
	defer s.Stop()

	_, err := s.Arm(context.Background(), "t-1", "x", time.Now().Add(time.Hour))
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if svc.requests != 1 {
		t.Fatalf("expected exactly one permission request, got %d", svc.requests)
	}
	assertSilent(t, s.C(), 30*time.Millisecond)
}

func TestScheduleFailureDegradesToFallback(t *testing.T) {
	svc := &fakeService{
		available:   true,
		permission:  notify.PermissionGranted,
		scheduleErr: errors.New("platform exploded"),
	}
	s := New(svc, 4)
	defer s.Stop()

	handle, err := s.Arm(context.Background(), "t-1", "Buy milk", time.Now().Add(20*time.Millisecond))
	if err != nil {
		t.Fatalf("arm: %v", err)
	}
	if handle != "" {
		t.Fatalf("expected fallback path, got handle %q", handle)
	}
	waitFired(t, s.C(), time.Second)
}

func TestStaleScheduleResultDoesNotResurrectTrigger(t *testing.T) {
	svc := &fakeService{
		available:  true,
		permission: notify.PermissionGranted,
		blockSched: make(chan struct{}),
	}
	s := New(svc, 4)
	defer s.Stop()
	ctx := context.Background()

	errCh := make(chan error, 1)
	go func() {
		_, err := s.Arm(ctx, "t-1", "x", time.Now().Add(time.Hour))
		errCh <- err
	}()

	// Let the arm reach the platform call, then supersede it.
	time.Sleep(20 * time.Millisecond)
	s.Cancel(ctx, "t-1", "")
	close(svc.blockSched)

	if err := <-errCh; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	// The stale handle must have been released back to the platform.
	got := svc.cancelledHandles()
	if len(got) != 1 || got[0] != "notif-1" {
		t.Fatalf("expected stale handle cancelled, got %v", got)
	}
}

func TestReconcileOnLoad(t *testing.T) {
	s := New(notify.AbsentService{}, 4)
	defer s.Stop()

	soon := time.Now().Add(30 * time.Millisecond)
	far := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)
	tasks := []model.Task{
		{ID: "t-1", Title: "fallback soon", ReminderAt: &soon},
		{ID: "t-2", Title: "platform backed", ReminderAt: &far, ReminderHandle: "notif-3"},
		{ID: "t-3", Title: "stale", ReminderAt: &past},
		{ID: "t-4", Title: "no reminder"},
	}

	if armed := s.ReconcileOnLoad(tasks); armed != 1 {
		t.Fatalf("expected 1 timer re-armed, got %d", armed)
	}
	ev := waitFired(t, s.C(), time.Second)
	if ev.TaskID != "t-1" {
		t.Fatalf("unexpected firing: %+v", ev)
	}
	assertSilent(t, s.C(), 60*time.Millisecond)
}

func TestSlowConsumerDropsInsteadOfBlocking(t *testing.T) {
	s := New(notify.AbsentService{}, 1)
	defer s.Stop()
	ctx := context.Background()

	at := time.Now().Add(20 * time.Millisecond)
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("t-%d", i)
		if _, err := s.Arm(ctx, id, "evt", at); err != nil {
			t.Fatalf("arm %s: %v", id, err)
		}
	}

	time.Sleep(120 * time.Millisecond)
	if s.Dropped() == 0 {
		t.Fatal("expected dropped firings > 0")
	}
}

func TestStopDisarmsTimers(t *testing.T) {
	s := New(notify.AbsentService{}, 4)
	if _, err := s.Arm(context.Background(), "t-1", "x", time.Now().Add(30*time.Millisecond)); err != nil {
		t.Fatalf("arm: %v", err)
	}
	s.Stop()
	assertSilent(t, s.C(), 80*time.Millisecond)

	if _, err := s.Arm(context.Background(), "t-2", "y", time.Now().Add(time.Hour)); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped after Stop, got %v", err)
	}
}
