package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/google/uuid"
)

// ExecService schedules desktop notifications through transient systemd
// user timers, so platform-backed reminders survive a process restart the
// same way native mobile notifications do. The transient unit name is the
// trigger handle.
type ExecService struct{}

func NewExecService() ExecService { return ExecService{} }

func (ExecService) Available() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	if _, err := exec.LookPath("systemd-run"); err != nil {
		return false
	}
	if _, err := exec.LookPath("notify-send"); err != nil {
		return false
	}
	return true
}

// Permission: a desktop session that can reach the user bus is already
// permitted; there is no separate grant step on this platform.
func (s ExecService) Permission(context.Context) PermissionStatus {
	if !s.Available() {
		return PermissionDenied
	}
	return PermissionGranted
}

func (s ExecService) RequestPermission(ctx context.Context) PermissionStatus {
	return s.Permission(ctx)
}

func (s ExecService) Schedule(ctx context.Context, title, body string, at time.Time) (string, error) {
	unit := "todoapp-reminder-" + uuid.NewString()
	onCalendar := at.UTC().Format("2006-01-02 15:04:05 UTC")
	cmd := exec.CommandContext(ctx, "systemd-run",
		"--user", "--collect",
		"--unit", unit,
		"--on-calendar", onCalendar,
		"notify-send", title, body,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("notify: schedule %s: %w: %s", unit, err, out)
	}
	return unit, nil
}

func (s ExecService) Cancel(ctx context.Context, handle string) error {
	if handle == "" {
		return nil
	}
	// The timer may already have elapsed and collected itself; the caller
	// swallows failures.
	return exec.CommandContext(ctx, "systemctl", "--user", "stop", handle+".timer").Run()
}
