// Package notify abstracts the platform notification capability. The app
// consumes it, never implements delivery itself: a real implementation
// schedules one-shot notifications with the host platform, and an absent
// implementation stands in on runtimes without the capability, selecting
// the fallback timer path.
package notify

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUnavailable      = errors.New("notify: capability unavailable")
	ErrPermissionDenied = errors.New("notify: permission denied")
)

type PermissionStatus string

const (
	PermissionGranted PermissionStatus = "granted"
	PermissionDenied  PermissionStatus = "denied"
	PermissionPrompt  PermissionStatus = "prompt"
)

// Service is the platform notification capability. Schedule returns an
// opaque handle identifying the scheduled trigger; Cancel with that handle
// is best effort and may fail if the trigger already fired.
type Service interface {
	Available() bool
	Permission(ctx context.Context) PermissionStatus
	RequestPermission(ctx context.Context) PermissionStatus
	Schedule(ctx context.Context, title, body string, at time.Time) (string, error)
	Cancel(ctx context.Context, handle string) error
}

// AbsentService is the no-capability implementation. Selecting it is an
// expected condition, not an error.
type AbsentService struct{}

func (AbsentService) Available() bool { return false }

func (AbsentService) Permission(context.Context) PermissionStatus { return PermissionDenied }

func (AbsentService) RequestPermission(context.Context) PermissionStatus {
	return PermissionDenied
}

func (AbsentService) Schedule(context.Context, string, string, time.Time) (string, error) {
	return "", ErrUnavailable
}

func (AbsentService) Cancel(context.Context, string) error { return ErrUnavailable }
