package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: key not found")

// SnapshotKey is the single key under which the task list snapshot lives.
// One record per device/profile.
const SnapshotKey = "todo.tasks"

// KeyValue is the opaque byte store the task list is mirrored into. Save is
// a full replace of the value under key.
type KeyValue interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}
