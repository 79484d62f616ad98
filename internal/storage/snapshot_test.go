package storage

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/qianzhouyu594-ai/todoAPP/internal/model"
)

func TestSnapshotRoundTrip(t *testing.T) {
	remindAt := time.Date(2025, 1, 1, 1, 30, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "t-2", Title: "Call dentist", ReminderAt: &remindAt, ReminderHandle: "notif-7"},
		{ID: "t-1", Title: "Buy milk", Completed: true},
	}

	kv := NewMemoryStore()
	ctx := context.Background()
	value, err := EncodeSnapshot(tasks)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := kv.Save(ctx, SnapshotKey, value); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := LoadSnapshot(ctx, kv)
	if !reflect.DeepEqual(got, tasks) {
		t.Fatalf("reloaded snapshot differs:\n got: %#v\nwant: %#v", got, tasks)
	}
}

func TestLoadSnapshotMissingKeyIsEmpty(t *testing.T) {
	got := LoadSnapshot(context.Background(), NewMemoryStore())
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d tasks", len(got))
	}
}

func TestLoadSnapshotGarbageIsEmpty(t *testing.T) {
	kv := NewMemoryStore()
	ctx := context.Background()
	for _, raw := range []string{`not json`, `{"id":"a"}`, `42`} {
		if err := kv.Save(ctx, SnapshotKey, []byte(raw)); err != nil {
			t.Fatalf("save: %v", err)
		}
		if got := LoadSnapshot(ctx, kv); len(got) != 0 {
			t.Fatalf("expected empty list for %q, got %d tasks", raw, len(got))
		}
	}
}

func TestDecodeDropsHandleWithoutTimestamp(t *testing.T) {
	raw := `[{"id":"t-1","title":"x","completed":false,"reminderTimestamp":null,"notificationId":"notif-9"}]`
	tasks, err := DecodeSnapshot([]byte(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ReminderHandle != "" || tasks[0].ReminderAt != nil {
		t.Fatalf("expected dangling handle to be dropped: %#v", tasks)
	}
}

func TestEncodeEmptyListIsEmptyArray(t *testing.T) {
	value, err := EncodeSnapshot(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(value) != `[]` {
		t.Fatalf("expected [] for empty list, got %q", value)
	}
}
