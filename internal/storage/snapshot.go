package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/qianzhouyu594-ai/todoAPP/internal/model"
)

// taskRecord is the persisted wire shape of a task. The snapshot value is a
// JSON array of these, always written as a full replace.
type taskRecord struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Completed         bool    `json:"completed"`
	ReminderTimestamp *int64  `json:"reminderTimestamp"`
	NotificationID    *string `json:"notificationId"`
}

// EncodeSnapshot serializes the full task list, newest first, preserving
// order.
func EncodeSnapshot(tasks []model.Task) ([]byte, error) {
	records := make([]taskRecord, 0, len(tasks))
	for _, t := range tasks {
		rec := taskRecord{
			ID:        t.ID,
			Title:     t.Title,
			Completed: t.Completed,
		}
		if t.ReminderAt != nil {
			ms := t.ReminderAt.UnixMilli()
			rec.ReminderTimestamp = &ms
		}
		if t.ReminderHandle != "" {
			handle := t.ReminderHandle
			rec.NotificationID = &handle
		}
		records = append(records, rec)
	}
	return json.Marshal(records)
}

// DecodeSnapshot parses a snapshot value back into tasks. A handle without a
// reminder time is dropped rather than violating the model invariant.
func DecodeSnapshot(value []byte) ([]model.Task, error) {
	var records []taskRecord
	if err := json.Unmarshal(value, &records); err != nil {
		return nil, err
	}
	tasks := make([]model.Task, 0, len(records))
	for _, rec := range records {
		t := model.Task{
			ID:        rec.ID,
			Title:     rec.Title,
			Completed: rec.Completed,
		}
		if rec.ReminderTimestamp != nil {
			at := time.UnixMilli(*rec.ReminderTimestamp).UTC()
			t.ReminderAt = &at
			if rec.NotificationID != nil {
				t.ReminderHandle = *rec.NotificationID
			}
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// LoadSnapshot reads the saved task list. Absence of the key, a read
// failure, or a value that does not parse all degrade to an empty list;
// stale or broken saved data never blocks startup.
func LoadSnapshot(ctx context.Context, kv KeyValue) []model.Task {
	value, err := kv.Load(ctx, SnapshotKey)
	if err != nil {
		return nil
	}
	tasks, err := DecodeSnapshot(value)
	if err != nil {
		return nil
	}
	return tasks
}
