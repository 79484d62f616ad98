package update

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qianzhouyu594-ai/todoAPP/internal/civil"
	"github.com/qianzhouyu594-ai/todoAPP/internal/scheduler"
)

// openReminderPicker pre-fills the date/time pair: the armed time when one
// exists, otherwise the next civil half-hour boundary.
func (m *Model) openReminderPicker(taskID string) {
	task, ok := m.Store.Get(taskID)
	if !ok {
		return
	}
	prefill := civil.NextHalfHour(m.now())
	if task.HasReminder() {
		prefill = *task.ReminderAt
	}
	date, clock := civil.PickerStrings(prefill)
	m.dateInput.SetValue(date)
	m.timeInput.SetValue(clock)
	m.dateInput.CursorEnd()
	m.timeInput.CursorEnd()
	m.pickerTaskID = taskID
	m.pickerFocus = 0
	m.pickerErr = ""
	m.dateInput.Focus()
	m.timeInput.Blur()
	m.Mode = ModePicker
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePicker()
		return m, nil
	case "tab", "shift+tab", "up", "down":
		m.pickerFocus = 1 - m.pickerFocus
		if m.pickerFocus == 0 {
			m.dateInput.Focus()
			m.timeInput.Blur()
		} else {
			m.timeInput.Focus()
			m.dateInput.Blur()
		}
		return m, nil
	case "enter":
		return m.commitPicker()
	}

	var cmd tea.Cmd
	if m.pickerFocus == 0 {
		m.dateInput, cmd = m.dateInput.Update(msg)
	} else {
		m.timeInput, cmd = m.timeInput.Update(msg)
	}
	return m, cmd
}

// commitPicker validates the date/time strings and arms the reminder.
// Malformed input, an impossible calendar date, and a non-future instant
// are all rejected here with a user-visible message and no state change;
// the scheduler never sees them.
func (m Model) commitPicker() (tea.Model, tea.Cmd) {
	at, err := civil.ParseInput(m.dateInput.Value(), m.timeInput.Value())
	if err != nil {
		m.pickerErr = "invalid date or time"
		return m, nil
	}
	if !at.After(m.now()) {
		m.pickerErr = "reminder must be in the future"
		return m, nil
	}

	taskID := m.pickerTaskID
	m.closePicker()
	if err := m.Store.SetReminder(context.Background(), taskID, at); err != nil {
		if errors.Is(err, scheduler.ErrPermissionDenied) {
			m.Status = StatusBar{Text: "notification permission denied", IsError: true}
		} else {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
		}
		return m, nil
	}
	m.Status = StatusBar{Text: fmt.Sprintf("reminder set for %s", civil.FormatShort(at, m.now()))}
	return m, nil
}

func (m *Model) closePicker() {
	m.Mode = ModeList
	m.pickerTaskID = ""
	m.pickerErr = ""
	m.dateInput.Blur()
	m.timeInput.Blur()
}
