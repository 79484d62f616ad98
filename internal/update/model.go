package update

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/qianzhouyu594-ai/todoAPP/internal/scheduler"
	"github.com/qianzhouyu594-ai/todoAPP/internal/store"
)

// Mode is the interaction state of the single screen. Overlay modes
// (picker, confirm, alert, help) capture all keys until dismissed.
type Mode string

const (
	ModeList             Mode = "list"
	ModeAdd              Mode = "add"
	ModeEdit             Mode = "edit"
	ModePicker           Mode = "picker"
	ModeConfirmDelete    Mode = "confirm_delete"
	ModeConfirmDeleteAll Mode = "confirm_delete_all"
	ModeAlert            Mode = "alert"
	ModeHelp             Mode = "help"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type Model struct {
	Store     *store.Store
	Scheduler *scheduler.Scheduler
	Mode      Mode
	Cursor    int
	Status    StatusBar
	Quitting  bool

	pendingDeleteID string
	pickerTaskID    string
	pickerFocus     int
	pickerErr       string
	alertTitle      string

	quickAddInput textinput.Model
	editInput     textinput.Model
	dateInput     textinput.Model
	timeInput     textinput.Model

	now func() time.Time
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type ReminderFiredMsg struct {
	Event scheduler.Fired
}

func NewModel(st *store.Store, sched *scheduler.Scheduler) Model {
	quickAdd := textinput.New()
	quickAdd.Placeholder = "what needs doing?"
	quickAdd.CharLimit = 200

	edit := textinput.New()
	edit.CharLimit = 200

	date := textinput.New()
	date.Placeholder = "YYYY-MM-DD"
	date.CharLimit = 10

	clock := textinput.New()
	clock.Placeholder = "HH:mm"
	clock.CharLimit = 5

	return Model{
		Store:         st,
		Scheduler:     sched,
		Mode:          ModeList,
		quickAddInput: quickAdd,
		editInput:     edit,
		dateInput:     date,
		timeInput:     clock,
		now:           time.Now,
	}
}

// selectedTaskID resolves the cursor to a task id, "" when the list is
// empty.
func (m Model) selectedTaskID() string {
	tasks := m.Store.Tasks()
	if len(tasks) == 0 || m.Cursor < 0 || m.Cursor >= len(tasks) {
		return ""
	}
	return tasks[m.Cursor].ID
}

func (m *Model) clampCursor() {
	n := len(m.Store.Tasks())
	if n == 0 {
		m.Cursor = 0
		return
	}
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}
