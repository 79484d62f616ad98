package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/qianzhouyu594-ai/todoAPP/internal/civil"
	"github.com/qianzhouyu594-ai/todoAPP/internal/scheduler"
	"github.com/qianzhouyu594-ai/todoAPP/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Scheduler != nil {
		return waitForReminderCmd(m.Scheduler.C())
	}
	return nil
}

func waitForReminderCmd(ch <-chan scheduler.Fired) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderFiredMsg{Event: ev}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case ReminderFiredMsg:
		return m.onReminderFired(typed)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}

	switch m.Mode {
	case ModeAdd:
		return m.handleAddKey(msg)
	case ModeEdit:
		return m.handleEditKey(msg)
	case ModePicker:
		return m.handlePickerKey(msg)
	case ModeConfirmDelete, ModeConfirmDeleteAll:
		return m.handleConfirmKey(msg)
	case ModeAlert:
		switch msg.String() {
		case "enter", "esc":
			m.Mode = ModeList
			m.alertTitle = ""
		}
		return m, nil
	case ModeHelp:
		m.Mode = ModeList
		return m, nil
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) onReminderFired(msg ReminderFiredMsg) (tea.Model, tea.Cmd) {
	// Fallback-path firing: the task transitions back to unarmed.
	m.Store.ReminderFired(msg.Event.TaskID)

	// The one-time alert takes the screen unless the user is mid-overlay;
	// then the status line carries it instead.
	if m.Mode == ModeList || m.Mode == ModeAdd {
		m.alertTitle = msg.Event.Title
		m.Mode = ModeAlert
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("reminder: %s", msg.Event.Title)}
	}

	if m.Scheduler != nil {
		return m, waitForReminderCmd(m.Scheduler.C())
	}
	return m, nil
}

func (m Model) View() string {
	now := m.now()
	tasks := m.Store.Tasks()
	total, active, completed := m.Store.Counts()

	rows := make([]views.TaskRowData, 0, len(tasks))
	for i, t := range tasks {
		row := views.TaskRowData{
			Title:     t.Title,
			Completed: t.Completed,
			Selected:  i == m.Cursor && m.Mode != ModeAdd,
		}
		if t.HasReminder() {
			row.ReminderLabel = civil.FormatShort(*t.ReminderAt, now)
		}
		if m.Mode == ModeEdit && t.ID == m.Store.EditingID() {
			row.Editing = true
			row.EditInputView = m.editInput.View()
		}
		rows = append(rows, row)
	}

	body := views.RenderTaskList(views.ListData{
		QuickAddView: m.quickAddInput.View(),
		Rows:         rows,
		Total:        total,
		Active:       active,
		Completed:    completed,
	})

	overlay := ""
	switch m.Mode {
	case ModePicker:
		title := ""
		if t, ok := m.Store.Get(m.pickerTaskID); ok {
			title = t.Title
		}
		overlay = views.RenderReminderPicker(views.ReminderPickerData{
			TaskTitle:     title,
			DateInputView: m.dateInput.View(),
			TimeInputView: m.timeInput.View(),
			ErrorText:     m.pickerErr,
		})
	case ModeConfirmDelete:
		prompt := "delete this task?"
		if t, ok := m.Store.Get(m.pendingDeleteID); ok {
			prompt = fmt.Sprintf("delete %q?", t.Title)
		}
		overlay = views.RenderConfirm(views.ConfirmData{Prompt: prompt})
	case ModeConfirmDeleteAll:
		overlay = views.RenderConfirm(views.ConfirmData{Prompt: "delete ALL tasks?"})
	case ModeAlert:
		overlay = views.RenderAlert(views.AlertData{TaskTitle: m.alertTitle})
	case ModeHelp:
		overlay = views.RenderHelp()
	}

	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = "error: " + m.Status.Text
		} else {
			status = m.Status.Text
		}
	}

	return views.RenderApp(views.AppData{
		Header:     "todoapp",
		Body:       body,
		Overlay:    overlay,
		StatusLine: status,
		Footer:     "keys: i add | j/k move | space done | e edit | d del | r remind | ? help | q quit",
	})
}
