package update

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.Quitting = true
		return m, tea.Quit
	case "i", "enter":
		m.Mode = ModeAdd
		m.quickAddInput.Focus()
		return m, nil
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Store.Tasks())-1 {
			m.Cursor++
		}
	case " ":
		if id := m.selectedTaskID(); id != "" {
			m.Store.Toggle(id)
		}
	case "e":
		if id := m.selectedTaskID(); id != "" {
			title, ok := m.Store.BeginEdit(id)
			if ok {
				m.Mode = ModeEdit
				m.editInput.SetValue(title)
				m.editInput.CursorEnd()
				m.editInput.Focus()
			}
		}
	case "d":
		if id := m.selectedTaskID(); id != "" {
			m.pendingDeleteID = id
			m.Mode = ModeConfirmDelete
		}
	case "D":
		if len(m.Store.Tasks()) > 0 {
			m.Mode = ModeConfirmDeleteAll
		}
	case "a":
		m.Store.CompleteAll()
		m.Status = StatusBar{Text: "all tasks completed"}
	case "c":
		removed := m.Store.ClearCompleted(context.Background())
		if removed > 0 {
			m.Status = StatusBar{Text: fmt.Sprintf("cleared %d completed", removed)}
		}
		m.clampCursor()
	case "r":
		if id := m.selectedTaskID(); id != "" {
			m.openReminderPicker(id)
		}
	case "x":
		if id := m.selectedTaskID(); id != "" {
			if t, ok := m.Store.Get(id); ok && t.HasReminder() {
				m.Store.ClearReminder(context.Background(), id)
				m.Status = StatusBar{Text: "reminder cleared"}
			}
		}
	case "?":
		m.Mode = ModeHelp
	}
	return m, nil
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = ModeList
		m.quickAddInput.Blur()
		return m, nil
	case "enter":
		if task, ok := m.Store.Add(m.quickAddInput.Value()); ok {
			m.quickAddInput.SetValue("")
			m.Cursor = 0
			m.Status = StatusBar{Text: fmt.Sprintf("added %q", task.Title)}
		} else {
			m.Status = StatusBar{Text: "title is empty", IsError: true}
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.quickAddInput, cmd = m.quickAddInput.Update(msg)
	return m, cmd
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Store.CancelEdit()
		m.Mode = ModeList
		m.editInput.Blur()
		return m, nil
	case "enter":
		m.Store.CommitEdit(m.editInput.Value())
		m.Mode = ModeList
		m.editInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.Mode == ModeConfirmDelete {
			m.Store.Remove(context.Background(), m.pendingDeleteID)
			m.Status = StatusBar{Text: "task deleted"}
		} else {
			m.Store.DeleteAll(context.Background())
			m.Status = StatusBar{Text: "all tasks deleted"}
		}
		m.pendingDeleteID = ""
		m.Mode = ModeList
		m.clampCursor()
	case "n", "N", "esc":
		m.pendingDeleteID = ""
		m.Mode = ModeList
	}
	return m, nil
}
