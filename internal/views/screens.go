package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TaskRowData struct {
	Title         string
	Completed     bool
	Selected      bool
	Editing       bool
	EditInputView string
	ReminderLabel string
}

type ListData struct {
	QuickAddView string
	Rows         []TaskRowData
	Total        int
	Active       int
	Completed    int
}

type ReminderPickerData struct {
	TaskTitle     string
	DateInputView string
	TimeInputView string
	ErrorText     string
}

type ConfirmData struct {
	Prompt string
}

type AlertData struct {
	TaskTitle string
}

var (
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	selectedStyle  = lipgloss.NewStyle().Bold(true)
	reminderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	pickerErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func RenderTaskList(data ListData) string {
	var b strings.Builder
	b.WriteString("add: " + data.QuickAddView + "\n")
	if len(data.Rows) == 0 {
		b.WriteString("(no tasks yet)\n")
	}
	for _, row := range data.Rows {
		b.WriteString(renderTaskRow(row) + "\n")
	}
	b.WriteString(fmt.Sprintf("%d total | %d active | %d done", data.Total, data.Active, data.Completed))
	return strings.TrimRight(b.String(), "\n")
}

func renderTaskRow(row TaskRowData) string {
	cursor := "  "
	if row.Selected {
		cursor = "> "
	}
	box := "[ ]"
	if row.Completed {
		box = "[x]"
	}

	if row.Editing {
		return cursor + box + " " + row.EditInputView
	}

	title := row.Title
	if row.Completed {
		title = doneStyle.Render(title)
	} else if row.Selected {
		title = selectedStyle.Render(title)
	}
	line := cursor + box + " " + title
	if row.ReminderLabel != "" {
		line += " " + reminderStyle.Render("⏰ "+row.ReminderLabel)
	}
	return line
}

func RenderReminderPicker(data ReminderPickerData) string {
	var b strings.Builder
	b.WriteString("reminder for: " + data.TaskTitle + "\n")
	b.WriteString("date (YYYY-MM-DD): " + data.DateInputView + "\n")
	b.WriteString("time (HH:mm):      " + data.TimeInputView + "\n")
	if data.ErrorText != "" {
		b.WriteString(pickerErrStyle.Render(data.ErrorText) + "\n")
	}
	b.WriteString("[enter]set [tab]switch field [esc]cancel")
	return strings.TrimRight(b.String(), "\n")
}

func RenderConfirm(data ConfirmData) string {
	return data.Prompt + "\n[y]es / [n]o"
}

func RenderAlert(data AlertData) string {
	return "reminder: " + data.TaskTitle + "\n[enter]dismiss"
}

const helpMarkdown = "# todoapp\n\n" +
	"| key | action |\n" +
	"| --- | --- |\n" +
	"| type + enter | add task |\n" +
	"| j/k | move |\n" +
	"| space | toggle done |\n" +
	"| e | edit task |\n" +
	"| d | delete task |\n" +
	"| r | set reminder |\n" +
	"| x | clear reminder |\n" +
	"| a | complete all |\n" +
	"| c | clear completed |\n" +
	"| D | delete all |\n" +
	"| ? | help |\n" +
	"| q | quit |\n"

func RenderHelp() string {
	return RenderMarkdown(helpMarkdown)
}
