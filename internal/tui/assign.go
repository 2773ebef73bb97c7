package tui

import (
	"context"
	"fmt"
	"strings"

	"alcyxob/gym-coach/internal/assignment"
	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
)

// AssignStore persists a student's assignment set.
type AssignStore interface {
	SaveAssignments(ctx context.Context, studentID string, set domain.AssignmentSet) (domain.AssignmentSet, error)
	ClearAssignments(ctx context.Context, studentID string) error
}

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmExit
	confirmDeleteAll
)

type assignSavedMsg struct{ err error }

type assignDeletedMsg struct{ err error }

// AssignModel is the trainer's assignment editor for one student.
type AssignModel struct {
	ctx       context.Context
	store     AssignStore
	studentID string
	student   string
	catalog   []domain.BodyPart
	editor    *assignment.Editor

	bodyPart int
	cursor   int
	confirm  confirmKind
	busy     bool
	status   string
	failed   bool
	quitting bool
}

func NewAssign(ctx context.Context, store AssignStore, studentID, studentName string, catalog []domain.BodyPart, loaded domain.AssignmentSet) AssignModel {
	return AssignModel{
		ctx:       ctx,
		store:     store,
		studentID: studentID,
		student:   studentName,
		catalog:   catalog,
		editor:    assignment.NewEditor(loaded),
	}
}

func (m AssignModel) Init() tea.Cmd { return nil }

// Editor exposes the editing session.
func (m AssignModel) Editor() *assignment.Editor { return m.editor }

func (m AssignModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case assignSavedMsg:
		m.busy = false
		if msg.err != nil {
			m.status, m.failed = "Save failed: "+msg.err.Error(), true
			return m, nil
		}
		m.editor.MarkSaved()
		m.status, m.failed = "Saved.", false
		return m, nil

	case assignDeletedMsg:
		m.busy = false
		if msg.err != nil {
			m.status, m.failed = "Delete failed: "+msg.err.Error(), true
			return m, nil
		}
		m.editor.DeleteAll()
		m.status, m.failed = "All assignments deleted.", false
		return m, nil

	case tea.KeyMsg:
		if m.confirm != confirmNone {
			return m.handleConfirmKey(msg)
		}
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m AssignModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind := m.confirm
	m.confirm = confirmNone
	if msg.String() == "ctrl+c" {
		// Leaves without deleting or saving anything.
		m.quitting = true
		return m, tea.Quit
	}
	if msg.String() != "y" && msg.String() != "Y" {
		return m, nil
	}
	switch kind {
	case confirmExit:
		m.quitting = true
		return m, tea.Quit
	case confirmDeleteAll:
		m.busy = true
		m.status = "Deleting..."
		return m, m.deleteAll()
	}
	return m, nil
}

func (m AssignModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		if m.editor.Exit() == assignment.ExitNeedsConfirm {
			m.confirm = confirmExit
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if bp := m.current(); bp != nil && m.cursor < len(bp.Exercises)-1 {
			m.cursor++
		}
	case "right", "l", "tab":
		if len(m.catalog) > 0 {
			m.bodyPart = (m.bodyPart + 1) % len(m.catalog)
			m.cursor = 0
		}
	case "left", "h", "shift+tab":
		if len(m.catalog) > 0 {
			m.bodyPart = (m.bodyPart - 1 + len(m.catalog)) % len(m.catalog)
			m.cursor = 0
		}
	case " ", "enter":
		if bp := m.current(); bp != nil && m.cursor < len(bp.Exercises) {
			m.editor.Toggle(bp.ID, m.cursor)
		}
	case "s":
		m.busy = true
		m.status = "Saving..."
		return m, m.save()
	case "D":
		m.confirm = confirmDeleteAll
	}
	return m, nil
}

func (m AssignModel) current() *domain.BodyPart {
	if m.bodyPart < 0 || m.bodyPart >= len(m.catalog) {
		return nil
	}
	return &m.catalog[m.bodyPart]
}

func (m AssignModel) save() tea.Cmd {
	req := m.editor.SaveRequest()
	ctx, store, id := m.ctx, m.store, m.studentID
	return func() tea.Msg {
		if req.ClearField {
			return assignSavedMsg{err: store.ClearAssignments(ctx, id)}
		}
		_, err := store.SaveAssignments(ctx, id, req.Set)
		return assignSavedMsg{err: err}
	}
}

func (m AssignModel) deleteAll() tea.Cmd {
	ctx, store, id := m.ctx, m.store, m.studentID
	return func() tea.Msg {
		return assignDeletedMsg{err: store.ClearAssignments(ctx, id)}
	}
}

func (m AssignModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	title := "Assign exercises"
	if m.student != "" {
		title += ": " + m.student
	}
	if m.editor.Dirty() {
		title += " *"
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")

	if len(m.catalog) == 0 {
		b.WriteString(styles.Muted.Render("The catalog is empty."))
		return b.String()
	}

	tabs := make([]string, len(m.catalog))
	for i, bp := range m.catalog {
		label := fmt.Sprintf("%s (%d)", bp.Name, m.editor.Count(bp.ID))
		if i == m.bodyPart {
			label = styles.Selected.Render("[" + label + "]")
		} else {
			label = styles.Muted.Render(label)
		}
		tabs[i] = label
	}
	b.WriteString(strings.Join(tabs, "  "))
	b.WriteString("\n\n")

	bp := m.current()
	for i, ex := range bp.Exercises {
		box := "[ ]"
		if m.editor.Selected(bp.ID, i) {
			box = styles.Checked.Render("[x]")
		}
		line := fmt.Sprintf("%s %s", box, ex.Name)
		if i == m.cursor {
			line = styles.Selected.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	switch m.confirm {
	case confirmExit:
		b.WriteString(styles.ConfirmBox.Render("Discard unsaved changes? (y/n)"))
		b.WriteString("\n")
	case confirmDeleteAll:
		b.WriteString(styles.ConfirmBox.Render("Delete ALL assignments of this student? This cannot be undone. (y/n)"))
		b.WriteString("\n")
	}
	if m.status != "" {
		style := styles.Secondary
		if m.failed {
			style = styles.Error
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(styles.Help.Render("space toggle · ←/→ body part · s save · D delete all · q quit"))
	return b.String()
}
