package tui

import (
	"context"
	"fmt"
	"strings"

	"alcyxob/gym-coach/internal/client"
	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/tui/styles"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ExerciseStore streams and edits one exercise.
type ExerciseStore interface {
	WatchExercise(ctx context.Context, bodyPartID string, index int, onUpdate func(client.ExerciseDetail)) error
	UpdateExercise(ctx context.Context, bodyPartID string, index int, ex domain.Exercise) (*client.ExerciseDetail, error)
}

type detailMsg client.ExerciseDetail

type streamClosedMsg struct{ err error }

type exerciseSavedMsg struct{ err error }

// editableField maps one text field of an exercise to the edit form.
type editableField struct {
	label string
	get   func(domain.Exercise) string
	set   func(*domain.Exercise, string)
}

var editableFields = []editableField{
	{"Name", func(e domain.Exercise) string { return e.Name }, func(e *domain.Exercise, v string) { e.Name = v }},
	{"Difficulty", func(e domain.Exercise) string { return e.Difficulty }, func(e *domain.Exercise, v string) { e.Difficulty = v }},
	{"Equipment", func(e domain.Exercise) string { return e.Equipment }, func(e *domain.Exercise, v string) { e.Equipment = v }},
	{"Target", func(e domain.Exercise) string { return e.Target }, func(e *domain.Exercise, v string) { e.Target = v }},
	{"Secondary muscles", func(e domain.Exercise) string { return e.SecondaryMuscles }, func(e *domain.Exercise, v string) { e.SecondaryMuscles = v }},
	{"Description", func(e domain.Exercise) string { return e.Description }, func(e *domain.Exercise, v string) { e.Description = v }},
	{"Instructions", func(e domain.Exercise) string { return e.Instructions }, func(e *domain.Exercise, v string) { e.Instructions = v }},
}

// ExerciseModel shows an exercise live. Admins can edit it in place; pushed
// updates never overwrite an open edit.
type ExerciseModel struct {
	ctx        context.Context
	cancel     context.CancelFunc
	store      ExerciseStore
	bodyPartID string
	index      int
	canEdit    bool

	updates  chan client.ExerciseDetail
	closed   chan error
	observer *client.DetailObserver

	input    textinput.Model
	field    int
	saving   bool
	status   string
	failed   bool
	quitting bool
}

// NewExercise subscribes on Init. The subscription is released when the
// model quits or ctx is cancelled.
func NewExercise(ctx context.Context, store ExerciseStore, bodyPartID string, index int, canEdit bool) ExerciseModel {
	ctx, cancel := context.WithCancel(ctx)
	ti := textinput.New()
	ti.CharLimit = 2000
	ti.Width = 60
	return ExerciseModel{
		ctx:        ctx,
		cancel:     cancel,
		store:      store,
		bodyPartID: bodyPartID,
		index:      index,
		canEdit:    canEdit,
		updates:    make(chan client.ExerciseDetail, 8),
		closed:     make(chan error, 1),
		observer:   &client.DetailObserver{},
		input:      ti,
	}
}

func (m ExerciseModel) Init() tea.Cmd {
	ctx, store, bp, idx := m.ctx, m.store, m.bodyPartID, m.index
	updates, closed := m.updates, m.closed
	go func() {
		err := store.WatchExercise(ctx, bp, idx, func(d client.ExerciseDetail) {
			select {
			case updates <- d:
			case <-ctx.Done():
			}
		})
		closed <- err
	}()
	return m.waitForUpdate()
}

func (m ExerciseModel) waitForUpdate() tea.Cmd {
	updates, closed := m.updates, m.closed
	return func() tea.Msg {
		select {
		case d := <-updates:
			return detailMsg(d)
		case err := <-closed:
			return streamClosedMsg{err: err}
		}
	}
}

// Observer exposes the displayed state.
func (m ExerciseModel) Observer() *client.DetailObserver { return m.observer }

func (m ExerciseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case detailMsg:
		if !m.observer.Apply(client.ExerciseDetail(msg)) {
			m.status, m.failed = "Changed remotely; your edit is kept.", false
		}
		return m, m.waitForUpdate()

	case streamClosedMsg:
		if msg.err != nil {
			m.status, m.failed = "Live updates stopped: "+msg.err.Error(), true
		}
		return m, nil

	case exerciseSavedMsg:
		m.saving = false
		if msg.err != nil {
			// Edit stays open; enter retries the same draft.
			m.status, m.failed = "Save failed: "+msg.err.Error(), true
			return m, nil
		}
		m.observer.Commit()
		m.input.Blur()
		m.status, m.failed = "Saved.", false
		return m, nil

	case tea.KeyMsg:
		if m.saving {
			return m, nil
		}
		if m.observer.Editing() {
			return m.handleEditKey(msg)
		}
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.cancel()
			m.quitting = true
			return m, tea.Quit
		case "e":
			if m.canEdit {
				if _, ok := m.observer.Current(); ok {
					m.field = 0
					m.loadField(m.observer.BeginEdit())
					m.status = ""
					return m, textinput.Blink
				}
			}
		}
	}
	return m, nil
}

func (m ExerciseModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.observer.CancelEdit()
		m.input.Blur()
		m.status = "Edit cancelled."
		return m, nil
	case "tab", "down":
		m.storeField()
		m.field = (m.field + 1) % len(editableFields)
		m.loadField(m.observer.Draft())
		return m, nil
	case "shift+tab", "up":
		m.storeField()
		m.field = (m.field - 1 + len(editableFields)) % len(editableFields)
		m.loadField(m.observer.Draft())
		return m, nil
	case "enter":
		m.storeField()
		draft := m.observer.Draft()
		m.saving = true
		m.status, m.failed = "Saving...", false
		ctx, store, bp, idx := m.ctx, m.store, m.bodyPartID, m.index
		return m, func() tea.Msg {
			_, err := store.UpdateExercise(ctx, bp, idx, draft)
			return exerciseSavedMsg{err: err}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.storeField()
	return m, cmd
}

func (m *ExerciseModel) loadField(ex domain.Exercise) {
	m.input.SetValue(editableFields[m.field].get(ex))
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *ExerciseModel) storeField() {
	draft := m.observer.Draft()
	editableFields[m.field].set(&draft, m.input.Value())
	m.observer.SetDraft(draft)
}

func (m ExerciseModel) View() string {
	if m.quitting {
		return ""
	}
	detail, ok := m.observer.Current()
	if !ok {
		return styles.Muted.Render("Loading exercise...")
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(detail.Exercise.Name))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s · #%d", detail.BodyPartName, detail.ExerciseIndex)))
	b.WriteString("\n\n")

	if m.observer.Editing() {
		draft := m.observer.Draft()
		for i, f := range editableFields {
			value := f.get(draft)
			if i == m.field {
				value = m.input.View()
				b.WriteString(styles.Selected.Render(fmt.Sprintf("%-18s", f.label)) + value + "\n")
				continue
			}
			b.WriteString(styles.Muted.Render(fmt.Sprintf("%-18s", f.label)) + value + "\n")
		}
	} else {
		ex := detail.Exercise
		for _, row := range [][2]string{
			{"Difficulty", ex.Difficulty},
			{"Equipment", ex.Equipment},
			{"Target", ex.Target},
			{"Secondary", ex.SecondaryMuscles},
		} {
			if row[1] != "" {
				b.WriteString(styles.Muted.Render(fmt.Sprintf("%-11s", row[0])) + row[1] + "\n")
			}
		}
		if ex.Description != "" {
			b.WriteString("\n" + ex.Description + "\n")
		}
		if len(detail.Steps) > 0 {
			b.WriteString("\n")
			for i, step := range detail.Steps {
				b.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
			}
		}
		if detail.MediaURL != "" {
			b.WriteString("\n" + styles.Muted.Render(fmt.Sprintf("%s: %s", detail.MediaKind, detail.MediaURL)) + "\n")
		}
	}

	if m.status != "" {
		style := styles.Secondary
		if m.failed {
			style = styles.Error
		}
		b.WriteString("\n" + style.Render(m.status) + "\n")
	}
	help := "q quit"
	if m.observer.Editing() {
		help = "tab next field · enter save · esc cancel"
	} else if m.canEdit {
		help = "e edit · q quit"
	}
	b.WriteString(styles.Help.Render(help))
	return b.String()
}
