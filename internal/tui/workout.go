// Package tui holds the Bubbletea screens of the gymcoach CLI.
package tui

import (
	"fmt"
	"strings"
	"time"

	"alcyxob/gym-coach/internal/plan"
	"alcyxob/gym-coach/internal/session"
	"alcyxob/gym-coach/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// tickMsg is one second of the session clock. gen ties it to the phase that
// scheduled it; ticks from an earlier phase are dropped.
type tickMsg struct {
	gen uint64
}

func tickCmd(gen uint64) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// WorkoutModel runs a guided workout over an effective plan.
type WorkoutModel struct {
	plan        plan.Plan
	runner      *session.Runner // nil for an empty plan
	confirmExit bool
	quitting    bool
	width       int
}

// NewWorkout builds the workout screen. An empty plan shows the empty state
// and cannot be started.
func NewWorkout(p plan.Plan) WorkoutModel {
	m := WorkoutModel{plan: p}
	if r, err := session.NewRunner(len(p)); err == nil {
		m.runner = r
	}
	return m
}

func (m WorkoutModel) Init() tea.Cmd {
	return nil
}

// Runner exposes the state machine, nil when the plan is empty.
func (m WorkoutModel) Runner() *session.Runner { return m.runner }

func (m WorkoutModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		if m.runner != nil && m.runner.Tick(msg.gen) {
			return m, tickCmd(msg.gen)
		}
		return m, nil

	case tea.KeyMsg:
		if m.confirmExit {
			return m.handleConfirmKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m WorkoutModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "ctrl+c":
		m.runner.Abandon()
		m.quitting = true
		return m, tea.Quit
	case "n", "N", "esc":
		m.confirmExit = false
	}
	return m, nil
}

func (m WorkoutModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "q" || key == "esc" || key == "ctrl+c" {
		if m.runner != nil && m.runner.NeedsExitConfirm() {
			m.confirmExit = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}
	if m.runner == nil {
		return m, nil
	}

	var err error
	switch key {
	case "enter", " ":
		switch m.runner.Phase() {
		case session.NotStarted:
			err = m.runner.Start()
		case session.Exercising:
			err = m.runner.FinishExercise()
		case session.Resting:
			err = m.runner.Next()
		}
	case "n", "right":
		err = m.runner.Next()
	case "p", "left":
		err = m.runner.Previous()
	case "r":
		// Same phase, same generation: the running clock just restarts from 0.
		_ = m.runner.Reset()
		return m, nil
	default:
		return m, nil
	}
	if err != nil || !m.runner.Running() {
		return m, nil
	}
	return m, tickCmd(m.runner.Generation())
}

func (m WorkoutModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.Title.Render("Workout"))
	b.WriteString("\n")

	if m.runner == nil {
		b.WriteString(styles.Muted.Render("No exercises assigned yet. Ask your trainer for a plan."))
		b.WriteString("\n")
		b.WriteString(styles.Help.Render("q quit"))
		return b.String()
	}

	r := m.runner
	switch r.Phase() {
	case session.NotStarted:
		b.WriteString(fmt.Sprintf("%d exercises in today's plan.\n\n", r.Total()))
		for i, entry := range m.plan {
			b.WriteString(styles.Muted.Render(fmt.Sprintf("%2d. ", i+1)))
			b.WriteString(fmt.Sprintf("%s (%s)\n", entry.Name, entry.BodyPartName))
		}
		b.WriteString(styles.Help.Render("enter start · q quit"))

	case session.Exercising, session.Resting:
		entry := m.plan[r.Index()]
		badge := styles.PhaseExercise.Render("EXERCISE")
		if r.Phase() == session.Resting {
			badge = styles.PhaseRest.Render("REST")
		}
		b.WriteString(fmt.Sprintf("%s  %d/%d  %s\n", badge, r.Index()+1, r.Total(), styles.Selected.Render(entry.Name)))
		b.WriteString(styles.Subtitle.Render(entry.BodyPartName))
		b.WriteString("\n")
		b.WriteString(styles.Timer.Render(session.FormatElapsed(r.Elapsed())))
		b.WriteString("\n")

		if r.Phase() == session.Exercising {
			for i, step := range entry.Steps() {
				b.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
			}
			b.WriteString(styles.Help.Render("enter finish · p previous · r reset · q quit"))
		} else {
			next := "last exercise done"
			if !r.IsLast() {
				next = "up next: " + m.plan[r.Index()+1].Name
			}
			b.WriteString(styles.Muted.Render(next))
			b.WriteString(styles.Help.Render("enter next · p back to exercise · q quit"))
		}

	case session.Completed:
		b.WriteString(styles.Secondary.Render(fmt.Sprintf("Workout complete: %d exercises.", r.Total())))
		b.WriteString("\n")
		b.WriteString(styles.Help.Render("q quit"))
	}

	if m.confirmExit {
		b.WriteString("\n")
		b.WriteString(styles.ConfirmBox.Render("Leave the workout? Progress is not saved. (y/n)"))
	}
	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
	}
	return b.String()
}
