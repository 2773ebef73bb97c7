package tui

import (
	"context"
	"fmt"
	"strings"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/plan"
	"alcyxob/gym-coach/internal/tui/styles"

	tea "github.com/charmbracelet/bubbletea"
)

// OrderStore persists the displayed exercise order.
type OrderStore interface {
	SaveOrder(ctx context.Context, studentID string, order domain.ExerciseOrder) error
}

type orderSavedMsg struct {
	order domain.ExerciseOrder
	err   error
}

// OrderModel lets a trainer reorder the reconciled plan of a student. Saving
// writes exactly the displayed pairs.
type OrderModel struct {
	ctx       context.Context
	store     OrderStore
	studentID string
	student   string
	plan      plan.Plan
	saved     domain.ExerciseOrder

	cursor   int
	confirm  bool
	busy     bool
	status   string
	failed   bool
	quitting bool
}

func NewOrder(ctx context.Context, store OrderStore, studentID, studentName string, p plan.Plan) OrderModel {
	return OrderModel{
		ctx:       ctx,
		store:     store,
		studentID: studentID,
		student:   studentName,
		plan:      p,
		saved:     p.Order(),
	}
}

func (m OrderModel) Init() tea.Cmd { return nil }

// Plan is the order as currently displayed.
func (m OrderModel) Plan() plan.Plan { return m.plan }

// Dirty reports whether the display differs from the last saved order.
func (m OrderModel) Dirty() bool {
	current := m.plan.Order()
	if len(current) != len(m.saved) {
		return true
	}
	for i := range current {
		if current[i] != m.saved[i] {
			return true
		}
	}
	return false
}

func (m OrderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case orderSavedMsg:
		m.busy = false
		if msg.err != nil {
			m.status, m.failed = "Save failed: "+msg.err.Error(), true
			return m, nil
		}
		m.saved = msg.order
		m.status, m.failed = "Order saved.", false
		return m, nil

	case tea.KeyMsg:
		if m.confirm {
			m.confirm = false
			if msg.String() == "y" || msg.String() == "Y" || msg.String() == "ctrl+c" {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m OrderModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		if m.Dirty() {
			m.confirm = true
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.plan)-1 {
			m.cursor++
		}
	case "K", "shift+up":
		m.move(m.cursor - 1)
	case "J", "shift+down":
		m.move(m.cursor + 1)
	case "s":
		m.busy = true
		m.status = "Saving..."
		order := m.plan.Order()
		ctx, store, id := m.ctx, m.store, m.studentID
		return m, func() tea.Msg {
			return orderSavedMsg{order: order, err: store.SaveOrder(ctx, id, order)}
		}
	}
	return m, nil
}

// move drags the entry under the cursor to position to; out of range is a no-op.
func (m *OrderModel) move(to int) {
	moved, err := plan.Move(m.plan, m.cursor, to)
	if err != nil {
		return
	}
	m.plan = moved
	m.cursor = to
}

func (m OrderModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	title := "Exercise order"
	if m.student != "" {
		title += ": " + m.student
	}
	if m.Dirty() {
		title += " *"
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")

	if len(m.plan) == 0 {
		b.WriteString(styles.Muted.Render("Nothing assigned. Assign exercises first."))
		b.WriteString("\n")
	}
	for i, entry := range m.plan {
		line := fmt.Sprintf("%2d. %s %s", i+1, entry.Name, styles.Muted.Render("("+entry.BodyPartName+")"))
		if i == m.cursor {
			line = styles.Selected.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	if m.confirm {
		b.WriteString(styles.ConfirmBox.Render("Discard the new order? (y/n)"))
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
	b.WriteString(styles.Help.Render("↑/↓ select · J/K move · s save · q quit"))
	return b.String()
}
