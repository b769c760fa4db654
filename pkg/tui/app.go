package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/ormasoftchile/bsif/pkg/bsif/exec"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

// Model is the top-level Bubble Tea model for the state-machine stepper.
type Model struct {
	sm          schema.StateMachine
	description string
	inst        *exec.Instance
	events      []string
	cursor      int
	quitting    bool
	errMsg      string
}

// New builds a Model whose instance starts at sm's initial state.
// description is the owning document's Metadata.Description, rendered as
// markdown above the state panel when non-empty.
func New(sm schema.StateMachine, description string) Model {
	m := Model{sm: sm, description: description, inst: exec.New(sm)}
	m.refreshEvents()
	return m
}

// refreshEvents recomputes the distinct set of events enabled from the
// current state, in transition declaration order.
func (m *Model) refreshEvents() {
	seen := map[string]bool{}
	m.events = m.events[:0]
	for _, t := range m.sm.Transitions {
		if t.From != m.inst.CurrentState() || t.Event == "" || seen[t.Event] {
			continue
		}
		seen[t.Event] = true
		m.events = append(m.events, t.Event)
	}
	if m.cursor >= len(m.events) {
		m.cursor = 0
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case keyMsg.String() == "q", keyMsg.String() == "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case keyMsg.String() == "up" || keyMsg.String() == "k":
		if len(m.events) > 0 {
			m.cursor = (m.cursor - 1 + len(m.events)) % len(m.events)
		}
	case keyMsg.String() == "down" || keyMsg.String() == "j":
		if len(m.events) > 0 {
			m.cursor = (m.cursor + 1) % len(m.events)
		}
	case keyMsg.String() == "enter":
		if len(m.events) == 0 {
			break
		}
		next, err := m.inst.Send(m.events[m.cursor])
		if err != nil {
			m.errMsg = err.Error()
			break
		}
		m.inst = next
		m.errMsg = ""
		m.refreshEvents()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("bsif repl") + " " + docBadgeStyle.Render(string(m.sm.Type())) + "\n\n")

	if m.description != "" {
		b.WriteString(panelTitle.Render("description") + "\n" + renderMarkdown(m.description) + "\n\n")
	}

	b.WriteString(panelTitle.Render("states") + "\n")
	nameWidth := 0
	for _, s := range m.sm.States {
		if w := runewidth.StringWidth(s.Name); w > nameWidth {
			nameWidth = w
		}
	}
	for _, s := range m.sm.States {
		glyph := GlyphIdle
		style := stateNormal
		switch {
		case s.Name == m.inst.CurrentState():
			glyph, style = GlyphCurrent, stateCurrent
		case isFinal(m.sm, s.Name):
			if contains(m.inst.History(), s.Name) {
				glyph, style = GlyphFinal, stateFinal
			}
		case contains(m.inst.History(), s.Name):
			glyph, style = GlyphVisited, stateVisited
		}
		padded := runewidth.FillRight(s.Name, nameWidth)
		b.WriteString("  " + style.Render(glyph+" "+padded) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(panelTitle.Render("events") + "\n")
	if len(m.events) == 0 {
		b.WriteString("  " + keyDescStyle.Render("(none enabled)") + "\n")
	}
	for i, e := range m.events {
		line := "  " + e
		if i == m.cursor {
			line = "▸ " + eventStyle.Render(e)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	b.WriteString(panelTitle.Render("history") + "\n  " + actionStyle.Render(strings.Join(m.inst.History(), " → ")) + "\n\n")

	if actions := m.inst.Actions(); len(actions) > 0 {
		b.WriteString(panelTitle.Render("actions") + "\n  " + actionStyle.Render(strings.Join(actions, ", ")) + "\n\n")
	}

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render("! "+m.errMsg) + "\n\n")
	}

	if m.inst.IsInFinalState() {
		b.WriteString(finalBannerStyle.Render(fmt.Sprintf("reached final state %q", m.inst.CurrentState())) + "\n\n")
	}

	b.WriteString(keyBarStyle.Render(keyBarText(m.inst.IsInFinalState())))
	return b.String()
}

func isFinal(sm schema.StateMachine, name string) bool {
	for _, f := range sm.Final {
		if f == name {
			return true
		}
	}
	return false
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}

// Run launches the Bubble Tea program for sm and blocks until the user
// quits. description is rendered as the document's markdown description
// panel when non-empty.
func Run(sm schema.StateMachine, description string) error {
	_, err := tea.NewProgram(New(sm, description)).Run()
	return err
}
