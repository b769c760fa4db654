package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ormasoftchile/bsif/pkg/bsif/diag"
)

// WatchResultMsg carries one debounced re-validation into the Bubble Tea
// update loop; the watcher delivers it from its own goroutine via
// tea.Program.Send, which is safe to call concurrently with Update.
type WatchResultMsg struct {
	Path  string
	Diags diag.List
	Err   error
}

type watchRow struct {
	path    string
	ok      bool
	pending bool
	errMsg  string
}

// WatchModel is the live per-file status view run by the bsif-watch
// binary.
type WatchModel struct {
	rows  []watchRow
	index map[string]int
}

// NewWatch builds a WatchModel listing paths as pending until their first
// WatchResultMsg arrives.
func NewWatch(paths []string) WatchModel {
	m := WatchModel{index: map[string]int{}}
	for _, p := range paths {
		m.index[p] = len(m.rows)
		m.rows = append(m.rows, watchRow{path: p, pending: true})
	}
	return m
}

func (m WatchModel) Init() tea.Cmd { return nil }

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case WatchResultMsg:
		i, ok := m.index[msg.Path]
		if !ok {
			i = len(m.rows)
			m.index[msg.Path] = i
			m.rows = append(m.rows, watchRow{path: msg.Path})
		}
		row := &m.rows[i]
		row.pending = false
		switch {
		case msg.Err != nil:
			row.ok = false
			row.errMsg = msg.Err.Error()
		case msg.Diags.HasErrors():
			row.ok = false
			row.errMsg = strings.Join(errorMessages(msg.Diags.Errors()), "; ")
		default:
			row.ok = true
			row.errMsg = ""
		}
	}
	return m, nil
}

func (m WatchModel) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("bsif watch") + "\n\n")
	for _, row := range m.rows {
		glyph, style, status := GlyphIdle, stateNormal, "pending"
		switch {
		case row.pending:
		case row.errMsg != "":
			glyph, style, status = GlyphCurrent, errorStyle, row.errMsg
		case row.ok:
			glyph, style, status = GlyphFinal, stateFinal, "valid"
		}
		b.WriteString("  " + style.Render(glyph+" "+row.path) + "  " + keyDescStyle.Render(status) + "\n")
	}
	b.WriteString("\n" + keyBarStyle.Render(keyStyle.Render("q")+" "+keyDescStyle.Render("quit")))
	return b.String()
}

func errorMessages(diags diag.List) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Error())
	}
	return out
}
