// Package tui implements a terminal user interface for stepping a BSIF
// state machine interactively: the current state, available transitions
// and visited history render as a Bubble Tea app driven by key input.
package tui

import "github.com/charmbracelet/lipgloss"

// State glyphs — convey meaning without relying on color alone.
const (
	GlyphCurrent = "▸"
	GlyphVisited = "✓"
	GlyphIdle    = "○"
	GlyphFinal   = "◆"
)

// Palette adapts to terminal capabilities via lipgloss.
var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
	colorBlue   = lipgloss.Color("39")
	colorCyan   = lipgloss.Color("51")
	colorDim    = lipgloss.Color("240")
	colorWhite  = lipgloss.Color("255")
)

// --- Header styles ---

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorCyan).
	Padding(0, 1)

var docBadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("0")).
	Background(colorYellow).
	Padding(0, 1)

// --- State list styles ---

var (
	stateNormal = lipgloss.NewStyle().
			Foreground(colorWhite)

	stateCurrent = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	stateVisited = lipgloss.NewStyle().
			Foreground(colorGreen)

	stateFinal = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true)
)

// --- Panel styles ---

var (
	panelBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim)

	panelTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan).
			Padding(0, 1)

	actionStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	eventStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)
)

// --- Key bar styles ---

var (
	keyStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true)

	keyDescStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	keyBarStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// --- Banners ---

var finalBannerStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(colorCyan).
	Foreground(colorCyan).
	Bold(true).
	Padding(0, 2).
	Align(lipgloss.Center)

var errorStyle = lipgloss.NewStyle().
	Foreground(colorRed).
	Bold(true)
