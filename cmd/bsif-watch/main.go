// Package main provides the bsif-watch binary: a full-screen bubbletea
// frontend over `pkg/bsif/watch`'s debounced file-watch loop, showing
// live per-file validation status.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ormasoftchile/bsif/pkg/bsif/watch"
	"github.com/ormasoftchile/bsif/pkg/tui"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: bsif-watch file [file...]")
		os.Exit(1)
	}
	paths := os.Args[1:]

	program := tea.NewProgram(tui.NewWatch(paths))

	w, err := watch.New(paths, func(r watch.Result) {
		program.Send(tui.WatchResultMsg{Path: r.Path, Diags: r.Diags, Err: r.Err})
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	go func() {
		if err := w.Run(ctx); err != nil {
			program.Send(tui.WatchResultMsg{Err: err})
		}
	}()

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cancel()
}
