// Package debugger implements an interactive REPL for stepping a decoded
// BSIF state machine: send events one at a time, inspect history and
// actions, and check a recorded trace against an LTL property, without
// leaving the terminal.
package debugger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ormasoftchile/bsif/pkg/bsif/exec"
	"github.com/ormasoftchile/bsif/pkg/bsif/ltl"
	"github.com/ormasoftchile/bsif/pkg/bsif/schema"
)

// Debugger drives one exec.Instance through a readline REPL.
type Debugger struct {
	sm     schema.StateMachine
	inst   *exec.Instance
	output io.Writer
	rl     *readline.Instance
	trace  []ltl.Snapshot
}

// New creates a debugger for sm, starting its instance at the declared
// initial state.
func New(sm schema.StateMachine) *Debugger {
	return &Debugger{sm: sm, inst: exec.New(sm), output: os.Stdout}
}

// Run starts the interactive REPL loop and blocks until the user quits
// or input is exhausted.
func (d *Debugger) Run() error {
	commands := []string{"send", "can", "history", "actions", "final", "snapshot", "trace", "check", "help", "quit"}
	completer := readline.NewPrefixCompleter()
	for _, cmd := range commands {
		completer.Children = append(completer.Children, readline.PcItem(cmd))
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          d.buildPrompt(),
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	d.rl = rl
	defer rl.Close()

	fmt.Fprintf(d.output, "bsif debugger — %d states, initial=%s\n", len(d.sm.States), d.sm.Initial)
	fmt.Fprintf(d.output, "Type 'help' for available commands, 'send <event>' to step.\n\n")

	for {
		rl.SetPrompt(d.buildPrompt())
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		cmd := parts[0]

		switch cmd {
		case "send", "s":
			d.handleSend(parts)
		case "can":
			d.handleCan(parts)
		case "history", "h":
			fmt.Fprintln(d.output, strings.Join(d.inst.History(), " -> "))
		case "actions", "a":
			fmt.Fprintln(d.output, strings.Join(d.inst.Actions(), ", "))
		case "final", "f":
			fmt.Fprintln(d.output, d.inst.IsInFinalState())
		case "snapshot":
			d.handleSnapshot(parts)
		case "trace":
			fmt.Fprintf(d.output, "%d recorded snapshot(s)\n", len(d.trace))
		case "check":
			d.handleCheck(parts)
		case "help", "?":
			d.handleHelp()
		case "quit", "q":
			fmt.Fprintln(d.output, "Exiting debugger.")
			return nil
		default:
			fmt.Fprintf(d.output, "Unknown command: %q. Type 'help' for available commands.\n", cmd)
		}
	}
}

func (d *Debugger) handleSend(parts []string) {
	if len(parts) < 2 {
		fmt.Fprintln(d.output, "usage: send <event>")
		return
	}
	next, err := d.inst.Send(parts[1])
	if err != nil {
		fmt.Fprintf(d.output, "Error: %v\n", err)
		return
	}
	d.inst = next
	fmt.Fprintf(d.output, "-> %s (actions: %s)\n", d.inst.CurrentState(), strings.Join(d.inst.Actions(), ", "))
}

func (d *Debugger) handleCan(parts []string) {
	if len(parts) < 2 {
		fmt.Fprintln(d.output, "usage: can <event>")
		return
	}
	fmt.Fprintln(d.output, d.inst.CanSend(parts[1]))
}

// handleSnapshot records a variable snapshot onto the trace so an LTL
// property can later be checked against it with "check". Each var=value
// pair is stored as a boolean: value "true" is true, anything else false.
func (d *Debugger) handleSnapshot(parts []string) {
	snap := ltl.Snapshot{"state": d.inst.CurrentState()}
	for _, kv := range parts[1:] {
		pieces := strings.SplitN(kv, "=", 2)
		if len(pieces) != 2 {
			continue
		}
		snap[pieces[0]] = pieces[1] == "true"
	}
	d.trace = append(d.trace, snap)
	fmt.Fprintf(d.output, "recorded snapshot %d\n", len(d.trace)-1)
}

// handleCheck reports whether a named variable holds at every recorded
// snapshot, a bare "globally(variable v)" check. Arbitrary formulas stay
// with the programmatic ltl API; the line-oriented REPL only needs the
// common case.
func (d *Debugger) handleCheck(parts []string) {
	if len(parts) < 2 {
		fmt.Fprintln(d.output, "usage: check <variable>")
		return
	}
	if len(d.trace) == 0 {
		fmt.Fprintln(d.output, "no snapshots recorded; use 'snapshot' first")
		return
	}
	f := ltl.Globally(ltl.Variable(parts[1]))
	res := ltl.Check(f, d.trace)
	if res.Holds {
		fmt.Fprintln(d.output, "holds: true")
		return
	}
	fmt.Fprintf(d.output, "holds: false (witness step %d)\n", *res.Witness)
}

func (d *Debugger) handleHelp() {
	fmt.Fprintln(d.output, `commands:
  send <event>         step the machine on event
  can <event>          report whether event would fire
  history              print visited states
  actions              print the last step's actions
  final                report whether the current state is final
  snapshot k=v ...     record a variable snapshot for later trace checks
  check <variable>     check "globally <variable>" over the recorded trace
  quit                 exit the debugger`)
}

// buildPrompt renders bsif[<state>]>.
func (d *Debugger) buildPrompt() string {
	return fmt.Sprintf("bsif[%s]> ", d.inst.CurrentState())
}
