// Package session drives the user-facing part of a run: reporting missing
// keys, the interactive edit loop, machine-translated auto-fill and saving
// the result.
package session

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"
)

var log = logging.Logger("session")

// ErrInterrupted is returned by a Prompter when the user aborts input.
var ErrInterrupted = xerrors.New("interrupted")

// Prompter reads one line of input after showing label.
// It returns ErrInterrupted on Ctrl-C and io.EOF at end of input.
type Prompter interface {
	Prompt(label string) (string, error)
}

// ReadlinePrompter reads from the terminal through readline.
type ReadlinePrompter struct {
	rl       *readline.Instance
	out      io.Writer
	terminal bool
}

// NewReadlinePrompter reads lines from stdin and echoes prompts to stdout.
// Line editing is only enabled when terminal is set; otherwise the prompt is
// written as plain text before each read. Closing stdin (see
// readline.NewCancelableStdin) ends the session with io.EOF.
func NewReadlinePrompter(stdin io.ReadCloser, stdout io.Writer, terminal bool) (*ReadlinePrompter, error) {
	cfg := &readline.Config{
		Stdin:           stdin,
		Stdout:          stdout,
		InterruptPrompt: "^C",
		FuncIsTerminal:  func() bool { return terminal },
	}
	if !terminal {
		cfg.FuncMakeRaw = func() error { return nil }
		cfg.FuncExitRaw = func() error { return nil }
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, xerrors.Errorf("opening terminal: %w", err)
	}
	return &ReadlinePrompter{rl: rl, out: stdout, terminal: terminal}, nil
}

func (p *ReadlinePrompter) Prompt(label string) (string, error) {
	if p.terminal {
		p.rl.SetPrompt(label)
	} else {
		// readline only draws the prompt on a terminal
		fmt.Fprint(p.out, label)
	}
	line, err := p.rl.Readline()
	switch {
	case err == readline.ErrInterrupt:
		return "", ErrInterrupted
	case err == io.EOF:
		return "", io.EOF
	case err != nil:
		return "", xerrors.Errorf("reading input: %w", err)
	}
	return line, nil
}

func (p *ReadlinePrompter) Close() error {
	return p.rl.Close()
}
