package tuitest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/creack/pty"
)

const (
	defaultWidth   = 120
	defaultHeight  = 40
	defaultTimeout = 10 * time.Second
)

// Step is one scripted interaction. Delay elapses first, then the step blocks
// until the screen shows WaitFor (when set), then Input is written.
type Step struct {
	Delay   time.Duration
	WaitFor string
	Input   []byte
}

// Press returns a step that writes key immediately.
func Press(key []byte) Step {
	return Step{Input: key}
}

// WaitFor returns a step that blocks until text has been rendered.
func WaitFor(text string) Step {
	return Step{WaitFor: text}
}

// Type returns the steps that type text one rune at a time, each after delay.
// Typing in bursts keeps bubbletea from reading the whole string as a paste.
func Type(text string, delay time.Duration) []Step {
	steps := make([]Step, 0, len(text))
	for _, r := range text {
		steps = append(steps, Step{Delay: delay, Input: []byte(string(r))})
	}
	return steps
}

// Config configures how the harness spawns and drives the claimscout binary.
type Config struct {
	Command []string
	Dir     string
	// Sandbox, when set, isolates config, exports and logs for the run.
	Sandbox *Sandbox
	// Env is applied after the sandbox environment and wins over it.
	Env              []string
	Width            int
	Height           int
	Steps            []Step
	Timeout          time.Duration
	AllowedExitCodes []int
	AllowInterrupt   bool
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = defaultWidth
	}
	if c.Height <= 0 {
		c.Height = defaultHeight
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

func (c Config) environ() []string {
	env := os.Environ()
	if c.Sandbox != nil {
		env = append(env, c.Sandbox.Env()...)
	}
	env = append(env, c.Env...)
	for _, entry := range env {
		if strings.HasPrefix(entry, "TERM=") {
			return env
		}
	}
	return append(env, "TERM=xterm-256color")
}

// Recording contains the raw terminal stream plus parsed frames.
type Recording struct {
	Raw      []byte
	Frames   []Frame
	Duration time.Duration
}

// Run starts the configured command inside a PTY, plays the steps against it
// and captures every byte written to the terminal until the program exits.
func Run(ctx context.Context, cfg Config) (*Recording, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("tuitest: command is required")
	}
	cfg = cfg.withDefaults()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command[0], cfg.Command[1:]...)
	cmd.Dir = cfg.Dir
	cmd.Env = cfg.environ()

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(cfg.Height), Cols: uint16(cfg.Width)})
	if err != nil {
		return nil, fmt.Errorf("tuitest: start program: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	scr := newScreen()
	drained := scr.capture(ptmx)

	start := time.Now()
	if err := play(ctx, ptmx, scr, cfg.Steps); err != nil {
		return nil, err
	}
	if err := cfg.awaitExit(ctx, cmd); err != nil {
		return nil, err
	}

	// Closing the PTY lets the capture goroutine finish draining.
	_ = ptmx.Close()
	<-drained

	raw := scr.Bytes()
	return &Recording{Raw: raw, Frames: parseFrames(raw), Duration: time.Since(start)}, nil
}

func play(ctx context.Context, w io.Writer, scr *screen, steps []Step) error {
	for i, step := range steps {
		if step.Delay > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("tuitest: step %d: context done before script finished: %w", i+1, ctx.Err())
			case <-time.After(step.Delay):
			}
		}
		if step.WaitFor != "" {
			if err := scr.waitFor(ctx, step.WaitFor); err != nil {
				return fmt.Errorf("tuitest: step %d: waiting for %q: %w", i+1, step.WaitFor, err)
			}
		}
		if len(step.Input) > 0 {
			if _, err := w.Write(step.Input); err != nil {
				return fmt.Errorf("tuitest: step %d: write input: %w", i+1, err)
			}
		}
	}
	return nil
}

func (c Config) awaitExit(ctx context.Context, cmd *exec.Cmd) error {
	exited := make(chan error, 1)
	go func() {
		exited <- cmd.Wait()
	}()

	select {
	case err := <-exited:
		if err == nil {
			return nil
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			for _, code := range c.AllowedExitCodes {
				if exitErr.ExitCode() == code {
					return nil
				}
			}
		}
		if c.AllowInterrupt && strings.Contains(err.Error(), "signal: interrupt") {
			return nil
		}
		return fmt.Errorf("tuitest: program exited with error: %w", err)
	case <-ctx.Done():
		return fmt.Errorf("tuitest: timeout waiting for program exit: %w", ctx.Err())
	}
}

var (
	// KeyEnter sends a carriage return to the PTY.
	KeyEnter = []byte{'\r'}
	// KeyCtrlC requests the program to terminate.
	KeyCtrlC = []byte{3}
	// KeyEsc closes the export overlay or clears the composer.
	KeyEsc = []byte{27}
	// KeyCtrlY accepts the pending suggestion.
	KeyCtrlY = []byte{25}
	// KeyCtrlR rejects the pending suggestion.
	KeyCtrlR = []byte{18}
	// KeyCtrlE drops the pending suggestion and prefills the composer.
	KeyCtrlE = []byte{5}
	// KeyCtrlX opens the export overlay.
	KeyCtrlX = []byte{24}
	// KeyCtrlN starts a new session.
	KeyCtrlN = []byte{14}
)
