// Package replay drives a session from a YAML script so a refinement flow can
// be reproduced without a terminal.
package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/csheth/claimscout/internal/conversation"
	"github.com/csheth/claimscout/internal/export"
	"github.com/csheth/claimscout/internal/session"
)

// Step is one scripted action. Exactly one field is set.
type Step struct {
	Say     string `yaml:"say,omitempty"`
	Resolve string `yaml:"resolve,omitempty"`
	Export  string `yaml:"export,omitempty"`
}

// Script is a case id plus the steps to replay against it.
type Script struct {
	Case  string `yaml:"case"`
	Steps []Step `yaml:"steps"`
}

// Load parses and validates a script.
func Load(r io.Reader) (Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Script{}, fmt.Errorf("decode script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

// Validate checks the case id and that every step names one action.
func (s Script) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Case) == "" {
		errs = append(errs, errors.New("script: case is required"))
	}
	for i, st := range s.Steps {
		set := 0
		for _, v := range []string{st.Say, st.Resolve, st.Export} {
			if strings.TrimSpace(v) != "" {
				set++
			}
		}
		if set != 1 {
			errs = append(errs, fmt.Errorf("script: step %d must set exactly one of say, resolve, export", i+1))
			continue
		}
		if st.Resolve != "" {
			if _, err := session.ParseAction(st.Resolve); err != nil {
				errs = append(errs, fmt.Errorf("script: step %d: %w", i+1, err))
			}
		}
		if st.Export != "" {
			if _, err := export.ParseFormat(st.Export); err != nil {
				errs = append(errs, fmt.Errorf("script: step %d: %w", i+1, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Runner replays scripts against a session.
type Runner struct {
	Session   *session.Session
	Exporter  *export.Exporter
	ExportDir string
	// Out receives the transcript as it grows. Nil discards it.
	Out io.Writer
}

// Result summarises a finished replay.
type Result struct {
	Exports []string
	View    session.View
}

// Run opens the script's case and performs every step in order.
func (r *Runner) Run(ctx context.Context, s Script) (Result, error) {
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	if err := r.Session.SelectCase(s.Case); err != nil {
		return Result{}, err
	}
	if err := r.Session.Start(); err != nil {
		return Result{}, err
	}
	printed := 0
	flush := func() {
		msgs := r.Session.Snapshot().Messages
		for _, m := range msgs[printed:] {
			fmt.Fprintf(out, "[%s] %s\n", m.Role, conversation.Plain(m.Content))
		}
		printed = len(msgs)
	}
	flush()

	var res Result
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		switch {
		case st.Say != "":
			r.Session.Send(st.Say)
		case st.Resolve != "":
			action, err := session.ParseAction(st.Resolve)
			if err != nil {
				return res, fmt.Errorf("step %d: %w", i+1, err)
			}
			if !r.Session.Resolve(action).Resolved {
				fmt.Fprintf(out, "[replay] step %d: nothing to %s\n", i+1, action)
			}
		case st.Export != "":
			path, err := r.export(ctx, st.Export)
			if err != nil {
				return res, fmt.Errorf("step %d: %w", i+1, err)
			}
			res.Exports = append(res.Exports, path)
			fmt.Fprintf(out, "[replay] wrote %s\n", path)
		}
		flush()
	}
	res.View = r.Session.Snapshot()
	return res, nil
}

func (r *Runner) export(ctx context.Context, name string) (string, error) {
	format, err := export.ParseFormat(name)
	if err != nil {
		return "", err
	}
	snap, err := r.Session.RequestExport()
	if err != nil {
		return "", err
	}
	exporter := r.Exporter
	if exporter == nil {
		exporter = export.New("")
	}
	return exporter.WriteFile(ctx, r.ExportDir, format, snap)
}
