package tui

import (
	"context"
	"math/rand/v2"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/claimscout/internal/export"
	"github.com/csheth/claimscout/internal/session"
)

type replyReadyMsg struct {
	reply session.Reply
}

type flashExpiredMsg struct {
	element int
}

type exportResultMsg struct {
	format export.Format
	path   string
	err    error
}

type actionID int

const (
	actionSend actionID = iota
	actionAccept
	actionReject
	actionModify
	actionExport
	actionNewSession
	actionScroll
	actionHelp
	actionQuit
)

type command struct {
	action      actionID
	shortcut    string
	description string
}

var workspaceCommands = []command{
	{actionSend, "Enter", "Send"},
	{actionAccept, "Ctrl+Y", "Accept"},
	{actionReject, "Ctrl+R", "Reject"},
	{actionModify, "Ctrl+E", "Modify"},
	{actionExport, "Ctrl+X", "Export"},
	{actionNewSession, "Ctrl+N", "New session"},
	{actionScroll, "Tab/PgUp/PgDn", "Scroll panes"},
	{actionHelp, "?…", "Ask help"},
	{actionQuit, "Ctrl+C", "Quit"},
}

// commandAvailable reports whether an action makes sense in the current state.
func (m *model) commandAvailable(action actionID) bool {
	started := m.session.Started()
	busy := m.session.InFlight()
	pending := m.session.Snapshot().Pending != nil
	switch action {
	case actionSend:
		return started && !busy
	case actionAccept, actionReject, actionModify:
		return started && !busy && pending
	case actionExport:
		return started && !m.exporting
	case actionNewSession, actionScroll:
		return started
	default:
		return true
	}
}

func (m *model) availableCommands() []command {
	var out []command
	for _, c := range workspaceCommands {
		if m.commandAvailable(c.action) {
			out = append(out, c)
		}
	}
	return out
}

// thinkingDelay picks the cosmetic pause before a reply becomes visible.
func (m *model) thinkingDelay() time.Duration {
	lo, hi := m.config.ThinkingMin, m.config.ThinkingMax
	if lo < 0 {
		lo = 0
	}
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo+1)
}

func deliverAfter(delay time.Duration, reply session.Reply) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return replyReadyMsg{reply: reply} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return replyReadyMsg{reply: reply}
	})
}

func expireFlashAfter(ttl time.Duration, element int) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return flashExpiredMsg{element: element}
	})
}

func exportJob(exporter *export.Exporter, dir string, format export.Format, snap export.Snapshot) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		path, err := exporter.WriteFile(ctx, dir, format, snap)
		return exportResultMsg{format: format, path: path, err: err}, err
	}
}
