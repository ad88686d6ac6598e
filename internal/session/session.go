// Package session owns one refinement session: the selected case, its live
// claim chart, the transcript and the single pending suggestion. A Session is
// single-owner and not safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/csheth/claimscout/internal/catalog"
	"github.com/csheth/claimscout/internal/chart"
	"github.com/csheth/claimscout/internal/conversation"
	"github.com/csheth/claimscout/internal/export"
	"github.com/csheth/claimscout/internal/flash"
	"github.com/csheth/claimscout/internal/intent"
	"github.com/csheth/claimscout/internal/logging"
	"github.com/csheth/claimscout/internal/proposal"
)

var (
	// ErrUnknownCase is returned when a case id is not in the catalog.
	ErrUnknownCase = errors.New("unknown case")
	// ErrStarted is returned when the case is changed after the chart exists.
	ErrStarted = errors.New("session already started")
	// ErrNoCase is returned by Start before a case is selected.
	ErrNoCase = errors.New("no case selected")
	// ErrNotStarted is returned by operations that need a chart.
	ErrNotStarted = errors.New("session not started")
)

// RefusedMessage answers a suggestion that arrives while another is still
// pending under the reject policy.
const RefusedMessage = "Resolve the pending suggestion first."

// ModifyPrefill seeds the composer after a Modify.
const ModifyPrefill = "Modify — "

// Options configure a Session.
type Options struct {
	Policy   proposal.Policy
	FlashTTL time.Duration
	Logger   *slog.Logger
	Clock    func() time.Time
	// Responder overrides the catalog's canned suggestions.
	Responder proposal.Responder
}

// Session is the explicit context object shared by every front end.
type Session struct {
	catalog *catalog.Catalog
	gen     *proposal.Generator
	logger  *slog.Logger
	now     func() time.Time

	current  *catalog.Case
	chart    *chart.Chart
	log      *conversation.Log
	pending  *proposal.Pending
	flash    *flash.Store
	inFlight bool
	epoch    int
}

// New creates a session over cat with no case selected.
func New(cat *catalog.Catalog, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	var table proposal.Responder = cat
	if opts.Responder != nil {
		table = opts.Responder
	}
	return &Session{
		catalog: cat,
		gen:     proposal.NewGenerator(table),
		logger:  logging.Component(logger, "session"),
		now:     now,
		log:     conversation.NewLog(now),
		pending: proposal.NewPending(opts.Policy),
		flash:   flash.New(opts.FlashTTL, now),
	}
}

// Cases lists the selectable cases.
func (s *Session) Cases() []*catalog.Case {
	return s.catalog.Cases()
}

// Case returns the selected case.
func (s *Session) Case() (*catalog.Case, bool) {
	return s.current, s.current != nil
}

// Started reports whether the chart has been instantiated.
func (s *Session) Started() bool {
	return s.chart != nil
}

// InFlight reports whether a reply is awaiting delivery.
func (s *Session) InFlight() bool {
	return s.inFlight
}

// FlashTTL is how long a changed element stays flagged in the view.
func (s *Session) FlashTTL() time.Duration {
	return s.flash.TTL()
}

// Policy returns the pending-proposal policy.
func (s *Session) Policy() proposal.Policy {
	return s.pending.Policy()
}

// SelectCase chooses the case to work on. It is only valid before Start.
func (s *Session) SelectCase(id string) error {
	if s.chart != nil {
		return ErrStarted
	}
	c, ok := s.catalog.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q (known: %s)", ErrUnknownCase, id, strings.Join(s.catalog.IDs(), ", "))
	}
	s.current = c
	s.logger.Debug("case selected", slog.String("case", id))
	return nil
}

// Start instantiates the chart from the selected case and posts the opening
// messages.
func (s *Session) Start() error {
	if s.chart != nil {
		return ErrStarted
	}
	if s.current == nil {
		return ErrNoCase
	}
	s.chart = s.current.SeedChart()
	s.log.Append(conversation.RoleSystem, s.current.InitMessage, nil)
	s.log.Append(conversation.RoleAssistant, s.current.AnalysisMessage, nil)
	s.logger.Info("session started", slog.String("case", s.current.ID), slog.Int("elements", s.chart.Len()))
	return nil
}

// Reply is a computed but not yet visible assistant answer.
type Reply struct {
	Outcome proposal.Outcome
	epoch   int
}

// Submit records a user message and computes the answer without revealing
// it. Blank text, an unstarted session or a reply already in flight are
// refused without touching the transcript.
func (s *Session) Submit(text string) (Reply, bool) {
	text = strings.TrimSpace(text)
	if text == "" || s.chart == nil || s.inFlight {
		return Reply{}, false
	}
	s.log.Append(conversation.RoleUser, text, nil)
	in := intent.Classify(text)
	out := s.gen.Generate(in, s.current, s.chart)
	s.inFlight = true
	s.logger.Debug("message classified",
		slog.String("intent", string(in)),
		slog.Bool("proposal", out.Proposal != nil),
	)
	return Reply{Outcome: out, epoch: s.epoch}, true
}

// Deliver makes a reply visible: the assistant message is appended and any
// proposal installed. Replies from before a Reset are dropped.
func (s *Session) Deliver(r Reply) bool {
	if r.epoch != s.epoch || !s.inFlight {
		s.logger.Debug("stale reply dropped", slog.String("intent", string(r.Outcome.Intent)))
		return false
	}
	s.inFlight = false
	out := r.Outcome
	if out.Proposal == nil {
		s.log.Append(conversation.RoleAssistant, out.Message, out.Meta)
		return true
	}
	res := s.pending.Offer(*out.Proposal)
	attrs := []any{
		slog.String("kind", string(out.Proposal.Kind)),
		slog.Int("element", out.Proposal.ElementID),
		slog.String("result", res.String()),
	}
	if !res.Accepted() {
		s.logger.Info("proposal refused", attrs...)
		s.log.Append(conversation.RoleAssistant, RefusedMessage, nil)
		return true
	}
	if res == proposal.Replaced {
		s.logger.Warn("pending proposal overwritten", attrs...)
	} else {
		s.logger.Info("proposal installed", attrs...)
	}
	s.log.Append(conversation.RoleAssistant, out.Message, out.Meta)
	return true
}

// Send submits and immediately delivers, for callers without a delay.
func (s *Session) Send(text string) bool {
	r, ok := s.Submit(text)
	if !ok {
		return false
	}
	return s.Deliver(r)
}

// RequestExport returns the exporter view of the current chart.
func (s *Session) RequestExport() (export.Snapshot, error) {
	if s.chart == nil {
		return export.Snapshot{}, ErrNotStarted
	}
	return export.Snapshot{
		CaseID:         s.current.ID,
		PatentID:       s.current.Patent,
		Defendant:      s.current.Defendant,
		DefendantTitle: s.current.Title,
		Rows:           s.chart.ExportRows(),
		GeneratedAt:    s.now(),
	}, nil
}

// Reset returns to case selection. Replies still in flight become stale.
func (s *Session) Reset() {
	dropped := s.pending.Has()
	s.current = nil
	s.chart = nil
	s.log = conversation.NewLog(s.now)
	s.pending.Clear()
	s.flash.Clear()
	s.inFlight = false
	s.epoch++
	s.logger.Info("session reset", slog.Int("epoch", s.epoch), slog.Bool("dropped_proposal", dropped))
}
