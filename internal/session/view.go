package session

import (
	"github.com/csheth/claimscout/internal/chart"
	"github.com/csheth/claimscout/internal/conversation"
	"github.com/csheth/claimscout/internal/proposal"
)

// View is a read-only copy of everything a front end renders.
type View struct {
	CaseID      string                 `json:"caseId,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Started     bool                   `json:"started"`
	Messages    []conversation.Message `json:"messages"`
	Chart       []chart.Element        `json:"chart"`
	Pending     *proposal.Proposal     `json:"pending,omitempty"`
	Highlight   int                    `json:"highlight,omitempty"`
	JustUpdated int                    `json:"justUpdated,omitempty"`
	InFlight    bool                   `json:"inFlight"`
	Refinements int                    `json:"refinements"`
	Strong      int                    `json:"strong"`
	Weak        int                    `json:"weak"`
}

// Snapshot copies the current state. Mutating the result never affects the
// session.
func (s *Session) Snapshot() View {
	v := View{
		Started:   s.chart != nil,
		Messages:  s.log.Messages(),
		Highlight: s.pending.Highlight(),
		InFlight:  s.inFlight,
	}
	if s.current != nil {
		v.CaseID = s.current.ID
		v.Title = s.current.Title
	}
	if p, ok := s.pending.Current(); ok {
		v.Pending = &p
	}
	if id, ok := s.flash.Current(); ok {
		v.JustUpdated = id
	}
	if s.chart != nil {
		v.Chart = s.chart.Elements()
		v.Refinements = s.chart.Refinements()
		v.Strong = s.chart.CountByConfidence(chart.Strong)
		v.Weak = s.chart.CountByConfidence(chart.Weak)
	}
	return v
}

// WeakIDs lists the ids of weak rows in chart order.
func (v View) WeakIDs() []int {
	var ids []int
	for _, el := range v.Chart {
		if el.Confidence == chart.Weak {
			ids = append(ids, el.ID)
		}
	}
	return ids
}
