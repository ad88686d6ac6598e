package session

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/csheth/claimscout/internal/conversation"
	"github.com/csheth/claimscout/internal/proposal"
)

// Action is the analyst's verdict on a pending proposal.
type Action string

const (
	Accept Action = "accept"
	Reject Action = "reject"
	Modify Action = "modify"
)

// ParseAction validates an action name.
func ParseAction(value string) (Action, error) {
	switch a := Action(strings.ToLower(strings.TrimSpace(value))); a {
	case Accept, Reject, Modify:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q (want accept, reject or modify)", value)
}

// Resolution describes what Resolve did. Resolved is true when a proposal was
// consumed; Applied only when the chart changed.
type Resolution struct {
	Applied   bool          `json:"applied"`
	Resolved  bool          `json:"resolved"`
	Action    Action        `json:"action"`
	Kind      proposal.Kind `json:"kind,omitempty"`
	ElementID int           `json:"elementId,omitempty"`
	Prefill   string        `json:"prefill,omitempty"`
}

// Resolve applies action to the pending proposal. With nothing pending, or
// while a reply is in flight, it does nothing.
func (s *Session) Resolve(action Action) Resolution {
	res := Resolution{Action: action}
	if s.chart == nil || s.inFlight {
		return res
	}
	switch action {
	case Accept, Reject, Modify:
	default:
		return res
	}
	prop, ok := s.pending.Take()
	if !ok {
		return res
	}
	res.Resolved = true
	res.Kind = prop.Kind
	if id, ok := prop.Target(); ok {
		res.ElementID = id
	}

	switch action {
	case Accept:
		s.accept(prop, &res)
	case Reject:
		s.log.Append(conversation.RoleUser, "❌ Rejected", nil)
		s.log.Append(conversation.RoleAssistant, "Keeping current version.", nil)
	case Modify:
		res.Prefill = ModifyPrefill
	}
	s.logger.Info("proposal resolved",
		slog.String("action", string(action)),
		slog.String("kind", string(prop.Kind)),
		slog.Int("element", res.ElementID),
		slog.Bool("applied", res.Applied),
	)
	return res
}

func (s *Session) accept(prop proposal.Proposal, res *Resolution) {
	switch prop.Kind {
	case proposal.KindNewElement:
		el := s.chart.ApplyNewElement(prop.Fields)
		res.ElementID = el.ID
		res.Applied = true
		s.flash.Mark(el.ID)
		s.log.Append(conversation.RoleUser, "✅ Added", nil)
		s.log.Append(conversation.RoleAssistant, "Element added. Chart updated in real-time.", nil)
	case proposal.KindUndo:
		s.log.Append(conversation.RoleUser, "↩️ Reverted", nil)
		if !s.chart.ApplyUndo(prop.ElementID) {
			s.log.Append(conversation.RoleAssistant, fmt.Sprintf("Element %d has nothing left to revert.", prop.ElementID), nil)
			return
		}
		res.Applied = true
		s.flash.Mark(prop.ElementID)
		s.log.Append(conversation.RoleAssistant, fmt.Sprintf("Element %d reverted. Chart updated.", prop.ElementID), nil)
	default:
		s.log.Append(conversation.RoleUser, "✅ Accepted", nil)
		if !s.chart.ApplyUpdate(prop.ElementID, prop.Fields) {
			s.log.Append(conversation.RoleAssistant, fmt.Sprintf("Element %d no longer exists. Chart unchanged.", prop.ElementID), nil)
			return
		}
		res.Applied = true
		s.flash.Mark(prop.ElementID)
		s.log.Append(conversation.RoleAssistant,
			fmt.Sprintf("Element %d updated — evidence, reasoning, and confidence columns refreshed in the chart.", prop.ElementID), nil)
	}
}
