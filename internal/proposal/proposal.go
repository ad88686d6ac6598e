// Package proposal turns classified intents into chart mutations awaiting
// review and holds the single outstanding one.
package proposal

import (
	"fmt"
	"strings"

	"github.com/csheth/claimscout/internal/chart"
)

// Kind discriminates the proposal variants.
type Kind string

const (
	KindUpdate     Kind = "update"
	KindNewElement Kind = "new_element"
	KindUndo       Kind = "undo"
)

// Proposal is a chart mutation the analyst has not yet accepted. ElementID is
// unused by new-element proposals; Fields is unused by undo proposals.
type Proposal struct {
	Kind      Kind          `json:"kind"`
	ElementID int           `json:"elementId,omitempty"`
	Fields    chart.Fields  `json:"fields"`
	Quality   chart.Quality `json:"quality"`
}

// Update proposes replacing the columns of element id.
func Update(id int, f chart.Fields, q chart.Quality) Proposal {
	return Proposal{Kind: KindUpdate, ElementID: id, Fields: f, Quality: q}
}

// NewElement proposes appending a claim element.
func NewElement(f chart.Fields, q chart.Quality) Proposal {
	return Proposal{Kind: KindNewElement, Fields: f, Quality: q}
}

// Revert proposes undoing the latest accepted update of element id.
func Revert(id int) Proposal {
	return Proposal{Kind: KindUndo, ElementID: id}
}

// Target returns the element the proposal points at, if any.
func (p Proposal) Target() (int, bool) {
	if p.Kind == KindNewElement {
		return 0, false
	}
	return p.ElementID, true
}

// Policy decides what happens when a proposal is offered while another is
// still outstanding.
type Policy string

const (
	// PolicyOverwrite silently replaces the outstanding proposal.
	PolicyOverwrite Policy = "overwrite"
	// PolicyReject refuses new proposals until the outstanding one is resolved.
	PolicyReject Policy = "reject"
)

// ParsePolicy validates a configured policy name. Empty means overwrite.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case "", PolicyOverwrite:
		return PolicyOverwrite, nil
	case PolicyReject:
		return PolicyReject, nil
	}
	return "", fmt.Errorf("unknown pending policy %q (want overwrite or reject)", value)
}
