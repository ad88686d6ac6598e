package proposal

import (
	"fmt"

	"github.com/csheth/claimscout/internal/catalog"
	"github.com/csheth/claimscout/internal/chart"
	"github.com/csheth/claimscout/internal/conversation"
	"github.com/csheth/claimscout/internal/intent"
)

// NothingToUndo is the reply to an undo request on an unedited chart.
const NothingToUndo = "No changes to undo yet."

// Responder resolves the canned response of a case for an intent.
type Responder interface {
	Response(caseID string, in intent.Intent) (catalog.Template, bool)
}

// Outcome is everything the generator decided for one message. Proposal is
// nil when nothing should be installed.
type Outcome struct {
	Intent       intent.Intent
	Message      string
	Meta         *conversation.Meta
	Proposal     *Proposal
	OpenExporter bool
}

// Generator builds outcomes from a response table.
type Generator struct {
	table Responder
}

// NewGenerator returns a generator backed by table.
func NewGenerator(table Responder) *Generator {
	return &Generator{table: table}
}

// Generate computes the outcome of in for case c against the current chart.
// It never mutates ch.
func (g *Generator) Generate(in intent.Intent, c *catalog.Case, ch *chart.Chart) Outcome {
	switch in {
	case intent.Strengthen, intent.FixReasoning, intent.ClarifyLegal:
		tmpl, ok := g.table.Response(c.ID, in)
		if !ok {
			break
		}
		q := tmpl.Quality
		prop := Update(tmpl.ElementID, tmpl.Fields, q)
		return Outcome{
			Intent:   in,
			Message:  tmpl.Render(),
			Meta:     &conversation.Meta{Type: conversation.MetaSuggestion, ElementID: tmpl.ElementID, Quality: &q},
			Proposal: &prop,
		}
	case intent.AddMissing:
		tmpl, ok := g.table.Response(c.ID, in)
		if !ok {
			break
		}
		q := tmpl.Quality
		prop := NewElement(tmpl.Fields, q)
		return Outcome{
			Intent:   in,
			Message:  tmpl.Render(),
			Meta:     &conversation.Meta{Type: conversation.MetaNewElement, Quality: &q},
			Proposal: &prop,
		}
	case intent.Undo:
		el, ok := ch.FirstWithHistory()
		if !ok {
			return Outcome{Intent: in, Message: NothingToUndo}
		}
		prop := Revert(el.ID)
		return Outcome{
			Intent:   in,
			Message:  fmt.Sprintf("Revert **Element %d** to v%d?", el.ID, el.Version-1),
			Meta:     &conversation.Meta{Type: conversation.MetaUndo, ElementID: el.ID},
			Proposal: &prop,
		}
	case intent.Export:
		return Outcome{
			Intent:       in,
			Message:      fmt.Sprintf("Ready: **%d elements** · %d strong", ch.Len(), ch.CountByConfidence(chart.Strong)),
			OpenExporter: true,
		}
	}
	return Outcome{Intent: in, Message: g.helpText(c)}
}

// helpText lists example commands using the case's own target elements.
func (g *Generator) helpText(c *catalog.Case) string {
	target := func(in intent.Intent) string {
		if tmpl, ok := g.table.Response(c.ID, in); ok {
			return fmt.Sprint(tmpl.ElementID)
		}
		return "N"
	}
	return "Try:\n\n" +
		"● \"Strengthen evidence for element " + target(intent.Strengthen) + "\"\n" +
		"● \"Fix reasoning for element " + target(intent.FixReasoning) + "\"\n" +
		"● \"Add missing element\"\n" +
		"● \"Clarify legal for element " + target(intent.ClarifyLegal) + "\"\n" +
		"● \"Undo\" · \"Export\""
}
