// Package help answers how-to questions about claimscout from a fixed
// keyword table. It never touches session state.
package help

import (
	"fmt"
	"strings"
)

// Greeting opens a help conversation.
const Greeting = "Hi! I'm the claimscout help assistant. Ask me anything about refining a claim chart."

// Fallback answers queries that match no topic.
const Fallback = "I'm here to help! Ask about:\n\n" +
	"• **Refining claims**\n" +
	"• **Accept/Reject workflow**\n" +
	"• **Exporting** — Word, print, PDF, CSV\n" +
	"• **Undo and versions**\n" +
	"• **Quality scores & source tags**\n" +
	"• **Keyboard shortcuts**\n\n" +
	"What would you like to know?"

// Topic is one entry of the keyword table. The first topic with a matching
// key wins.
type Topic struct {
	Keys     []string
	Response string
}

var topics = []Topic{
	{
		Keys:     []string{"format", "excel", "csv", "word", "pdf"},
		Response: "claimscout exports **Word (.doc)** for legal review, a **print layout (.html)** in A4 landscape, **PDF** rendered through Chrome, and **CSV** for spreadsheets.",
	},
	{
		Keys:     []string{"strengthen", "improve", "better", "weak"},
		Response: "Type a message like **'Strengthen evidence for element 3'**. The assistant proposes stronger sources with a quality score and highlights the element it wants to change.",
	},
	{
		Keys:     []string{"accept", "reject", "modify", "review"},
		Response: "When the assistant suggests a change:\n\n✅ **Accept** (Ctrl+Y) — applies it\n❌ **Reject** (Ctrl+R) — keeps the current version\n✏️ **Modify** (Ctrl+E) — drops it and lets you rephrase",
	},
	{
		Keys:     []string{"export", "download", "save"},
		Response: "Press **Ctrl+X** or type **'Export'**. Pick **w** for Word, **p** for print, **c** for CSV or **f** for PDF. Files land in the configured export directory.",
	},
	{
		Keys:     []string{"undo", "revert", "history", "version"},
		Response: "Type **'Undo'**. The assistant shows which element it would revert and to which version, and waits for you to accept. Undo counts as a new version, so versions only go up.",
	},
	{
		Keys:     []string{"quality", "score", "metric"},
		Response: "Quality scores measure:\n\n📊 **Source Strength** — how authoritative\n🎯 **Claim Mapping** — how directly evidence fits\n⚖️ **Legal Precision** — claim construction defense",
	},
	{
		Keys:     []string{"source", "tag", "color"},
		Response: "Source tags show evidence origin:\n\n🌐 Product Page · 📋 Tech Spec · 📢 Marketing · 🏛️ FCC/Regulatory · 🔧 Teardown",
	},
	{
		Keys:     []string{"key", "shortcut", "quit", "new session"},
		Response: "**Enter** sends, **Ctrl+Y/R/E** resolve a suggestion, **Ctrl+X** exports, **Ctrl+N** starts over and **Ctrl+C** quits. Start a line with **?** to ask me instead of the assistant.",
	},
}

// Topics returns a copy of the keyword table.
func Topics() []Topic {
	out := make([]Topic, len(topics))
	for i, t := range topics {
		out[i] = Topic{Keys: append([]string(nil), t.Keys...), Response: t.Response}
	}
	return out
}

// Respond returns the answer for query, ignoring case.
func Respond(query string) string {
	lower := strings.ToLower(query)
	for _, t := range topics {
		for _, k := range t.Keys {
			if strings.Contains(lower, k) {
				return t.Response
			}
		}
	}
	return Fallback
}

// Step represents one actionable recommendation in the refinement workflow.
type Step struct {
	Title       string
	Description string
}

// Walkthrough returns a short refinement checklist tailored to one case.
func Walkthrough(caseTitle string, weak []int) []Step {
	displayTitle := strings.TrimSpace(caseTitle)
	if displayTitle == "" {
		displayTitle = "the chart"
	}
	focus := "the weakest element"
	if len(weak) > 0 {
		ids := make([]string, len(weak))
		for i, id := range weak {
			ids[i] = fmt.Sprint(id)
		}
		focus = "element " + strings.Join(ids, ", ")
	}

	return []Step{
		{
			Title:       "Read the analysis",
			Description: fmt.Sprintf("Skim the assistant's opening analysis of %s and note which rows are graded weak or moderate.", displayTitle),
		},
		{
			Title:       "Strengthen the gaps",
			Description: fmt.Sprintf("Ask the assistant to strengthen %s first. Check the quality scores before accepting.", focus),
		},
		{
			Title:       "Tighten the legal story",
			Description: "Request reasoning fixes and legal clarifications so each mapping survives claim construction arguments.",
		},
		{
			Title:       "Look for missing elements",
			Description: "Ask for missing elements and review any new row as carefully as an edit.",
		},
		{
			Title:       "Export for review",
			Description: "Export to Word for counsel, or print/PDF for a read-only copy. Undo anything you regret before exporting.",
		},
	}
}

// RenderSteps formats a walkthrough as a numbered list with bold titles.
func RenderSteps(steps []Step) string {
	var b strings.Builder
	for i, s := range steps {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. **%s**: %s", i+1, s.Title, s.Description)
	}
	return b.String()
}
