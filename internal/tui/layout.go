package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/claimscout/internal/chart"
	"github.com/csheth/claimscout/internal/conversation"
	"github.com/csheth/claimscout/internal/session"
)

type pageLayout struct {
	windowWidth      int
	windowHeight     int
	viewportWidth    int
	chartHeight      int
	transcriptHeight int
	composerHeight   int
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:    80,
		chartHeight:      14,
		transcriptHeight: 10,
		composerHeight:   1,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	l.composerHeight = 1
	const chrome = 12
	usable := height - chrome - l.composerHeight
	if usable < 12 {
		usable = 12
	}
	l.transcriptHeight = usable * 2 / 5
	if l.transcriptHeight < 6 {
		l.transcriptHeight = 6
	}
	l.chartHeight = usable - l.transcriptHeight
	if l.chartHeight < 6 {
		l.chartHeight = 6
	}
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

// chartView is the rendered chart plus the first line of each element so the
// viewport can follow the highlighted row.
type chartView struct {
	content  string
	rowLines map[int]int
}

func (m *model) buildChartContent(v session.View) chartView {
	cb := &contentBuilder{}
	rowLines := map[int]int{}
	wrap := m.wrapWidth(6)
	if len(v.Chart) == 0 {
		cb.WriteString(helperStyle.Render("Pick a case to load its claim chart."))
		return chartView{content: cb.String(), rowLines: rowLines}
	}
	for idx, el := range v.Chart {
		if idx > 0 {
			cb.WriteRune('\n')
		}
		rowLines[el.ID] = cb.Line()
		header := fmt.Sprintf("Element %d", el.ID)
		meta := []string{
			confidenceBadge(el.Confidence),
			sourceStyle.Render(el.SourceType.Label()),
			versionStyle.Render(fmt.Sprintf("v%d", el.Version)),
		}
		if n := len(el.History); n > 0 {
			meta = append(meta, helperStyle.Render(fmt.Sprintf("%d change(s)", n)))
		}
		switch {
		case el.ID == v.Highlight:
			header = highlightRowStyle.Render("▸ " + header)
			meta = append(meta, highlightRowStyle.Render("suggestion pending"))
		case el.ID == v.JustUpdated:
			header = flashRowStyle.Render("✨ " + header)
			meta = append(meta, flashRowStyle.Render("updated"))
		default:
			header = rowTitleStyle.Render(header)
		}
		cb.WriteString(header + "  " + strings.Join(meta, "  "))
		cb.WriteRune('\n')
		cb.WriteString(indentMultiline(wordwrap.String(el.ClaimElement, wrap), "  "))
		cb.WriteRune('\n')
		cb.WriteString(indentMultiline(wordwrap.String(fieldLabelStyle.Render("Evidence: ")+el.Evidence, wrap), "  "))
		cb.WriteRune('\n')
		cb.WriteString(indentMultiline(wordwrap.String(fieldLabelStyle.Render("Reasoning: ")+el.Reasoning, wrap), "  "))
		cb.WriteRune('\n')
	}
	return chartView{content: cb.String(), rowLines: rowLines}
}

func (m *model) buildTranscriptContent(v session.View) string {
	cb := &contentBuilder{}
	if len(v.Messages) == 0 {
		cb.WriteString(helperStyle.Render("The conversation appears here once a case is loaded."))
		return cb.String()
	}
	wrap := m.wrapWidth(4)
	for idx, msg := range v.Messages {
		cb.WriteString(transcriptLabel(msg.Role))
		cb.WriteRune('\n')
		body := conversation.Render(msg.Content, renderBold)
		cb.WriteString(indentMultiline(wordwrap.String(body, wrap), "  "))
		if msg.Meta != nil && msg.Meta.Quality != nil {
			cb.WriteRune('\n')
			cb.WriteString(indentMultiline(qualityLine(*msg.Meta.Quality), "  "))
		}
		if idx < len(v.Messages)-1 {
			cb.WriteRune('\n')
			cb.WriteRune('\n')
		}
	}
	if v.InFlight {
		cb.WriteRune('\n')
		cb.WriteRune('\n')
		cb.WriteString(helperStyle.Render(m.spinner.View() + " Analyzing…"))
	}
	return cb.String()
}

func qualityLine(q chart.Quality) string {
	return qualityStyle.Render(fmt.Sprintf("📊 Source %d/10 · 🎯 Mapping %d/10 · ⚖️ Legal %d/10",
		q.SourceStrength, q.ClaimMapping, q.LegalPrecision))
}

func confidenceBadge(c chart.Confidence) string {
	label := strings.ToUpper(c.Label())
	switch c {
	case chart.Strong:
		return strongBadgeStyle.Render(label)
	case chart.Weak:
		return weakBadgeStyle.Render(label)
	default:
		return moderateBadgeStyle.Render(label)
	}
}

func transcriptLabel(role conversation.Role) string {
	switch role {
	case conversation.RoleUser:
		return userLabelStyle.Render("You")
	case conversation.RoleAssistant:
		return assistantLabelStyle.Render("Assistant")
	case conversation.RoleSystem:
		return helperStyle.Render("System")
	default:
		return helperStyle.Render(string(role))
	}
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.layout.viewportWidth
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func previewText(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

// renderBold adapts the variadic lipgloss renderer to conversation.Render.
func renderBold(s string) string {
	return boldStyle.Render(s)
}
