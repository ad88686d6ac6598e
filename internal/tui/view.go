package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/claimscout/internal/conversation"
	"github.com/csheth/claimscout/internal/export"
	"github.com/csheth/claimscout/internal/proposal"
	"github.com/csheth/claimscout/internal/session"
)

func (m *model) View() string {
	switch m.stage {
	case stagePicker:
		return m.viewPicker()
	case stageWorkspace:
		return m.viewWorkspace()
	case stageExport:
		return m.viewExport()
	default:
		return ""
	}
}

func (m *model) viewPicker() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Choose a Case"))
	b.WriteRune('\n')
	cases := m.session.Cases()
	if len(cases) == 0 {
		b.WriteString(helperStyle.Render("No cases are available."))
	}
	for idx, c := range cases {
		label := "  " + c.Title
		if idx == m.pickerCursor {
			label = currentLineStyle.Render("▸ " + c.Title)
		}
		b.WriteString(label)
		b.WriteRune('\n')
		detail := fmt.Sprintf("   %s vs. %s · %d elements", c.Patent, c.Defendant, len(c.Chart))
		if len(c.Documents) > 0 {
			detail += " · " + strings.Join(c.Documents, ", ")
		}
		b.WriteString(helperStyle.Render(wordwrap.String(detail, m.wrapWidth(0))))
		b.WriteRune('\n')
	}
	return joinNonEmpty([]string{
		m.heroView(),
		b.String(),
		m.statusView(),
		m.keyLegendView([]keyHint{{"↑/↓", "Move"}, {"Enter", "Open case"}, {"q", "Quit"}}),
	})
}

func (m *model) viewWorkspace() string {
	m.refreshViewportIfDirty()
	v := m.session.Snapshot()
	return joinNonEmpty([]string{
		m.heroView(),
		m.sessionMeterView(v),
		m.chartPanel(),
		m.pendingPanel(v.Pending),
		m.transcriptPanel(),
		m.helpPanel(),
		m.composerPanel(),
		m.statusView(),
		m.keyLegendView(m.commandHints()),
	})
}

func (m *model) viewExport() string {
	m.refreshViewportIfDirty()
	v := m.session.Snapshot()
	return joinNonEmpty([]string{
		m.heroView(),
		m.sessionMeterView(v),
		m.exportPanel(v),
		m.statusView(),
	})
}

func (m *model) heroView() string {
	c, ok := m.session.Case()
	if !ok {
		return lipgloss.JoinVertical(lipgloss.Left, renderLogo(), taglineStyle.Render(heroTagline))
	}
	title := heroTitleStyle.Render(wordwrap.String(c.Title, m.wrapWidth(8)))
	meta := helperStyle.Render(fmt.Sprintf("Patent %s · Defendant %s · %s", c.Patent, c.Defendant, c.Product))
	return heroBoxStyle.Render(title + "\n" + meta)
}

func (m *model) sessionMeterView(v session.View) string {
	stats := []string{
		fmt.Sprintf("Elements %d", len(v.Chart)),
		fmt.Sprintf("Strong %d", v.Strong),
		fmt.Sprintf("Weak %d", v.Weak),
		fmt.Sprintf("Refinements %d", v.Refinements),
		fmt.Sprintf("Policy %s", m.session.Policy()),
	}
	if v.InFlight {
		stats = append(stats, "Analyzing…")
	}
	if badges := m.jobStatusBadges(); len(badges) > 0 {
		stats = append(stats, badges...)
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) jobStatusBadges() []string {
	snap, ok := m.jobStates[jobKindExport]
	if !ok {
		return nil
	}
	switch snap.Status {
	case jobStatusRunning:
		return []string{"Export running"}
	case jobStatusFailed:
		return []string{"Export failed"}
	default:
		return []string{fmt.Sprintf("Export done in %s", snap.Duration.Round(time.Millisecond))}
	}
}

func (m *model) chartPanel() string {
	header := "Claim Chart"
	if m.focus == focusChart {
		header += " ◂"
	}
	return joinNonEmpty([]string{sectionHeaderStyle.Render(header), m.chartViewport.View()})
}

func (m *model) transcriptPanel() string {
	header := "Conversation"
	if m.focus == focusTranscript {
		header += " ◂"
	}
	return joinNonEmpty([]string{sectionHeaderStyle.Render(header), m.transcriptViewport.View()})
}

func (m *model) pendingPanel(p *proposal.Proposal) string {
	if p == nil {
		return ""
	}
	var title string
	switch p.Kind {
	case proposal.KindNewElement:
		title = "Suggestion pending: add a new element"
	case proposal.KindUndo:
		title = fmt.Sprintf("Suggestion pending: revert Element %d", p.ElementID)
	default:
		title = fmt.Sprintf("Suggestion pending for Element %d", p.ElementID)
	}
	lines := []string{boldStyle.Render(title)}
	if p.Kind != proposal.KindUndo {
		lines = append(lines,
			confidenceBadge(p.Fields.Confidence)+"  "+sourceStyle.Render(p.Fields.SourceType.Label()),
			qualityLine(p.Quality),
		)
	}
	lines = append(lines, helperStyle.Render("Ctrl+Y accept · Ctrl+R reject · Ctrl+E modify"))
	return pendingBoxStyle.Render(strings.Join(lines, "\n"))
}

func (m *model) helpPanel() string {
	if len(m.helpLog) == 0 {
		return ""
	}
	last := m.helpLog[len(m.helpLog)-1]
	lines := []string{sectionHeaderStyle.Render("Help")}
	if last.Question != "" {
		lines = append(lines, helperStyle.Render("? "+previewText(last.Question, transcriptPreviewLimit)))
	}
	body := conversation.Render(last.Answer, renderBold)
	lines = append(lines, wordwrap.String(body, m.wrapWidth(8)))
	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}

func (m *model) composerPanel() string {
	return joinNonEmpty([]string{
		sectionHeaderStyle.Render("Composer"),
		m.composer.View(),
	})
}

func (m *model) statusView() string {
	var parts []string
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.exporting {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		parts = append(parts, helperStyle.Render(message))
	}
	return strings.Join(parts, "\n")
}

func (m *model) exportPanel(v session.View) string {
	lines := []string{
		sectionHeaderStyle.Render("Export Claim Chart"),
		helperStyle.Render(fmt.Sprintf("%d elements · %d strong · %d weak → %s",
			len(v.Chart), v.Strong, v.Weak, m.config.ExportDir)),
		"",
	}
	pdfNote := ""
	if m.config.Exporter.ChromePath() == "" {
		pdfNote = helperStyle.Render("  (Chrome not found)")
	}
	for _, f := range export.Formats() {
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			keyStyle.Render(exportKeys[f]),
			keyDescStyle.Render(fmt.Sprintf(" %s (.%s)", formatLabel(f), f.Extension())),
		)
		if f == export.FormatPDF {
			line += pdfNote
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render("Esc"), keyDescStyle.Render(" Back")))
	return legendBoxStyle.Render(strings.Join(lines, "\n"))
}

// exportKeys binds each export format to its key in the export overlay.
var exportKeys = map[export.Format]string{
	export.FormatWord:  "w",
	export.FormatPrint: "p",
	export.FormatCSV:   "c",
	export.FormatPDF:   "f",
}

func formatLabel(f export.Format) string {
	switch f {
	case export.FormatWord:
		return "Word"
	case export.FormatPrint:
		return "Print"
	case export.FormatCSV:
		return "CSV"
	case export.FormatPDF:
		return "PDF"
	default:
		return string(f)
	}
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) commandHints() []keyHint {
	cmds := m.availableCommands()
	hints := make([]keyHint, 0, len(cmds))
	for _, c := range cmds {
		hints = append(hints, keyHint{Key: c.shortcut, Description: c.description})
	}
	return hints
}

func (m *model) keyLegendView(hints []keyHint) string {
	if len(hints) == 0 {
		return ""
	}
	const columns = 4
	var rows []string
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}

	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}

	// shadow first, offset one cell down and right
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r == ' ' {
				continue
			}
			grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
		}
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r == ' ' {
				continue
			}
			grid[y][x] = cell{r: r, style: logoFaceStyle}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}
