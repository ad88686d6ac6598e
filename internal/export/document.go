package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/csheth/claimscout/internal/chart"
)

const timestampLayout = "2006-01-02 15:04 MST"

const wordCSS = `body{font-family:Calibri,Arial,sans-serif;margin:40px;color:#1a1a1a}` +
	`h1{color:#E8531E;font-size:22px;border-bottom:2px solid #E8531E;padding-bottom:8px}` +
	`h2{color:#333;font-size:16px;margin-top:24px}` +
	`table{width:100%;border-collapse:collapse;margin-top:12px}` +
	`th{background:#E8531E;color:white;padding:10px 12px;text-align:left;font-size:12px}` +
	`td{border:1px solid #ddd;padding:10px 12px;font-size:11px;vertical-align:top}` +
	`tr:nth-child(even){background:#f8f8f8}` +
	`.badge{display:inline-block;padding:2px 8px;border-radius:10px;font-size:10px;font-weight:bold}` +
	`.strong{background:#dcfce7;color:#166534}.weak{background:#fee2e2;color:#991b1b}.moderate{background:#fef3c7;color:#854d0e}` +
	`.footer{margin-top:30px;padding-top:12px;border-top:1px solid #ddd;color:#999;font-size:10px}`

const printCSS = `@page{size:A4 landscape;margin:20mm}` +
	`body{font-family:Helvetica,Arial,sans-serif;margin:0;padding:30px;color:#1a1a1a;font-size:11px}` +
	`h1{color:#E8531E;font-size:20px;margin-bottom:4px}` +
	`table{width:100%;border-collapse:collapse;margin-top:14px;page-break-inside:auto}` +
	`th{background:#E8531E;color:white;padding:8px 10px;text-align:left;font-size:10px}` +
	`td{border:1px solid #ccc;padding:8px 10px;font-size:10px;vertical-align:top}` +
	`tr:nth-child(even){background:#f9f9f9}.meta{color:#666;margin-bottom:16px;font-size:10px}`

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

func convert(md string) (string, error) {
	var out strings.Builder
	if err := markdown.Convert([]byte(md), &out); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return out.String(), nil
}

var cellEscaper = strings.NewReplacer(
	"\r\n", " ",
	"\r", " ",
	"\n", " ",
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"|", `\|`,
	"[", `\[`,
	"]", `\]`,
	"~", `\~`,
)

// cell makes arbitrary text safe to place inside a GFM table cell.
func cell(s string) string {
	return cellEscaper.Replace(html.EscapeString(s))
}

func badge(c chart.Confidence) string {
	class := "moderate"
	switch c {
	case chart.Strong, chart.Weak:
		class = string(c)
	}
	return `<span class="badge ` + class + `">` + html.EscapeString(strings.ToUpper(string(c))) + `</span>`
}

func wordMarkdown(snap Snapshot) string {
	var b strings.Builder
	b.WriteString("# Claim Chart Analysis Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", cell(snap.GeneratedAt.Format(timestampLayout)))
	fmt.Fprintf(&b, "**Patent:** %s\n\n", cell(snap.DefendantTitle))
	fmt.Fprintf(&b, "**Elements:** %d | **Strong:** %d | **Weak:** %d\n\n",
		len(snap.Rows), snap.count(chart.Strong), snap.count(chart.Weak))
	b.WriteString("## Claim Chart\n\n")
	b.WriteString("| # | Patent Claim Element | Accused Product Feature (Evidence) | AI Reasoning | Confidence | Version |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, r := range snap.Rows {
		fmt.Fprintf(&b, "| %d | %s | <em>%s</em> | %s | %s | v%d |\n",
			r.ID, cell(r.ClaimElement), cell(r.Evidence), cell(r.Reasoning), badge(r.Confidence), r.Version)
	}
	return b.String()
}

func printMarkdown(snap Snapshot) string {
	var b strings.Builder
	b.WriteString("# Claim Chart Report\n\n")
	b.WriteString("| # | Patent Claim Element | Evidence | AI Reasoning | Confidence |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, r := range snap.Rows {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			r.ID, cell(r.ClaimElement), cell(r.Evidence), cell(r.Reasoning), cell(strings.ToUpper(string(r.Confidence))))
	}
	return b.String()
}

func renderWord(snap Snapshot) (string, error) {
	body, err := convert(wordMarkdown(snap))
	if err != nil {
		return "", err
	}
	return "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>Claim Chart</title>" +
		"<style>" + wordCSS + "</style></head><body>" + body +
		"<div class=\"footer\">Report generated by claimscout. This document is intended for legal review purposes.</div>" +
		"</body></html>", nil
}

func renderPrint(snap Snapshot) (string, error) {
	body, err := convert(printMarkdown(snap))
	if err != nil {
		return "", err
	}
	meta := fmt.Sprintf("Patent %s vs. %s | Generated: %s | Elements: %d",
		snap.PatentID, snap.Defendant, snap.GeneratedAt.Format(timestampLayout), len(snap.Rows))
	// The meta line goes after the heading, ahead of the table.
	head, rest, found := strings.Cut(body, "</h1>")
	if found {
		head += "</h1>"
	} else {
		head, rest = "", body
	}
	return "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>Claim Chart</title>" +
		"<style>" + printCSS + "</style></head><body>" + head +
		"<div class=\"meta\">" + html.EscapeString(meta) + "</div>" + rest +
		"</body></html>", nil
}

func renderCSV(snap Snapshot) string {
	var b strings.Builder
	b.WriteString("Element #,Patent Claim Element,Evidence,AI Reasoning,Confidence,Version\n")
	for _, r := range snap.Rows {
		fmt.Fprintf(&b, "%d,%s,%s,%s,%s,v%d\n",
			r.ID, quote(r.ClaimElement), quote(r.Evidence), quote(r.Reasoning), strings.ToLower(string(r.Confidence)), r.Version)
	}
	return b.String()
}

// quote always wraps s in double quotes; encoding/csv only quotes on demand.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
