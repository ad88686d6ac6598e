package conversation

import (
	"regexp"
	"strings"
)

// Segment is a run of message text that is either bold or plain.
type Segment struct {
	Text string
	Bold bool
}

var boldPattern = regexp.MustCompile(`\*\*([^\n]*?)\*\*`)

// Segments splits content on **bold** markers.
func Segments(content string) []Segment {
	var out []Segment
	last := 0
	for _, loc := range boldPattern.FindAllStringSubmatchIndex(content, -1) {
		if loc[0] > last {
			out = append(out, Segment{Text: content[last:loc[0]]})
		}
		out = append(out, Segment{Text: content[loc[2]:loc[3]], Bold: true})
		last = loc[1]
	}
	if last < len(content) {
		out = append(out, Segment{Text: content[last:]})
	}
	return out
}

// Plain strips the bold markers from content.
func Plain(content string) string {
	var b strings.Builder
	for _, seg := range Segments(content) {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Render joins the segments of content, passing bold runs through bold.
func Render(content string, bold func(string) string) string {
	var b strings.Builder
	for _, seg := range Segments(content) {
		if seg.Bold && bold != nil {
			b.WriteString(bold(seg.Text))
			continue
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
