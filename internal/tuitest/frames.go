package tuitest

import (
	"regexp"
	"strconv"
	"strings"
)

// Frame is one full repaint of the terminal, with and without escapes.
type Frame struct {
	Index int
	ANSI  string
	Plain string
}

var (
	frameSeparator = regexp.MustCompile(`\x1b\[[0-9;]*J`)
	csiPattern     = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	oscPattern     = regexp.MustCompile(`\x1b\][^\x07]*(\x07|\x1b\\)`)
)

// parseFrames splits the stream on screen clears. A stream that never clears
// is returned as a single frame.
func parseFrames(raw []byte) []Frame {
	cleaned := strings.ReplaceAll(string(raw), "\r", "")
	var frames []Frame
	for _, segment := range frameSeparator.Split(cleaned, -1) {
		segment = strings.TrimPrefix(strings.Trim(segment, "\x00"), "\x1b[H")
		plain := normalizeLines(stripANSI(segment))
		if strings.TrimSpace(plain) == "" {
			continue
		}
		frames = append(frames, Frame{Index: len(frames), ANSI: segment, Plain: plain})
	}
	if len(frames) == 0 && cleaned != "" {
		frames = append(frames, Frame{ANSI: cleaned, Plain: normalizeLines(stripANSI(cleaned))})
	}
	return frames
}

func stripANSI(s string) string {
	s = oscPattern.ReplaceAllString(s, "")
	s = csiPattern.ReplaceAllString(s, "")
	return strings.NewReplacer("\x0f", "", "\x0e", "").Replace(s)
}

func normalizeLines(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// FinalFrame returns the last captured frame. The second return value is false
// when no frames were recorded.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// LastFrameContaining returns the most recent frame whose plain text contains
// substr.
func (r *Recording) LastFrameContaining(substr string) (Frame, bool) {
	if r == nil {
		return Frame{}, false
	}
	for i := len(r.Frames) - 1; i >= 0; i-- {
		if strings.Contains(r.Frames[i].Plain, substr) {
			return r.Frames[i], true
		}
	}
	return Frame{}, false
}

// ChartRow is the header line of one claim chart element as rendered in the
// workspace.
type ChartRow struct {
	ID      int
	Version int
	Changes int
	Pending bool
	Updated bool
	Line    string
}

// Row headers read "Element N  BADGE  Source  vN[  k change(s)][  marker]",
// optionally prefixed with ▸ (pending) or ✨ (just updated). The two spaces
// after the id keep transcript sentences like "Element 3 updated" out.
var (
	chartRowPattern = regexp.MustCompile(`(?:(▸|✨) )?Element (\d+)  .*?\bv(\d+)\b`)
	changesPattern  = regexp.MustCompile(`(\d+) change\(s\)`)
)

// ChartRow finds the header of element id in the frame.
func (f Frame) ChartRow(id int) (ChartRow, bool) {
	for _, line := range strings.Split(f.Plain, "\n") {
		m := chartRowPattern.FindStringSubmatch(line)
		if m == nil || m[2] != strconv.Itoa(id) {
			continue
		}
		row := ChartRow{ID: id, Line: strings.TrimSpace(line)}
		row.Version, _ = strconv.Atoi(m[3])
		if c := changesPattern.FindStringSubmatch(line); c != nil {
			row.Changes, _ = strconv.Atoi(c[1])
		}
		row.Pending = m[1] == "▸"
		row.Updated = m[1] == "✨"
		return row, true
	}
	return ChartRow{}, false
}
