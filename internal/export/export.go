// Package export renders claim charts into shareable documents.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/csheth/claimscout/internal/chart"
)

// Format selects an output document type.
type Format string

const (
	FormatWord  Format = "word"
	FormatPrint Format = "print"
	FormatCSV   Format = "csv"
	FormatPDF   Format = "pdf"
)

// Formats lists every supported format in menu order.
func Formats() []Format {
	return []Format{FormatWord, FormatPrint, FormatCSV, FormatPDF}
}

// ParseFormat accepts a format name or its file extension.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(value), ".")) {
	case "word", "doc", "docx":
		return FormatWord, nil
	case "print", "html":
		return FormatPrint, nil
	case "csv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	}
	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, string(f))
	}
	return "", fmt.Errorf("unknown export format %q (want %s)", value, strings.Join(names, ", "))
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatWord:
		return "doc"
	case FormatPrint:
		return "html"
	default:
		return string(f)
	}
}

// Snapshot is the read-only chart view handed to the exporter.
type Snapshot struct {
	CaseID         string      `json:"caseId"`
	PatentID       string      `json:"patentId"`
	Defendant      string      `json:"defendant"`
	DefendantTitle string      `json:"defendantTitle"`
	Rows           []chart.Row `json:"rows"`
	GeneratedAt    time.Time   `json:"generatedAt"`
}

func (s Snapshot) count(conf chart.Confidence) int {
	n := 0
	for _, r := range s.Rows {
		if r.Confidence == conf {
			n++
		}
	}
	return n
}

// ErrNoChrome is returned when a PDF is requested without a browser.
var ErrNoChrome = errors.New("no Chrome or Chromium binary found for PDF export")

// Exporter renders snapshots. The zero value renders every text format; PDF
// needs a browser binary.
type Exporter struct {
	chromePath string
	timeout    time.Duration
}

// New returns an exporter. An empty chromePath is auto-detected.
func New(chromePath string) *Exporter {
	if strings.TrimSpace(chromePath) == "" {
		chromePath = DetectChrome()
	}
	return &Exporter{chromePath: chromePath, timeout: 30 * time.Second}
}

// ChromePath returns the browser used for PDF rendering, or "".
func (e *Exporter) ChromePath() string {
	return e.chromePath
}

// Render produces the document bytes for format.
func (e *Exporter) Render(ctx context.Context, format Format, snap Snapshot) ([]byte, error) {
	switch format {
	case FormatWord:
		out, err := renderWord(snap)
		return []byte(out), err
	case FormatPrint:
		out, err := renderPrint(snap)
		return []byte(out), err
	case FormatCSV:
		return []byte(renderCSV(snap)), nil
	case FormatPDF:
		return e.renderPDF(ctx, snap)
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

// WriteFile renders snap into dir and returns the written path.
func (e *Exporter) WriteFile(ctx context.Context, dir string, format Format, snap Snapshot) (string, error) {
	data, err := e.Render(ctx, format, snap)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", format, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(snap, format))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName returns ClaimChart_<patent>.<ext> with the patent id made safe
// for file systems.
func FileName(snap Snapshot, format Format) string {
	id := unsafeName.ReplaceAllString(snap.PatentID, "_")
	if id == "" {
		id = "chart"
	}
	return "ClaimChart_" + id + "." + format.Extension()
}
