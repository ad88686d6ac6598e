package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/csheth/claimscout/internal/tuitest"
)

func TestClaimscoutStrengthenAcceptExport(t *testing.T) {
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)
	sandbox := tuitest.NewSandbox(t.TempDir())

	steps := []tuitest.Step{
		tuitest.WaitFor("Choose a Case"),
		tuitest.Press(tuitest.KeyEnter),
		tuitest.WaitFor("Loaded US123456"),
	}
	steps = append(steps, tuitest.Type("Strengthen evidence for element 3", 10*time.Millisecond)...)
	steps = append(steps,
		tuitest.Press(tuitest.KeyEnter),
		tuitest.WaitFor("Suggestion pending for Element 3"),
		tuitest.Press(tuitest.KeyCtrlY),
		tuitest.WaitFor("Element 3 updated"),
		tuitest.Press(tuitest.KeyCtrlX),
		tuitest.WaitFor("Export Claim Chart"),
		tuitest.Press([]byte("c")),
		tuitest.WaitFor("Saved CSV export"),
		tuitest.Press(tuitest.KeyCtrlC),
	)

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command:        []string{binary, "--no-alt-screen"},
		Dir:            cmdDir,
		Sandbox:        sandbox,
		Width:          120,
		Height:         40,
		Steps:          steps,
		Timeout:        15 * time.Second,
		AllowInterrupt: true,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	row, ok := lastChartRow(rec, 3)
	if !ok {
		final, _ := rec.FinalFrame()
		t.Fatalf("element 3 row never rendered; final frame:\n%s", final.Plain)
	}
	if row.Version != 2 || row.Changes != 1 || !row.Updated {
		t.Fatalf("element 3 row after accept got %+v", row)
	}

	exports, err := sandbox.Exports()
	if err != nil {
		t.Fatal(err)
	}
	if len(exports) != 1 || filepath.Base(exports[0]) != "ClaimChart_US123456.csv" {
		t.Fatalf("exports got %v", exports)
	}
	data, err := os.ReadFile(exports[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), ",v2\n") {
		t.Fatalf("csv should carry the accepted version:\n%s", data)
	}

	log, err := sandbox.Log()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"session started", "proposal installed", "job finished"} {
		if !strings.Contains(log, want) {
			t.Fatalf("debug log missing %q:\n%s", want, log)
		}
	}
}

// lastChartRow returns the most recent repaint of element id's header.
func lastChartRow(rec *tuitest.Recording, id int) (tuitest.ChartRow, bool) {
	for i := len(rec.Frames) - 1; i >= 0; i-- {
		if row, ok := rec.Frames[i].ChartRow(id); ok {
			return row, true
		}
	}
	return tuitest.ChartRow{}, false
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	tmp := t.TempDir()
	name := "claimscout-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(tmp, name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
