package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// setupConfig writes a config file pointing exports into a temp dir and
// resets the package-level flags afterwards.
func setupConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	exportDir := filepath.Join(dir, "exports")
	body := "export_dir: " + exportDir + "\n" + extra
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgFile = path
	t.Cleanup(func() {
		cfgFile = ""
		verbose = false
		replaySnapshot = false
	})
	return exportDir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if out != "claimscout dev\n" {
		t.Fatalf("got %q", out)
	}
}

func TestCasesListsCatalog(t *testing.T) {
	out, _, err := run(t, "cases")
	if err != nil {
		t.Fatalf("cases: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 cases, got:\n%s", out)
	}
	for _, want := range []string{"acme", "nova", "zenith", "US123456", "Acme Corp"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAskAnswersWithoutMarkup(t *testing.T) {
	out, _, err := run(t, "ask", "how", "do", "I", "undo")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "Type 'Undo'.") || strings.Contains(out, "**") {
		t.Fatalf("got %q", out)
	}
}

func TestReplayPrintsTranscriptAndExports(t *testing.T) {
	exportDir := setupConfig(t, "")
	script := writeScript(t, "case: acme\nsteps:\n  - say: Strengthen evidence for element 3\n  - resolve: accept\n  - export: csv\n")
	out, _, err := run(t, "replay", script)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !strings.Contains(out, "[user] Strengthen evidence for element 3") || !strings.Contains(out, "Element 3 updated") {
		t.Fatalf("transcript got:\n%s", out)
	}
	entries, err := os.ReadDir(exportDir)
	if err != nil || len(entries) != 1 || filepath.Ext(entries[0].Name()) != ".csv" {
		t.Fatalf("export dir entries %v err %v", entries, err)
	}
}

func TestReplaySnapshotJSON(t *testing.T) {
	setupConfig(t, "")
	script := writeScript(t, "case: acme\nsteps:\n  - say: Strengthen evidence for element 3\n  - resolve: accept\n")
	out, _, err := run(t, "replay", "--snapshot", script)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	var got struct {
		Case  string `json:"case"`
		Chart []struct {
			ID      int `json:"id"`
			Version int `json:"version"`
		} `json:"chart"`
		Exports []string `json:"exports"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Case != "acme" || len(got.Chart) != 3 || got.Chart[2].Version != 2 || got.Exports == nil {
		t.Fatalf("snapshot got %+v", got)
	}
}

func TestReplayRejectsInvalidScript(t *testing.T) {
	setupConfig(t, "")
	script := writeScript(t, "steps: []\n")
	if _, _, err := run(t, "replay", script); err == nil || !strings.Contains(err.Error(), "case is required") {
		t.Fatalf("got %v", err)
	}
}

func TestConfigShowReportsSourceAndOverrides(t *testing.T) {
	setupConfig(t, "pending_policy: reject\n")
	t.Setenv("CLAIMSCOUT_FLASH_TTL", "5s")
	out, errOut, err := run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(errOut, "Using config file: "+cfgFile) {
		t.Fatalf("stderr got %q", errOut)
	}
	for _, want := range []string{"pending_policy: reject", "flash_ttl: 5s", "Priority:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigShowInvalidConfig(t *testing.T) {
	setupConfig(t, "pending_policy: sometimes\n")
	if _, _, err := run(t, "config", "show"); err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("got %v", err)
	}
}

func TestConfigPathHonoursFlag(t *testing.T) {
	setupConfig(t, "")
	out, _, err := run(t, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != cfgFile {
		t.Fatalf("got %q want %q", out, cfgFile)
	}
}

func TestReplayVerboseLogsToStderr(t *testing.T) {
	setupConfig(t, "")
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	script := writeScript(t, "case: acme\nsteps:\n  - say: Strengthen evidence for element 3\n  - resolve: accept\n")
	_, errOut, err := run(t, "replay", "--verbose", script)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	for _, want := range []string{"session started", "proposal resolved", "level=DEBUG"} {
		if !strings.Contains(errOut, want) {
			t.Fatalf("stderr missing %q:\n%s", want, errOut)
		}
	}
}

func TestReplayHelpListsEveryExportFormat(t *testing.T) {
	t.Cleanup(func() { _ = replayCmd.Flags().Set("help", "false") })
	out, _, err := run(t, "replay", "--help")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"export" (word, print, csv, pdf)`) {
		t.Fatalf("help got:\n%s", out)
	}
}
