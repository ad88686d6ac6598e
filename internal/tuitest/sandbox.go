package tuitest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Sandbox isolates one claimscout run: a throwaway HOME so no user config is
// read, its own export directory and a debug log. Replies are delivered
// without the cosmetic thinking delay and the "updated" flash outlives the
// script.
type Sandbox struct {
	Home      string
	ExportDir string
	LogFile   string
}

// NewSandbox lays a sandbox out under root, usually t.TempDir().
func NewSandbox(root string) *Sandbox {
	return &Sandbox{
		Home:      root,
		ExportDir: filepath.Join(root, "exports"),
		LogFile:   filepath.Join(root, "claimscout.log"),
	}
}

// Env returns the environment overrides for the sandboxed run.
func (s *Sandbox) Env() []string {
	return []string{
		"HOME=" + s.Home,
		"CLAIMSCOUT_THINKING_MIN=0s",
		"CLAIMSCOUT_THINKING_MAX=0s",
		"CLAIMSCOUT_FLASH_TTL=1m",
		"CLAIMSCOUT_ALT_SCREEN=false",
		"CLAIMSCOUT_EXPORT_DIR=" + s.ExportDir,
		"CLAIMSCOUT_LOG_FILE=" + s.LogFile,
		"CLAIMSCOUT_LOG_LEVEL=debug",
	}
}

// Exports lists the files written to the export directory, sorted by name.
// A missing directory means nothing was exported.
func (s *Sandbox) Exports() ([]string, error) {
	entries, err := os.ReadDir(s.ExportDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tuitest: list exports: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(s.ExportDir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Log returns the debug log the run wrote, or "" when it wrote none.
func (s *Sandbox) Log() (string, error) {
	data, err := os.ReadFile(s.LogFile)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("tuitest: read log: %w", err)
	}
	return string(data), nil
}
