package tui

import "time"

type stage int

const (
	stagePicker stage = iota
	stageWorkspace
	stageExport
)

type scrollFocus int

const (
	focusTranscript scrollFocus = iota
	focusChart
)

const heroTagline = "Refine infringement claim charts with claimscout."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	transcriptPreviewLimit    = 240
	defaultExportDir          = "./claimscout-exports"
)

type helpExchange struct {
	Question string
	Answer   string
	AskedAt  time.Time
}

const (
	composerChatPlaceholder = "Ask for a refinement, e.g. \"Strengthen evidence for element 3\"…"
	composerBusyPlaceholder = "Waiting for the assistant…"
)
