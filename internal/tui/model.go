package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/claimscout/internal/catalog"
	"github.com/csheth/claimscout/internal/export"
	"github.com/csheth/claimscout/internal/help"
	"github.com/csheth/claimscout/internal/logging"
	"github.com/csheth/claimscout/internal/proposal"
	"github.com/csheth/claimscout/internal/session"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Session     *session.Session
	Exporter    *export.Exporter
	ExportDir   string
	InitialCase string
	ThinkingMin time.Duration
	ThinkingMax time.Duration
	// Policy and FlashTTL configure the session built when Session is nil.
	Policy   proposal.Policy
	FlashTTL time.Duration
	Logger   *slog.Logger
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	logger := logging.Component(config.Logger, "tui")
	var startupErr string
	if config.Session == nil {
		cat, err := catalog.Default()
		if err != nil {
			startupErr = err.Error()
			cat = &catalog.Catalog{}
		}
		config.Session = session.New(cat, session.Options{
			Policy:   config.Policy,
			FlashTTL: config.FlashTTL,
			Logger:   config.Logger,
		})
	}
	if config.Exporter == nil {
		config.Exporter = export.New("")
	}
	if strings.TrimSpace(config.ExportDir) == "" {
		config.ExportDir = defaultExportDir
	}

	composer := textinput.New()
	composer.Placeholder = composerChatPlaceholder
	composer.CharLimit = 280
	composer.Width = 70

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	layout := newPageLayout()
	chartVP := viewport.New(layout.viewportWidth, layout.chartHeight)
	chartVP.MouseWheelEnabled = true
	transcriptVP := viewport.New(layout.viewportWidth, layout.transcriptHeight)
	transcriptVP.MouseWheelEnabled = true

	m := &model{
		config:             config,
		stage:              stagePicker,
		logger:             logger,
		session:            config.Session,
		jobs:               newJobBus(logger, 2*time.Minute),
		jobStates:          map[jobKind]jobSnapshot{},
		composer:           composer,
		spinner:            spin,
		chartViewport:      chartVP,
		transcriptViewport: transcriptVP,
		layout:             layout,
		focus:              focusTranscript,
		rowLines:           map[int]int{},
		viewportDirty:      true,
		errorMessage:       startupErr,
		infoMessage:        "Pick a case with ↑/↓ and press Enter.",
	}
	for i, c := range m.session.Cases() {
		if c.ID == config.InitialCase {
			m.pickerCursor = i
		}
	}
	return m
}

type model struct {
	config    Config
	stage     stage
	logger    *slog.Logger
	session   *session.Session
	jobs      *jobBus
	jobStates map[jobKind]jobSnapshot

	composer           textinput.Model
	spinner            spinner.Model
	chartViewport      viewport.Model
	transcriptViewport viewport.Model
	layout             pageLayout
	focus              scrollFocus

	pickerCursor  int
	helpLog       []helpExchange
	exporting     bool
	lastExport    string
	rowLines      map[int]int
	viewportDirty bool
	infoMessage   string
	errorMessage  string
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.session.InFlight() || m.exporting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.markViewportDirty()
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.stage != stageWorkspace {
			return m, nil
		}
		var cmd tea.Cmd
		if m.focus == focusChart {
			m.chartViewport, cmd = m.chartViewport.Update(msg)
		} else {
			m.transcriptViewport, cmd = m.transcriptViewport.Update(msg)
		}
		return m, cmd
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.applyLayout()
		m.markViewportDirty()
		return m, nil
	case replyReadyMsg:
		return m.handleReply(msg)
	case flashExpiredMsg:
		m.markViewportDirty()
		return m, nil
	case jobSignalMsg:
		m.jobStates[msg.Snapshot.Kind] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		m.jobStates[msg.Snapshot.Kind] = msg.Snapshot
		if msg.Payload != nil {
			return m.Update(msg.Payload)
		}
		return m, nil
	case exportResultMsg:
		m.exporting = false
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("export failed: %v", msg.err)
			m.infoMessage = "Pick another format or press Esc."
			return m, nil
		}
		m.stage = stageWorkspace
		m.lastExport = msg.path
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Saved %s export to %s", formatLabel(msg.format), msg.path)
		m.composer.Focus()
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stagePicker:
		return m.handlePickerKey(key)
	case stageWorkspace:
		return m.handleWorkspaceKey(key)
	case stageExport:
		return m.handleExportKey(key)
	default:
		return m, nil
	}
}

func (m *model) handlePickerKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	cases := m.session.Cases()
	switch key.String() {
	case "up", "k":
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
	case "down", "j":
		if m.pickerCursor < len(cases)-1 {
			m.pickerCursor++
		}
	case "enter":
		return m.startCase()
	case "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) startCase() (tea.Model, tea.Cmd) {
	cases := m.session.Cases()
	if len(cases) == 0 {
		m.errorMessage = "No cases available."
		return m, nil
	}
	picked := cases[m.pickerCursor]
	if err := m.session.SelectCase(picked.ID); err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}
	if err := m.session.Start(); err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}
	m.logger.Info("case opened", slog.String("case", picked.ID))
	m.stage = stageWorkspace
	m.helpLog = nil
	m.lastExport = ""
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Loaded %s. Ask for a refinement, or start a line with ? for help.", picked.Title)
	m.composer.Placeholder = composerChatPlaceholder
	m.composer.SetValue("")
	m.composer.Focus()
	m.chartViewport.GotoTop()
	m.markViewportDirty()
	return m, textinput.Blink
}

func (m *model) handleWorkspaceKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+y":
		return m.resolve(session.Accept)
	case "ctrl+r":
		return m.resolve(session.Reject)
	case "ctrl+e":
		return m.resolve(session.Modify)
	case "ctrl+x":
		return m.openExport()
	case "ctrl+n":
		m.resetSession()
		return m, nil
	case "tab":
		if m.focus == focusChart {
			m.focus = focusTranscript
		} else {
			m.focus = focusChart
		}
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		if m.focus == focusChart {
			m.chartViewport, cmd = m.chartViewport.Update(key)
		} else {
			m.transcriptViewport, cmd = m.transcriptViewport.Update(key)
		}
		return m, cmd
	case "esc":
		m.composer.SetValue("")
		return m, nil
	case "enter":
		return m.submitComposer()
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(key)
	return m, cmd
}

func (m *model) submitComposer() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.composer.Value())
	if text == "" {
		m.infoMessage = "Type a request first."
		return m, nil
	}
	if strings.HasPrefix(text, "?") {
		m.askHelp(strings.TrimSpace(strings.TrimPrefix(text, "?")))
		return m, nil
	}
	reply, ok := m.session.Submit(text)
	if !ok {
		m.infoMessage = "The assistant is still thinking…"
		return m, nil
	}
	m.composer.SetValue("")
	m.composer.Placeholder = composerBusyPlaceholder
	m.errorMessage = ""
	m.infoMessage = ""
	m.markViewportDirty()
	return m, tea.Batch(m.spinner.Tick, deliverAfter(m.thinkingDelay(), reply))
}

func (m *model) askHelp(query string) {
	answer := help.Greeting
	if query != "" {
		answer = help.Respond(query)
	} else if v := m.session.Snapshot(); v.Started {
		answer += "\n\n" + help.RenderSteps(help.Walkthrough(v.Title, v.WeakIDs()))
	}
	m.helpLog = append(m.helpLog, helpExchange{Question: query, Answer: answer, AskedAt: time.Now()})
	m.composer.SetValue("")
	m.infoMessage = "Help answered below. The chart is unchanged."
}

func (m *model) handleReply(msg replyReadyMsg) (tea.Model, tea.Cmd) {
	if !m.session.Deliver(msg.reply) {
		return m, nil
	}
	m.composer.Placeholder = composerChatPlaceholder
	m.markViewportDirty()
	if msg.reply.Outcome.OpenExporter {
		m.stage = stageExport
		m.infoMessage = "Choose an export format."
		return m, nil
	}
	if m.session.Snapshot().Pending != nil {
		m.infoMessage = "Ctrl+Y accept · Ctrl+R reject · Ctrl+E modify"
	}
	return m, nil
}

func (m *model) resolve(action session.Action) (tea.Model, tea.Cmd) {
	res := m.session.Resolve(action)
	if !res.Resolved {
		if m.session.InFlight() {
			m.infoMessage = "Wait for the assistant to finish."
		} else {
			m.infoMessage = "No suggestion to resolve."
		}
		return m, nil
	}
	m.errorMessage = ""
	m.markViewportDirty()
	switch action {
	case session.Accept:
		if !res.Applied {
			m.infoMessage = "The suggestion no longer applies."
			return m, nil
		}
		m.infoMessage = fmt.Sprintf("Element %d updated.", res.ElementID)
		return m, expireFlashAfter(m.session.FlashTTL(), res.ElementID)
	case session.Reject:
		m.infoMessage = "Suggestion rejected. The chart is unchanged."
	case session.Modify:
		m.composer.SetValue(res.Prefill)
		m.composer.CursorEnd()
		m.composer.Focus()
		m.infoMessage = "Rephrase your request and press Enter."
	}
	return m, nil
}

func (m *model) openExport() (tea.Model, tea.Cmd) {
	if !m.commandAvailable(actionExport) {
		m.infoMessage = "An export is already running."
		return m, nil
	}
	m.stage = stageExport
	m.errorMessage = ""
	m.infoMessage = "Choose an export format."
	m.composer.Blur()
	return m, nil
}

func (m *model) handleExportKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc", "q":
		if m.exporting {
			return m, nil
		}
		m.stage = stageWorkspace
		m.errorMessage = ""
		m.infoMessage = "Export canceled."
		m.composer.Focus()
		return m, nil
	}
	for _, f := range export.Formats() {
		if key.String() == exportKeys[f] {
			return m.startExport(f)
		}
	}
	return m, nil
}

func (m *model) startExport(format export.Format) (tea.Model, tea.Cmd) {
	if m.exporting {
		return m, nil
	}
	snap, err := m.session.RequestExport()
	if err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}
	m.exporting = true
	m.errorMessage = ""
	m.infoMessage = fmt.Sprintf("Rendering %s export…", formatLabel(format))
	job := exportJob(m.config.Exporter, m.config.ExportDir, format, snap)
	return m, tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindExport, job))
}

func (m *model) resetSession() {
	m.session.Reset()
	m.stage = stagePicker
	m.helpLog = nil
	m.lastExport = ""
	m.focus = focusTranscript
	m.composer.SetValue("")
	m.composer.Placeholder = composerChatPlaceholder
	m.composer.Blur()
	m.errorMessage = ""
	m.infoMessage = "Session cleared. Pick a case."
	m.markViewportDirty()
}

func (m *model) applyLayout() {
	m.chartViewport.Width = m.layout.viewportWidth
	m.chartViewport.Height = m.layout.chartHeight
	m.transcriptViewport.Width = m.layout.viewportWidth
	m.transcriptViewport.Height = m.layout.transcriptHeight
	composerWidth := m.layout.viewportWidth - 4
	if composerWidth < 20 {
		composerWidth = 20
	}
	m.composer.Width = composerWidth
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if m.viewportDirty {
		m.refreshViewport()
	}
}

func (m *model) refreshViewport() {
	v := m.session.Snapshot()
	chartContent := m.buildChartContent(v)
	m.rowLines = chartContent.rowLines
	m.chartViewport.SetContent(chartContent.content)
	focus := v.Highlight
	if focus == 0 {
		focus = v.JustUpdated
	}
	if line, ok := m.rowLines[focus]; ok {
		m.chartViewport.SetYOffset(line)
	}
	m.transcriptViewport.SetContent(m.buildTranscriptContent(v))
	m.transcriptViewport.GotoBottom()
	m.viewportDirty = false
}

var (
	sectionHeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	boldStyle           = lipgloss.NewStyle().Bold(true)
	rowTitleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	fieldLabelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	sourceStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Italic(true)
	versionStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	qualityStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c"))
	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))

	heroAccentColor        = lipgloss.Color("#ff8c00")
	heroEmberColor         = lipgloss.Color("#2b1400")
	heroTextColor          = lipgloss.Color("#fff4d0")
	heroSecondaryTextColor = lipgloss.Color("#ffb347")

	heroTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	heroBoxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Foreground(heroTextColor).Background(heroEmberColor).Padding(0, 2)
	taglineStyle       = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	helpBoxStyle       = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(0, 1)
	pendingBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#ffd166")).Padding(0, 1)
	currentLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	highlightRowStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166"))
	flashRowStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#a3be8c"))
	strongBadgeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#a3be8c")).Padding(0, 1)
	moderateBadgeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	weakBadgeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fff4d0")).Background(lipgloss.Color("#bf616a")).Padding(0, 1)
	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#110600"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		" ██████╗  ██╗        █████╗   ██╗  ███╗   ███╗  ",
		"██╔════╝  ██║       ██╔══██╗  ██║  ████╗ ████║  ",
		"██║       ██║       ███████║  ██║  ██╔████╔██║  ",
		"██║       ██║       ██╔══██║  ██║  ██║╚██╔╝██║  ",
		"╚██████╗  ███████╗  ██║  ██║  ██║  ██║ ╚═╝ ██║  ",
		" ╚═════╝  ╚══════╝  ╚═╝  ╚═╝  ╚═╝  ╚═╝     ╚═╝  ",
	}
)
