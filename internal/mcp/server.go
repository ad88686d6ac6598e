// Package mcp exposes one claimscout refinement session as MCP tools so an
// assistant can drive the same flow the TUI offers.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/csheth/claimscout/internal/chart"
	"github.com/csheth/claimscout/internal/conversation"
	"github.com/csheth/claimscout/internal/export"
	"github.com/csheth/claimscout/internal/help"
	"github.com/csheth/claimscout/internal/logging"
	"github.com/csheth/claimscout/internal/proposal"
	"github.com/csheth/claimscout/internal/session"
)

// Options configure a Server.
type Options struct {
	Exporter  *export.Exporter
	ExportDir string
	Version   string
	Logger    *slog.Logger
}

// Server serializes tool calls over a single session.
type Server struct {
	server    *gomcp.Server
	logger    *slog.Logger
	exporter  *export.Exporter
	exportDir string

	mu      sync.Mutex
	session *session.Session
}

// NewServer registers the claimscout tools over sess.
func NewServer(sess *session.Session, opts Options) *Server {
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	exporter := opts.Exporter
	if exporter == nil {
		exporter = export.New("")
	}
	dir := opts.ExportDir
	if dir == "" {
		dir = "."
	}
	s := &Server{
		logger:    logging.Component(opts.Logger, "mcp"),
		exporter:  exporter,
		exportDir: dir,
		session:   sess,
	}
	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "claimscout", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying server, mainly for in-memory transports.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type emptyInput struct{}

type caseOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Patent    string `json:"patent"`
	Defendant string `json:"defendant"`
	Elements  int    `json:"elements"`
}

type listCasesOutput struct {
	Cases []caseOutput `json:"cases"`
	Count int          `json:"count"`
}

type selectCaseInput struct {
	CaseID string `json:"case_id" jsonschema:"case identifier from list_cases, e.g. acme"`
}

type submitMessageInput struct {
	Text string `json:"text" jsonschema:"analyst message, e.g. Strengthen evidence for element 3"`
}

type submitMessageOutput struct {
	Intent       string          `json:"intent"`
	Reply        string          `json:"reply"`
	Pending      *proposalOutput `json:"pending,omitempty"`
	OpenExporter bool            `json:"open_exporter"`
}

type resolveInput struct {
	Action string `json:"action" jsonschema:"one of accept, reject, modify"`
}

type resolveOutput struct {
	Resolved  bool   `json:"resolved"`
	Applied   bool   `json:"applied"`
	Kind      string `json:"kind,omitempty"`
	ElementID int    `json:"element_id,omitempty"`
	Prefill   string `json:"prefill,omitempty"`
	Reply     string `json:"reply,omitempty"`
}

type exportInput struct {
	Format string `json:"format" jsonschema:"one of word, print, csv, pdf"`
}

type exportOutput struct {
	Format string `json:"format"`
	Path   string `json:"path"`
}

type helpInput struct {
	Query string `json:"query" jsonschema:"how-to question about claimscout"`
}

type helpOutput struct {
	Answer      string       `json:"answer"`
	Walkthrough []stepOutput `json:"walkthrough"`
}

type stepOutput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type qualityOutput struct {
	SourceStrength int `json:"source_strength"`
	ClaimMapping   int `json:"claim_mapping"`
	LegalPrecision int `json:"legal_precision"`
}

type proposalOutput struct {
	Kind       string        `json:"kind"`
	ElementID  int           `json:"element_id,omitempty"`
	Evidence   string        `json:"evidence,omitempty"`
	Reasoning  string        `json:"reasoning,omitempty"`
	Confidence string        `json:"confidence,omitempty"`
	Quality    qualityOutput `json:"quality"`
}

type elementOutput struct {
	ID           int    `json:"id"`
	ClaimElement string `json:"claim_element"`
	Evidence     string `json:"evidence"`
	Reasoning    string `json:"reasoning"`
	Confidence   string `json:"confidence"`
	SourceType   string `json:"source_type"`
	Version      int    `json:"version"`
	Changes      int    `json:"changes"`
}

type messageOutput struct {
	ID      int    `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

type snapshotOutput struct {
	CaseID      string          `json:"case_id,omitempty"`
	Title       string          `json:"title,omitempty"`
	Started     bool            `json:"started"`
	Elements    []elementOutput `json:"elements"`
	Messages    []messageOutput `json:"messages"`
	Pending     *proposalOutput `json:"pending,omitempty"`
	Highlight   int             `json:"highlight,omitempty"`
	JustUpdated int             `json:"just_updated,omitempty"`
	Refinements int             `json:"refinements"`
	Strong      int             `json:"strong"`
	Weak        int             `json:"weak"`
}

type resetOutput struct {
	Message string `json:"message"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_cases",
		Description: "List the demo cases that can be opened.",
	}, s.handleListCases)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "select_case",
		Description: "Open a case and load its claim chart. Only valid before a chart is loaded; call reset_session to switch.",
	}, s.handleSelectCase)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "submit_message",
		Description: "Send an analyst message. Returns the assistant reply and any suggestion now pending review.",
	}, s.handleSubmitMessage)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "resolve_proposal",
		Description: "Accept, reject or modify the pending suggestion.",
	}, s.handleResolve)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "request_export",
		Description: "Write the current chart as word, print, csv or pdf into the export directory.",
	}, s.handleExport)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_snapshot",
		Description: "Return the chart, transcript and pending suggestion.",
	}, s.handleSnapshot)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "reset_session",
		Description: "Drop the current chart and transcript and return to case selection.",
	}, s.handleReset)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "help",
		Description: "Answer a how-to question, or with an empty query return a refinement walkthrough for the open case. Never changes the session.",
	}, s.handleHelp)
}

// --- Tool handlers ---

func (s *Server) handleListCases(_ context.Context, _ *gomcp.CallToolRequest, _ emptyInput) (*gomcp.CallToolResult, listCasesOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cases := s.session.Cases()
	out := listCasesOutput{Cases: make([]caseOutput, len(cases)), Count: len(cases)}
	for i, c := range cases {
		out.Cases[i] = caseOutput{
			ID:        c.ID,
			Title:     c.Title,
			Patent:    c.Patent,
			Defendant: c.Defendant,
			Elements:  len(c.Chart),
		}
	}
	return nil, out, nil
}

func (s *Server) handleSelectCase(_ context.Context, _ *gomcp.CallToolRequest, input selectCaseInput) (*gomcp.CallToolResult, snapshotOutput, error) {
	if strings.TrimSpace(input.CaseID) == "" {
		return errorResult("case_id is required"), emptySnapshot(), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.session.SelectCase(input.CaseID); err != nil {
		return errorResult(fmt.Sprintf("selecting case: %s", err)), emptySnapshot(), nil
	}
	if err := s.session.Start(); err != nil {
		return errorResult(fmt.Sprintf("starting session: %s", err)), emptySnapshot(), nil
	}
	s.logger.Info("case opened", slog.String("case", input.CaseID))
	return nil, snapshotToOutput(s.session.Snapshot()), nil
}

func (s *Server) handleSubmitMessage(_ context.Context, _ *gomcp.CallToolRequest, input submitMessageInput) (*gomcp.CallToolResult, submitMessageOutput, error) {
	if strings.TrimSpace(input.Text) == "" {
		return errorResult("text is required"), submitMessageOutput{}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.session.Started() {
		return errorResult("no case open; call select_case first"), submitMessageOutput{}, nil
	}
	reply, ok := s.session.Submit(input.Text)
	if !ok {
		return errorResult("message refused"), submitMessageOutput{}, nil
	}
	s.session.Deliver(reply)
	v := s.session.Snapshot()
	out := submitMessageOutput{
		Intent:       string(reply.Outcome.Intent),
		Reply:        lastAssistant(v.Messages),
		Pending:      proposalToOutput(v.Pending),
		OpenExporter: reply.Outcome.OpenExporter,
	}
	return nil, out, nil
}

func (s *Server) handleResolve(_ context.Context, _ *gomcp.CallToolRequest, input resolveInput) (*gomcp.CallToolResult, resolveOutput, error) {
	action, err := session.ParseAction(input.Action)
	if err != nil {
		return errorResult(err.Error()), resolveOutput{}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.session.Started() {
		return errorResult("no case open; call select_case first"), resolveOutput{}, nil
	}
	before := len(s.session.Snapshot().Messages)
	res := s.session.Resolve(action)
	out := resolveOutput{
		Resolved:  res.Resolved,
		Applied:   res.Applied,
		Kind:      string(res.Kind),
		ElementID: res.ElementID,
		Prefill:   res.Prefill,
	}
	if msgs := s.session.Snapshot().Messages; len(msgs) > before {
		out.Reply = lastAssistant(msgs[before:])
	}
	return nil, out, nil
}

func (s *Server) handleExport(ctx context.Context, _ *gomcp.CallToolRequest, input exportInput) (*gomcp.CallToolResult, exportOutput, error) {
	format, err := export.ParseFormat(input.Format)
	if err != nil {
		return errorResult(err.Error()), exportOutput{}, nil
	}
	s.mu.Lock()
	snap, err := s.session.RequestExport()
	s.mu.Unlock()
	if err != nil {
		return errorResult(fmt.Sprintf("export: %s", err)), exportOutput{}, nil
	}
	path, err := s.exporter.WriteFile(ctx, s.exportDir, format, snap)
	if err != nil {
		return errorResult(fmt.Sprintf("export %s: %s", format, err)), exportOutput{}, nil
	}
	s.logger.Info("chart exported", slog.String("format", string(format)), slog.String("path", path))
	return nil, exportOutput{Format: string(format), Path: path}, nil
}

func (s *Server) handleSnapshot(_ context.Context, _ *gomcp.CallToolRequest, _ emptyInput) (*gomcp.CallToolResult, snapshotOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return nil, snapshotToOutput(s.session.Snapshot()), nil
}

func (s *Server) handleReset(_ context.Context, _ *gomcp.CallToolRequest, _ emptyInput) (*gomcp.CallToolResult, resetOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Reset()
	return nil, resetOutput{Message: "session reset; call select_case to open a case"}, nil
}

func (s *Server) handleHelp(_ context.Context, _ *gomcp.CallToolRequest, input helpInput) (*gomcp.CallToolResult, helpOutput, error) {
	if strings.TrimSpace(input.Query) != "" {
		return nil, helpOutput{Answer: help.Respond(input.Query), Walkthrough: []stepOutput{}}, nil
	}
	s.mu.Lock()
	v := s.session.Snapshot()
	s.mu.Unlock()
	out := helpOutput{Answer: help.Greeting, Walkthrough: []stepOutput{}}
	for _, st := range help.Walkthrough(v.Title, v.WeakIDs()) {
		out.Walkthrough = append(out.Walkthrough, stepOutput{Title: st.Title, Description: st.Description})
	}
	return nil, out, nil
}

// --- Helpers ---

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

func emptySnapshot() snapshotOutput {
	return snapshotOutput{Elements: []elementOutput{}, Messages: []messageOutput{}}
}

func snapshotToOutput(v session.View) snapshotOutput {
	out := emptySnapshot()
	out.CaseID = v.CaseID
	out.Title = v.Title
	out.Started = v.Started
	out.Pending = proposalToOutput(v.Pending)
	out.Highlight = v.Highlight
	out.JustUpdated = v.JustUpdated
	out.Refinements = v.Refinements
	out.Strong = v.Strong
	out.Weak = v.Weak
	for _, el := range v.Chart {
		out.Elements = append(out.Elements, elementToOutput(el))
	}
	for _, m := range v.Messages {
		out.Messages = append(out.Messages, messageOutput{ID: m.ID, Role: string(m.Role), Content: m.Content})
	}
	return out
}

func elementToOutput(el chart.Element) elementOutput {
	return elementOutput{
		ID:           el.ID,
		ClaimElement: el.ClaimElement,
		Evidence:     el.Evidence,
		Reasoning:    el.Reasoning,
		Confidence:   string(el.Confidence),
		SourceType:   string(el.SourceType),
		Version:      el.Version,
		Changes:      len(el.History),
	}
}

func proposalToOutput(p *proposal.Proposal) *proposalOutput {
	if p == nil {
		return nil
	}
	return &proposalOutput{
		Kind:       string(p.Kind),
		ElementID:  p.ElementID,
		Evidence:   p.Fields.Evidence,
		Reasoning:  p.Fields.Reasoning,
		Confidence: string(p.Fields.Confidence),
		Quality: qualityOutput{
			SourceStrength: p.Quality.SourceStrength,
			ClaimMapping:   p.Quality.ClaimMapping,
			LegalPrecision: p.Quality.LegalPrecision,
		},
	}
}

func lastAssistant(msgs []conversation.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == conversation.RoleAssistant {
			return msgs[i].Content
		}
	}
	return ""
}
