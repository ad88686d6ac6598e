// Package catalog holds the static patent cases a session can be started
// from, together with the canned suggestions that stand in for inference.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/csheth/claimscout/internal/chart"
	"github.com/csheth/claimscout/internal/intent"
)

//go:embed cases.yaml
var embeddedCases []byte

// ElementPlaceholder is replaced by the target element id in messages.
const ElementPlaceholder = "{eId}"

// Template is the canned suggestion a case returns for one intent.
type Template struct {
	ElementID int           `yaml:"element_id"`
	Fields    chart.Fields  `yaml:"fields"`
	Quality   chart.Quality `yaml:"quality"`
	Message   string        `yaml:"message"`
}

// Render returns the template message with the element placeholder filled in.
func (t Template) Render() string {
	return strings.ReplaceAll(t.Message, ElementPlaceholder, strconv.Itoa(t.ElementID))
}

// Case is one immutable patent matter. Callers must treat every field as
// read-only; use SeedChart to obtain a mutable chart.
type Case struct {
	ID              string                     `yaml:"id"`
	Title           string                     `yaml:"title"`
	Short           string                     `yaml:"short"`
	Patent          string                     `yaml:"patent"`
	Defendant       string                     `yaml:"defendant"`
	Product         string                     `yaml:"product"`
	Documents       []string                   `yaml:"documents"`
	InitMessage     string                     `yaml:"init_message"`
	AnalysisMessage string                     `yaml:"analysis_message"`
	Chart           []chart.Element            `yaml:"chart"`
	Responses       map[intent.Intent]Template `yaml:"responses"`
}

// SeedChart returns a fresh chart instantiated from the case's seed rows.
func (c *Case) SeedChart() *chart.Chart {
	return chart.New(c.Chart)
}

// Response returns the canned template for in, if the case defines one.
func (c *Case) Response(in intent.Intent) (Template, bool) {
	t, ok := c.Responses[in]
	return t, ok
}

// Catalog indexes cases by id while keeping their declaration order.
type Catalog struct {
	cases []*Case
	byID  map[string]*Case
}

type document struct {
	Cases []*Case `yaml:"cases"`
}

// Load parses and validates a YAML catalog.
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Cases) == 0 {
		return nil, errors.New("catalog has no cases")
	}
	cat := &Catalog{byID: make(map[string]*Case, len(doc.Cases))}
	for _, c := range doc.Cases {
		if err := validateCase(c); err != nil {
			return nil, err
		}
		if _, dup := cat.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate case id %q", c.ID)
		}
		for i := range c.Chart {
			c.Chart[i].Version = 1
			c.Chart[i].History = nil
		}
		cat.byID[c.ID] = c
		cat.cases = append(cat.cases, c)
	}
	return cat, nil
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Load(bytes.NewReader(embeddedCases))
})

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return loadDefault()
}

// Cases returns every case in declaration order.
func (c *Catalog) Cases() []*Case {
	return append([]*Case(nil), c.cases...)
}

// IDs returns the case ids in declaration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.cases))
	for _, cs := range c.cases {
		ids = append(ids, cs.ID)
	}
	return ids
}

// Lookup finds a case by id.
func (c *Catalog) Lookup(id string) (*Case, bool) {
	cs, ok := c.byID[id]
	return cs, ok
}

// Response implements the intent response table consumed by the proposal
// generator.
func (c *Catalog) Response(caseID string, in intent.Intent) (Template, bool) {
	cs, ok := c.byID[caseID]
	if !ok {
		return Template{}, false
	}
	return cs.Response(in)
}

var requiredResponses = []intent.Intent{
	intent.Strengthen,
	intent.FixReasoning,
	intent.AddMissing,
	intent.ClarifyLegal,
}

func validateCase(c *Case) error {
	if c == nil || strings.TrimSpace(c.ID) == "" {
		return errors.New("case id is required")
	}
	if len(c.Chart) == 0 {
		return fmt.Errorf("case %s: chart is empty", c.ID)
	}
	seedIDs := map[int]bool{}
	for i, el := range c.Chart {
		if el.ID != i+1 {
			return fmt.Errorf("case %s: element %d has id %d, want %d", c.ID, i, el.ID, i+1)
		}
		if !el.Confidence.Valid() {
			return fmt.Errorf("case %s: element %d has invalid confidence %q", c.ID, el.ID, el.Confidence)
		}
		if !el.SourceType.Valid() {
			return fmt.Errorf("case %s: element %d has invalid source type %q", c.ID, el.ID, el.SourceType)
		}
		if el.Version > 1 {
			return fmt.Errorf("case %s: seed element %d must start at version 1", c.ID, el.ID)
		}
		seedIDs[el.ID] = true
	}
	for in := range c.Responses {
		if _, err := intent.Parse(string(in)); err != nil {
			return fmt.Errorf("case %s: %w", c.ID, err)
		}
		if !in.ProducesProposal() || in == intent.Undo {
			return fmt.Errorf("case %s: intent %q cannot carry a canned response", c.ID, in)
		}
	}
	for _, in := range requiredResponses {
		t, ok := c.Responses[in]
		if !ok {
			return fmt.Errorf("case %s: missing %s response", c.ID, in)
		}
		if in.Updates() && !seedIDs[t.ElementID] {
			return fmt.Errorf("case %s: %s targets unknown element %d", c.ID, in, t.ElementID)
		}
		if in == intent.AddMissing && strings.TrimSpace(t.Fields.ClaimElement) == "" {
			return fmt.Errorf("case %s: %s needs a claim element", c.ID, in)
		}
		if !t.Fields.Confidence.Valid() {
			return fmt.Errorf("case %s: %s has invalid confidence %q", c.ID, in, t.Fields.Confidence)
		}
		if t.Fields.SourceType != "" && !t.Fields.SourceType.Valid() {
			return fmt.Errorf("case %s: %s has invalid source type %q", c.ID, in, t.Fields.SourceType)
		}
		if !t.Quality.Valid() {
			return fmt.Errorf("case %s: %s quality scores out of range", c.ID, in)
		}
	}
	return nil
}
