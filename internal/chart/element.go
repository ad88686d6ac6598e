package chart

import "fmt"

// Confidence grades how well the evidence supports a claim element.
type Confidence string

const (
	Strong   Confidence = "strong"
	Moderate Confidence = "moderate"
	Weak     Confidence = "weak"
)

// Valid reports whether c is one of the known confidence levels.
func (c Confidence) Valid() bool {
	switch c {
	case Strong, Moderate, Weak:
		return true
	}
	return false
}

// Label returns the title-cased form used in the chart panel.
func (c Confidence) Label() string {
	switch c {
	case Strong:
		return "Strong"
	case Moderate:
		return "Moderate"
	case Weak:
		return "Weak"
	default:
		return string(c)
	}
}

// SourceType names where a piece of evidence came from.
type SourceType string

const (
	ProductPage SourceType = "product_page"
	TechSpec    SourceType = "tech_spec"
	Marketing   SourceType = "marketing"
	Regulatory  SourceType = "regulatory"
	Teardown    SourceType = "teardown"
)

// Valid reports whether s is one of the known source types.
func (s SourceType) Valid() bool {
	switch s {
	case ProductPage, TechSpec, Marketing, Regulatory, Teardown:
		return true
	}
	return false
}

// Label returns the display tag for s. Unknown types render as a product page.
func (s SourceType) Label() string {
	switch s {
	case TechSpec:
		return "Tech Spec"
	case Marketing:
		return "Marketing"
	case Regulatory:
		return "FCC/Regulatory"
	case Teardown:
		return "Teardown"
	default:
		return "Product Page"
	}
}

// Snapshot is one prior state of an element kept in its history.
type Snapshot struct {
	Evidence   string     `json:"evidence" yaml:"evidence"`
	Reasoning  string     `json:"reasoning" yaml:"reasoning"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
}

// Element is a single row of the claim chart.
type Element struct {
	ID           int        `json:"id" yaml:"id"`
	ClaimElement string     `json:"claimElement" yaml:"claim_element"`
	Evidence     string     `json:"evidence" yaml:"evidence"`
	Reasoning    string     `json:"reasoning" yaml:"reasoning"`
	Confidence   Confidence `json:"confidence" yaml:"confidence"`
	SourceType   SourceType `json:"sourceType" yaml:"source_type"`
	Version      int        `json:"version" yaml:"version,omitempty"`
	History      []Snapshot `json:"history" yaml:"-"`
	// Reverts counts accepted undos. Each one advances Version while
	// shrinking History, so len(History)+2*Reverts == Version-1.
	Reverts int `json:"reverts,omitempty" yaml:"-"`
}

// Snapshot captures the mutable columns of e.
func (e Element) Snapshot() Snapshot {
	return Snapshot{Evidence: e.Evidence, Reasoning: e.Reasoning, Confidence: e.Confidence}
}

// Clone returns a copy of e that shares no history storage with it.
func (e Element) Clone() Element {
	out := e
	out.History = append([]Snapshot(nil), e.History...)
	return out
}

// CheckInvariant verifies the version/history bookkeeping of e.
func (e Element) CheckInvariant() error {
	if e.Version < 1 {
		return fmt.Errorf("element %d: version %d below 1", e.ID, e.Version)
	}
	if got := len(e.History) + 2*e.Reverts; got != e.Version-1 {
		return fmt.Errorf("element %d: history %d with %d reverts does not match version %d", e.ID, len(e.History), e.Reverts, e.Version)
	}
	return nil
}

// Fields carries the replacement columns of an update or the contents of a
// new element. ClaimElement is ignored by updates.
type Fields struct {
	ClaimElement string     `json:"claimElement,omitempty" yaml:"claim_element,omitempty"`
	Evidence     string     `json:"evidence" yaml:"evidence"`
	Reasoning    string     `json:"reasoning" yaml:"reasoning"`
	Confidence   Confidence `json:"confidence" yaml:"confidence"`
	SourceType   SourceType `json:"sourceType,omitempty" yaml:"source_type,omitempty"`
}

// Quality is the informational score triple attached to a suggestion.
type Quality struct {
	SourceStrength int `json:"sourceStrength" yaml:"source_strength"`
	ClaimMapping   int `json:"claimMapping" yaml:"claim_mapping"`
	LegalPrecision int `json:"legalPrecision" yaml:"legal_precision"`
}

// Valid reports whether every score lies in [0,100].
func (q Quality) Valid() bool {
	for _, v := range []int{q.SourceStrength, q.ClaimMapping, q.LegalPrecision} {
		if v < 0 || v > 100 {
			return false
		}
	}
	return true
}

// Row is the flat projection handed to document exporters.
type Row struct {
	ID           int        `json:"id"`
	ClaimElement string     `json:"claimElement"`
	Evidence     string     `json:"evidence"`
	Reasoning    string     `json:"reasoning"`
	Confidence   Confidence `json:"confidence"`
	Version      int        `json:"version"`
}
