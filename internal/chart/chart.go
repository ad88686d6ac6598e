// Package chart holds the versioned claim chart of a refinement session.
package chart

// Chart is the authoritative, ordered collection of claim elements. It is
// owned by a single session and is not safe for concurrent use.
type Chart struct {
	elements []Element
}

// New builds a chart from seed elements. Seeds are deep-copied and reset to
// version 1 with an empty history so the caller's data is never shared.
func New(seed []Element) *Chart {
	elements := make([]Element, 0, len(seed))
	for _, el := range seed {
		el = el.Clone()
		el.Version = 1
		el.History = nil
		el.Reverts = 0
		elements = append(elements, el)
	}
	return &Chart{elements: elements}
}

// Len returns the number of elements.
func (c *Chart) Len() int {
	return len(c.elements)
}

// Elements returns deep copies of every element in chart order.
func (c *Chart) Elements() []Element {
	out := make([]Element, len(c.elements))
	for i, el := range c.elements {
		out[i] = el.Clone()
	}
	return out
}

// Element looks up an element by id.
func (c *Chart) Element(id int) (Element, bool) {
	idx := c.index(id)
	if idx < 0 {
		return Element{}, false
	}
	return c.elements[idx].Clone(), true
}

func (c *Chart) index(id int) int {
	for i := range c.elements {
		if c.elements[i].ID == id {
			return i
		}
	}
	return -1
}

// ApplyUpdate pushes the element's current state onto its history, replaces
// evidence, reasoning and confidence, and advances the version. An empty
// source type keeps the existing one. It reports false when id is unknown.
func (c *Chart) ApplyUpdate(id int, f Fields) bool {
	idx := c.index(id)
	if idx < 0 {
		return false
	}
	el := &c.elements[idx]
	el.History = append(el.History, el.Snapshot())
	el.Evidence = f.Evidence
	el.Reasoning = f.Reasoning
	el.Confidence = f.Confidence
	if f.SourceType != "" {
		el.SourceType = f.SourceType
	}
	el.Version++
	return true
}

// ApplyNewElement appends an element with id Len()+1 at version 1.
func (c *Chart) ApplyNewElement(f Fields) Element {
	source := f.SourceType
	if source == "" {
		source = TechSpec
	}
	el := Element{
		ID:           len(c.elements) + 1,
		ClaimElement: f.ClaimElement,
		Evidence:     f.Evidence,
		Reasoning:    f.Reasoning,
		Confidence:   f.Confidence,
		SourceType:   source,
		Version:      1,
	}
	c.elements = append(c.elements, el)
	return el.Clone()
}

// ApplyUndo pops the newest history entry of id and restores it. Undo is a
// forward step: the version still advances. It reports false when id is
// unknown or has nothing to restore.
func (c *Chart) ApplyUndo(id int) bool {
	idx := c.index(id)
	if idx < 0 {
		return false
	}
	el := &c.elements[idx]
	if len(el.History) == 0 {
		return false
	}
	last := el.History[len(el.History)-1]
	el.History = el.History[:len(el.History)-1]
	el.Evidence = last.Evidence
	el.Reasoning = last.Reasoning
	el.Confidence = last.Confidence
	el.Version++
	el.Reverts++
	return true
}

// FirstWithHistory returns the first element, in chart order, that has at
// least one history entry.
func (c *Chart) FirstWithHistory() (Element, bool) {
	for _, el := range c.elements {
		if len(el.History) > 0 {
			return el.Clone(), true
		}
	}
	return Element{}, false
}

// CountByConfidence counts elements graded conf.
func (c *Chart) CountByConfidence(conf Confidence) int {
	n := 0
	for _, el := range c.elements {
		if el.Confidence == conf {
			n++
		}
	}
	return n
}

// Filter returns copies of the elements graded conf.
func (c *Chart) Filter(conf Confidence) []Element {
	var out []Element
	for _, el := range c.elements {
		if el.Confidence == conf {
			out = append(out, el.Clone())
		}
	}
	return out
}

// Refinements sums version-1 across all elements.
func (c *Chart) Refinements() int {
	total := 0
	for _, el := range c.elements {
		total += el.Version - 1
	}
	return total
}

// ExportRows projects the chart into exporter rows without mutating it.
func (c *Chart) ExportRows() []Row {
	rows := make([]Row, 0, len(c.elements))
	for _, el := range c.elements {
		rows = append(rows, Row{
			ID:           el.ID,
			ClaimElement: el.ClaimElement,
			Evidence:     el.Evidence,
			Reasoning:    el.Reasoning,
			Confidence:   el.Confidence,
			Version:      el.Version,
		})
	}
	return rows
}

// Clone returns an independent copy of the chart.
func (c *Chart) Clone() *Chart {
	return &Chart{elements: c.Elements()}
}
