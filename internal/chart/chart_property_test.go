package chart

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func genFields(t *rapid.T, label string) Fields {
	confidences := []Confidence{Strong, Moderate, Weak}
	return Fields{
		Evidence:   rapid.StringN(0, 12, -1).Draw(t, label+"-evidence"),
		Reasoning:  rapid.StringN(0, 12, -1).Draw(t, label+"-reasoning"),
		Confidence: rapid.SampledFrom(confidences).Draw(t, label+"-confidence"),
	}
}

// Every accepted update or undo advances exactly one element by one version
// and keeps the history bookkeeping consistent.
func TestVersionMonotonicity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := New(seedElements())
		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			id := rapid.IntRange(1, c.Len()).Draw(t, fmt.Sprintf("id%d", i))
			before, _ := c.Element(id)

			var applied bool
			switch rapid.IntRange(0, 2).Draw(t, fmt.Sprintf("op%d", i)) {
			case 0:
				applied = c.ApplyUpdate(id, genFields(t, fmt.Sprintf("update%d", i)))
			case 1:
				applied = c.ApplyUndo(id)
			default:
				c.ApplyNewElement(genFields(t, fmt.Sprintf("new%d", i)))
				continue
			}

			after, _ := c.Element(id)
			if applied && after.Version != before.Version+1 {
				t.Fatalf("element %d version %d -> %d", id, before.Version, after.Version)
			}
			if !applied && after.Version != before.Version {
				t.Fatalf("no-op changed version of element %d", id)
			}
			for _, el := range c.Elements() {
				if err := el.CheckInvariant(); err != nil {
					t.Fatal(err)
				}
			}
		}
	})
}

// Undo after any run of updates restores exactly the popped snapshot.
func TestUndoRestoresPriorSnapshot(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := New(seedElements())
		id := rapid.IntRange(1, c.Len()).Draw(t, "id")
		updates := rapid.IntRange(1, 6).Draw(t, "updates")
		var states []Snapshot
		for i := 0; i < updates; i++ {
			el, _ := c.Element(id)
			states = append(states, el.Snapshot())
			c.ApplyUpdate(id, genFields(t, fmt.Sprintf("u%d", i)))
		}
		for i := len(states) - 1; i >= 0; i-- {
			if !c.ApplyUndo(id) {
				t.Fatalf("undo %d refused", i)
			}
			el, _ := c.Element(id)
			if el.Snapshot() != states[i] {
				t.Fatalf("undo restored %+v want %+v", el.Snapshot(), states[i])
			}
		}
		if c.ApplyUndo(id) {
			t.Fatal("history should be exhausted")
		}
	})
}

func TestNewElementIDIsLenPlusOne(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := New(seedElements())
		adds := rapid.IntRange(1, 10).Draw(t, "adds")
		for i := 0; i < adds; i++ {
			n := c.Len()
			el := c.ApplyNewElement(genFields(t, fmt.Sprintf("n%d", i)))
			if el.ID != n+1 {
				t.Fatalf("new id %d want %d", el.ID, n+1)
			}
		}
		if got := len(c.ExportRows()); got != c.Len() {
			t.Fatalf("export rows %d want %d", got, c.Len())
		}
	})
}
