package help

import (
	"strings"
	"testing"
)

func TestRespond(t *testing.T) {
	cases := []struct {
		query string
		want  string
	}{
		{"How do I export to word?", "claimscout exports **Word (.doc)**"},
		{"what does WEAK mean", "Type a message like **'Strengthen"},
		{"how to review suggestions", "When the assistant suggests a change"},
		{"undo please", "Type **'Undo'**"},
		{"what do quality scores mean?", "Quality scores measure"},
		{"source tags", "Source tags show evidence origin"},
		{"keyboard shortcut list", "**Enter** sends"},
		{"tell me a joke", "I'm here to help!"},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			if got := Respond(tc.query); !strings.HasPrefix(got, tc.want) {
				t.Fatalf("Respond(%q) got %q want prefix %q", tc.query, got, tc.want)
			}
		})
	}
}

func TestRespondFirstTopicWins(t *testing.T) {
	// "export" and "pdf" both match; the format topic is listed first.
	if got := Respond("export pdf"); !strings.HasPrefix(got, "claimscout exports") {
		t.Fatalf("got %q", got)
	}
}

func TestTopicsIsACopy(t *testing.T) {
	ts := Topics()
	ts[0].Keys[0] = "mutated"
	if Topics()[0].Keys[0] == "mutated" {
		t.Fatal("topics table mutated through copy")
	}
}

func TestWalkthrough(t *testing.T) {
	steps := Walkthrough("US123456 vs. Acme Corp Thermostat", []int{3})
	if len(steps) != 5 {
		t.Fatalf("steps got %d want 5", len(steps))
	}
	if !strings.Contains(steps[0].Description, "Acme Corp Thermostat") {
		t.Fatalf("first step not tailored: %q", steps[0].Description)
	}
	if !strings.Contains(steps[1].Description, "element 3") {
		t.Fatalf("focus step got %q", steps[1].Description)
	}
	if generic := Walkthrough("  ", nil); !strings.Contains(generic[0].Description, "the chart") ||
		!strings.Contains(generic[1].Description, "the weakest element") {
		t.Fatalf("generic walkthrough got %+v", generic[:2])
	}
}

func TestRenderSteps(t *testing.T) {
	got := RenderSteps([]Step{{Title: "One", Description: "first"}, {Title: "Two", Description: "second"}})
	want := "1. **One**: first\n2. **Two**: second"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if RenderSteps(nil) != "" {
		t.Fatal("empty walkthrough should render empty")
	}
}
