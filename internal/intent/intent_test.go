package intent

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		message string
		want    Intent
	}{
		{"Strengthen evidence for element 3", Strengthen},
		{"the ML claim is WEAK", Strengthen},
		{"look at element 3 please", Strengthen},
		{"Fix reasoning for element 1", FixReasoning},
		{"reasoning on element 1 is thin", FixReasoning},
		{"Add missing element", AddMissing},
		{"what about the temperature sensor?", AddMissing},
		{"Clarify legal for element 2", ClarifyLegal},
		{"legal language", ClarifyLegal},
		{"Undo", Undo},
		{"revert the last change", Undo},
		{"Export to Word", Export},
		{"download csv", Export},
		{"hello there", General},
		{"", General},
	}
	for _, tc := range cases {
		if got := Classify(tc.message); got != tc.want {
			t.Fatalf("Classify(%q) got %s want %s", tc.message, got, tc.want)
		}
	}
}

func TestClassifyPriority(t *testing.T) {
	cases := []struct {
		message string
		want    Intent
	}{
		{"strengthen then export", Strengthen},
		{"fix element 2 legal wording", FixReasoning},
		{"undo and export", Undo},
		// "address" contains "add", which outranks clarify rules.
		{"address the legal gap in element 2", AddMissing},
		// "reasoning" without "element 1" does not trigger fix_reasoning.
		{"reasoning for element 2", ClarifyLegal},
	}
	for _, tc := range cases {
		if got := Classify(tc.message); got != tc.want {
			t.Fatalf("Classify(%q) got %s want %s", tc.message, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	for _, in := range All() {
		got, err := Parse(string(in))
		if err != nil || got != in {
			t.Fatalf("Parse(%q) got %q, %v", in, got, err)
		}
	}
	if _, err := Parse("summarize"); err == nil {
		t.Fatal("unknown intent should fail to parse")
	}
}

func TestProducesProposal(t *testing.T) {
	for _, in := range []Intent{Export, General} {
		if in.ProducesProposal() {
			t.Fatalf("%s should not produce a proposal", in)
		}
	}
	for _, in := range []Intent{Strengthen, FixReasoning, AddMissing, ClarifyLegal, Undo} {
		if !in.ProducesProposal() {
			t.Fatalf("%s should produce a proposal", in)
		}
	}
}
