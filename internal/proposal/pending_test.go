package proposal

import (
	"testing"

	"github.com/csheth/claimscout/internal/chart"
)

func TestPendingOverwrite(t *testing.T) {
	p := NewPending(PolicyOverwrite)
	if got := p.Offer(Update(3, chart.Fields{Confidence: chart.Strong}, chart.Quality{})); got != Installed {
		t.Fatalf("first offer got %v want installed", got)
	}
	if p.Highlight() != 3 {
		t.Fatalf("highlight got %d want 3", p.Highlight())
	}
	if got := p.Offer(NewElement(chart.Fields{ClaimElement: "x"}, chart.Quality{})); got != Replaced {
		t.Fatalf("second offer got %v want replaced", got)
	}
	if p.Highlight() != 0 {
		t.Fatalf("new element should clear highlight, got %d", p.Highlight())
	}
	cur, ok := p.Current()
	if !ok || cur.Kind != KindNewElement {
		t.Fatalf("current got %+v", cur)
	}
}

func TestPendingReject(t *testing.T) {
	p := NewPending(PolicyReject)
	p.Offer(Update(2, chart.Fields{}, chart.Quality{}))
	if got := p.Offer(Revert(1)); got != Refused || got.Accepted() {
		t.Fatalf("offer while pending got %v want refused", got)
	}
	cur, _ := p.Current()
	if cur.ElementID != 2 || p.Highlight() != 2 {
		t.Fatalf("refusal changed state: %+v highlight %d", cur, p.Highlight())
	}
}

func TestPendingTakeOnce(t *testing.T) {
	p := NewPending(PolicyOverwrite)
	p.Offer(Update(1, chart.Fields{}, chart.Quality{}))
	if _, ok := p.Take(); !ok {
		t.Fatal("take should return the proposal")
	}
	if _, ok := p.Take(); ok {
		t.Fatal("a proposal must not be resolved twice")
	}
	if p.Has() || p.Highlight() != 0 {
		t.Fatal("take should clear proposal and highlight")
	}
}

func TestParsePolicy(t *testing.T) {
	cases := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyOverwrite, false},
		{"overwrite", PolicyOverwrite, false},
		{" Reject ", PolicyReject, false},
		{"queue", "", true},
	}
	for _, tc := range cases {
		got, err := ParsePolicy(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("ParsePolicy(%q) err got %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParsePolicy(%q) got %q want %q", tc.in, got, tc.want)
		}
	}
	if NewPending("bogus").Policy() != PolicyOverwrite {
		t.Fatal("unknown policy should fall back to overwrite")
	}
}
