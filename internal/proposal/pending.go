package proposal

// OfferResult reports how Pending handled an offered proposal.
type OfferResult int

const (
	// Installed means the store was empty and now holds the proposal.
	Installed OfferResult = iota
	// Replaced means an outstanding proposal was discarded for the new one.
	Replaced
	// Refused means the store kept its outstanding proposal.
	Refused
)

func (r OfferResult) String() string {
	switch r {
	case Installed:
		return "installed"
	case Replaced:
		return "replaced"
	case Refused:
		return "refused"
	default:
		return "unknown"
	}
}

// Accepted reports whether the offered proposal is now the outstanding one.
func (r OfferResult) Accepted() bool {
	return r == Installed || r == Replaced
}

// Pending holds at most one proposal plus the element highlighted for it.
type Pending struct {
	policy    Policy
	current   *Proposal
	highlight int
}

// NewPending returns an empty store. An unknown policy behaves as overwrite.
func NewPending(policy Policy) *Pending {
	if policy != PolicyReject {
		policy = PolicyOverwrite
	}
	return &Pending{policy: policy}
}

// Policy returns the store's overwrite policy.
func (p *Pending) Policy() Policy {
	return p.policy
}

// Offer installs prop according to the policy. Updates highlight their target
// element; other kinds clear the highlight.
func (p *Pending) Offer(prop Proposal) OfferResult {
	result := Installed
	if p.current != nil {
		if p.policy == PolicyReject {
			return Refused
		}
		result = Replaced
	}
	cp := prop
	p.current = &cp
	p.highlight = 0
	if prop.Kind == KindUpdate {
		p.highlight = prop.ElementID
	}
	return result
}

// Take removes and returns the outstanding proposal, clearing the highlight.
func (p *Pending) Take() (Proposal, bool) {
	if p.current == nil {
		return Proposal{}, false
	}
	prop := *p.current
	p.Clear()
	return prop, true
}

// Current returns the outstanding proposal without removing it.
func (p *Pending) Current() (Proposal, bool) {
	if p.current == nil {
		return Proposal{}, false
	}
	return *p.current, true
}

// Has reports whether a proposal is outstanding.
func (p *Pending) Has() bool {
	return p.current != nil
}

// Highlight returns the highlighted element id, or 0 when none.
func (p *Pending) Highlight() int {
	return p.highlight
}

// Clear drops the outstanding proposal and highlight.
func (p *Pending) Clear() {
	p.current = nil
	p.highlight = 0
}
