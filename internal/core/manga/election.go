// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package manga

// Decision is the outcome of a main-record election.
type Decision int

const (
	// DecisionStandalone: no candidate shares a title; the new work is main of its own group.
	DecisionStandalone Decision = iota

	// DecisionSameTrust: the candidate's source has equal priority; treated as a different work.
	DecisionSameTrust

	// DecisionFollow: the new work is less trusted; it joins the group as non-main.
	DecisionFollow

	// DecisionTakeOver: the new work is more trusted; it joins the group and becomes main.
	DecisionTakeOver
)

// String implements [fmt.Stringer].
func (d Decision) String() string {
	switch d {
	case DecisionStandalone:
		return "standalone"
	case DecisionSameTrust:
		return "same_trust"
	case DecisionFollow:
		return "follow"
	case DecisionTakeOver:
		return "take_over"
	}
	return "unknown"
}

// JoinsGroup reports whether the new work adopts the candidate's linked id.
func (d Decision) JoinsGroup() bool {
	return d == DecisionFollow || d == DecisionTakeOver
}

// BecomesMain reports whether the new work ends up as its group's main record.
func (d Decision) BecomesMain() bool {
	return d != DecisionFollow
}

// Elect decides the new work's place given its source priority and the matched
// candidate, which may be nil. Lower priority values are more trusted.
func Elect(priority int, candidate *Candidate) Decision {
	switch {
	case candidate == nil:
		return DecisionStandalone
	case priority == candidate.Priority:
		return DecisionSameTrust
	case priority > candidate.Priority:
		return DecisionFollow
	default:
		return DecisionTakeOver
	}
}
