// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

// Pair matches a stored chapter with the fresh chapter that replaces it.
type Pair struct {
	Position int
	Stored   *Chapter
	Fresh    *Chapter
}

// Placement is a brand-new chapter and the reading position it takes.
type Placement struct {
	Position int
	Chapter  *Chapter
}

// Plan is the structural outcome of matching two chapter lists.
type Plan struct {
	Pairs   []Pair
	Added   []Placement
	Removed []*Chapter
}

// Differ matches a stored chapter list against a fresh one.
type Differ interface {
	Plan(stored, fresh []Chapter) Plan
}

/*
PositionalDiffer matches chapters by index.

It assumes sources only ever append or truncate at the end of their list in a
stable order. A reordering or a mid-list insertion shows up as metadata and page
changes on every shifted position.
*/
type PositionalDiffer struct{}

// Plan pairs the common prefix, appends the fresh tail and drops the stored tail.
func (PositionalDiffer) Plan(stored, fresh []Chapter) Plan {
	shared := min(len(stored), len(fresh))

	plan := Plan{Pairs: make([]Pair, 0, shared)}
	for i := 0; i < shared; i++ {
		plan.Pairs = append(plan.Pairs, Pair{Position: i, Stored: &stored[i], Fresh: &fresh[i]})
	}

	for i := shared; i < len(fresh); i++ {
		plan.Added = append(plan.Added, Placement{Position: i, Chapter: &fresh[i]})
	}

	for i := shared; i < len(stored); i++ {
		plan.Removed = append(plan.Removed, &stored[i])
	}

	return plan
}
