// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package source manages content source identities and their trust priority.
//
// A source row is created lazily the first time a run sees its name and is
// never mutated afterwards, so the priority recorded at creation is the one
// every later election uses.
package source

// Source is a scraped content site.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Priority is the trust rank. Lower values are more trusted.
	Priority int `json:"priority"`
}

// MoreTrustedThan reports whether s wins a main-record election against other.
func (s *Source) MoreTrustedThan(other *Source) bool {
	return s.Priority < other.Priority
}
