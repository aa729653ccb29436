// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package genre is the Genre Registry: an upsert-or-ignore store of
// canonical lowercase genre names.
package genre

import (
	"strings"

	"github.com/taibuivan/mangaverse/pkg/slice"
)

// Genre is a canonical, immutable genre identity.
type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Normalize returns the canonical key for a scraped genre label.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeAll lower-cases and deduplicates names, dropping blanks.
// Order of first appearance is kept.
func NormalizeAll(names []string) []string {
	return slice.CleanStrings(names, strings.ToLower)
}
