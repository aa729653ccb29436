// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with the generic
helpers the scraping and registry code keeps reaching for.
*/
package slice

import "strings"

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}

	return result
}

// Unique drops repeated elements, keeping the first occurrence of each.
func Unique[T comparable](input []T) []T {
	if input == nil {
		return nil
	}

	seen := make(map[T]struct{}, len(input))
	result := make([]T, 0, len(input))
	for _, v := range input {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

/*
CleanStrings trims every entry, applies canon, drops blanks and then drops
duplicates. Order of first appearance is kept. A nil canon leaves entries as
trimmed.

Example:

	CleanStrings([]string{" Action", "action", ""}, strings.ToLower) // ["action"]
*/
func CleanStrings(input []string, canon func(string) string) []string {
	result := make([]string, 0, len(input))
	for _, v := range input {
		v = strings.TrimSpace(v)
		if canon != nil {
			v = canon(v)
		}
		if v != "" {
			result = append(result, v)
		}
	}
	return Unique(result)
}
