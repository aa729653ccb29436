// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps the standard UUID library to generate Version 7 values, which keep
B-tree indexes on primary keys append-mostly in PostgreSQL.
*/
package uuid

import (
	"strings"

	"github.com/google/uuid"
)

// # Generators

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// Short returns 8 random hex characters, used as a public id suffix.
//
// The leading bytes of a v7 value are a timestamp, so the random v4 form is used here.
func Short() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
