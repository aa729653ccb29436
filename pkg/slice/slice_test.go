// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mangaverse/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Equal(t, []string{"1", "2"}, slice.Map([]int{1, 2}, strconv.Itoa))
	assert.Nil(t, slice.Map[int, string](nil, strconv.Itoa))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []int{3, 1, 2}, slice.Unique([]int{3, 1, 3, 2, 1}))
	assert.Nil(t, slice.Unique[int](nil))
}

func TestCleanStrings(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		canon func(string) string
		want  []string
	}{
		{"lower", []string{" Action", "action", "", "Drama "}, strings.ToLower, []string{"action", "drama"}},
		{"upper", []string{"Chugong", "CHUGONG", "  "}, strings.ToUpper, []string{"CHUGONG"}},
		{"identity_keeps_case", []string{"Solo Leveling", " Solo Leveling ", "solo leveling"}, nil, []string{"Solo Leveling", "solo leveling"}},
		{"empty", nil, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slice.CleanStrings(tt.input, tt.canon))
		})
	}
}
