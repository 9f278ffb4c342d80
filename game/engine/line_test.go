package engine

import (
	"reflect"
	"testing"
)

func TestProcessLine(t *testing.T) {
	tests := []struct {
		name     string
		input    []int
		values   []int
		merged   []int
		shifts   []LineShift
		maxMerge int
	}{
		{
			name:   "empty line",
			input:  []int{0, 0, 0, 0},
			values: []int{0, 0, 0, 0},
		},
		{
			name:   "no merge needed",
			input:  []int{2, 4, 8, 16},
			values: []int{2, 4, 8, 16},
		},
		{
			name:   "alternating values stay",
			input:  []int{2, 4, 2, 4},
			values: []int{2, 4, 2, 4},
		},
		{
			name:   "chain does not cascade",
			input:  []int{2, 2, 2, 2},
			values: []int{4, 4, 0, 0},
			merged: []int{0, 1},
			shifts: []LineShift{
				{From: 1, To: 0, Merged: true},
				{From: 2, To: 1},
				{From: 3, To: 1, Merged: true},
			},
			maxMerge: 4,
		},
		{
			name:     "merge with gaps",
			input:    []int{0, 2, 0, 2},
			values:   []int{4, 0, 0, 0},
			merged:   []int{0},
			shifts:   []LineShift{{From: 1, To: 0}, {From: 3, To: 0, Merged: true}},
			maxMerge: 4,
		},
		{
			name:     "three same values",
			input:    []int{2, 2, 2, 0},
			values:   []int{4, 2, 0, 0},
			merged:   []int{0},
			shifts:   []LineShift{{From: 1, To: 0, Merged: true}, {From: 2, To: 1}},
			maxMerge: 4,
		},
		{
			name:   "shift only",
			input:  []int{0, 0, 0, 2},
			values: []int{2, 0, 0, 0},
			shifts: []LineShift{{From: 3, To: 0}},
		},
		{
			name:   "two merges",
			input:  []int{4, 4, 8, 8},
			values: []int{8, 16, 0, 0},
			merged: []int{0, 1},
			shifts: []LineShift{
				{From: 1, To: 0, Merged: true},
				{From: 2, To: 1},
				{From: 3, To: 1, Merged: true},
			},
			maxMerge: 16,
		},
		{
			name:     "merge then slide",
			input:    []int{8, 0, 8, 4},
			values:   []int{16, 4, 0, 0},
			merged:   []int{0},
			shifts:   []LineShift{{From: 2, To: 0, Merged: true}, {From: 3, To: 1}},
			maxMerge: 16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ProcessLine(tt.input)
			if !reflect.DeepEqual(result.Values, tt.values) {
				t.Errorf("ProcessLine(%v).Values = %v, want %v", tt.input, result.Values, tt.values)
			}
			if !reflect.DeepEqual(result.Merged, tt.merged) {
				t.Errorf("ProcessLine(%v).Merged = %v, want %v", tt.input, result.Merged, tt.merged)
			}
			if !reflect.DeepEqual(result.Shifts, tt.shifts) {
				t.Errorf("ProcessLine(%v).Shifts = %+v, want %+v", tt.input, result.Shifts, tt.shifts)
			}
			if result.MaxMerge != tt.maxMerge {
				t.Errorf("ProcessLine(%v).MaxMerge = %d, want %d", tt.input, result.MaxMerge, tt.maxMerge)
			}
			wantChanged := len(tt.shifts) > 0 || len(tt.merged) > 0
			if result.Changed() != wantChanged {
				t.Errorf("Changed() = %v, want %v", result.Changed(), wantChanged)
			}
		})
	}
}

func TestProcessLineDoesNotModifyInput(t *testing.T) {
	input := []int{2, 2, 0, 4}
	ProcessLine(input)
	if !reflect.DeepEqual(input, []int{2, 2, 0, 4}) {
		t.Errorf("input modified: %v", input)
	}
}

func TestProcessLineProperties(t *testing.T) {
	rng := NewRand(7)
	choices := []int{0, 0, 2, 2, 4, 8}

	for n := 0; n < 2000; n++ {
		line := make([]int, 2+rng.Intn(5))
		for i := range line {
			line[i] = choices[rng.Intn(len(choices))]
		}

		result := ProcessLine(line)

		if len(result.Values) != len(line) {
			t.Fatalf("ProcessLine(%v) changed length to %d", line, len(result.Values))
		}

		// Tile conservation: each merge removes exactly one tile
		before, after := countNonZero(line), countNonZero(result.Values)
		if after != before-len(result.Merged) {
			t.Fatalf("ProcessLine(%v) = %v: %d tiles, want %d", line, result.Values, after, before-len(result.Merged))
		}

		// Left-packed: no zero before a tile
		seenZero := false
		for _, v := range result.Values {
			if v == 0 {
				seenZero = true
			} else if seenZero {
				t.Fatalf("ProcessLine(%v) = %v is not left-packed", line, result.Values)
			}
		}

		// Without merges, compaction keeps the relative order
		if len(result.Merged) == 0 {
			if !reflect.DeepEqual(nonZero(line), nonZero(result.Values)) {
				t.Fatalf("ProcessLine(%v) = %v reordered tiles", line, result.Values)
			}
		}

		// Every shift moves toward index 0 and lands on a tile
		for _, s := range result.Shifts {
			if s.To >= s.From {
				t.Fatalf("ProcessLine(%v): shift %+v does not move forward", line, s)
			}
			if result.Values[s.To] == 0 {
				t.Fatalf("ProcessLine(%v): shift %+v lands on an empty cell", line, s)
			}
		}
	}
}

func countNonZero(line []int) int {
	return len(nonZero(line))
}

func nonZero(line []int) []int {
	var out []int
	for _, v := range line {
		if v != 0 {
			out = append(out, v)
		}
	}
	return out
}
