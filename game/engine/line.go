package engine

// LineShift records where a tile of the input line ended up.
// Merged marks the tile that was absorbed into the merge at To.
type LineShift struct {
	From   int
	To     int
	Merged bool
}

// LineResult is the outcome of pushing one line toward index 0
type LineResult struct {
	// Values is the final line, same length as the input
	Values []int
	// Merged holds the indices of Values produced by a merge
	Merged []int
	// Shifts lists every tile whose index changed
	Shifts []LineShift
	// MaxMerge is the largest value produced by a merge, 0 when nothing merged
	MaxMerge int
}

// Changed reports whether any tile moved or merged
func (r LineResult) Changed() bool {
	return len(r.Shifts) > 0 || len(r.Merged) > 0
}

// ProcessLine pushes all tiles of line toward index 0: zeros are removed, equal
// neighbours merge once from the front, and the gaps left by merges are closed.
// The input is not modified.
func ProcessLine(line []int) LineResult {
	packed, packedFrom := compact(line)
	mergedAt, maxMerge := mergeAdjacent(packed)
	final, finalFrom := compact(packed)

	// slot maps a packed index to its index in the final line, -1 for the
	// partners zeroed by a merge.
	slot := make([]int, len(packed))
	for i := range slot {
		slot[i] = -1
	}
	for to, from := range finalFrom {
		slot[from] = to
	}

	result := LineResult{
		Values:   final,
		MaxMerge: maxMerge,
	}

	for _, i := range mergedAt {
		result.Merged = append(result.Merged, slot[i])
	}

	for p, origin := range packedFrom {
		to, absorbed := slot[p], false
		if to < 0 {
			// merge partners always sit right after the surviving tile
			to, absorbed = slot[p-1], true
		}
		if to != origin {
			result.Shifts = append(result.Shifts, LineShift{From: origin, To: to, Merged: absorbed})
		}
	}

	return result
}

// compact left-packs the non-zero values of line, padding with zeros.
// from[k] is the index in line of packed[k].
func compact(line []int) (packed []int, from []int) {
	packed = make([]int, len(line))
	idx := 0
	for i, v := range line {
		if v != 0 {
			packed[idx] = v
			from = append(from, i)
			idx++
		}
	}
	return packed, from
}

// mergeAdjacent doubles packed[i] and zeroes packed[i+1] for every equal pair,
// scanning once from the front. A doubled value is never merged again in the
// same pass.
func mergeAdjacent(packed []int) (mergedAt []int, maxMerge int) {
	for i := 0; i+1 < len(packed); i++ {
		if packed[i] != 0 && packed[i] == packed[i+1] {
			packed[i] *= 2
			packed[i+1] = 0
			mergedAt = append(mergedAt, i)
			if packed[i] > maxMerge {
				maxMerge = packed[i]
			}
			i++
		}
	}
	return mergedAt, maxMerge
}

func reverseLine(line []int) []int {
	out := make([]int, len(line))
	for i, v := range line {
		out[len(line)-1-i] = v
	}
	return out
}
