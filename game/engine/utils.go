package engine

// CountTiles counts the non-empty cells of values
func CountTiles(values [][]int) int {
	count := 0
	for _, row := range values {
		for _, v := range row {
			if v != 0 {
				count++
			}
		}
	}
	return count
}

// SimulateMove applies direction to a copy of grid and returns the result with
// the merge locations, leaving grid untouched. No tile is spawned.
func SimulateMove(grid *Grid, direction Direction) (*Grid, []Location) {
	out := grid.Clone()
	if !direction.Valid() {
		return out, nil
	}
	outcome := reduceLines(out, direction)
	return out, outcome.changed
}
