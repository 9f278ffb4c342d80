package engine

// Move pushes every tile toward direction. It does nothing once the game is
// over or when direction is not one of the four cardinal directions.
func (e *GameEngine) Move(direction Direction) {
	if e.isOver || !direction.Valid() {
		return
	}

	e.previousGrid = e.grid.Clone()
	e.changed = nil
	e.moveSteps = nil
	e.isChanged = false

	outcome := reduceLines(e.grid, direction)
	e.changed = outcome.changed
	e.moveSteps = outcome.steps

	if outcome.maxMerge > e.currentScore {
		e.currentScore = outcome.maxMerge
	}
	if e.currentScore > e.bestScore {
		e.bestScore = e.currentScore
	}

	e.isChanged = e.grid.DiffersFrom(e.previousGrid)

	if e.checkOver() {
		e.isOver = true
	}
}

// moveOutcome accumulates the per-line results of one move in grid coordinates
type moveOutcome struct {
	changed  []Location
	steps    []MoveStep
	maxMerge int
}

// reduceLines runs ProcessLine over every row or column of grid, one line after
// the other, writing each result back and folding its merges and shifts into
// a single outcome.
func reduceLines(grid *Grid, direction Direction) moveOutcome {
	axis, reversed := lineAxis(direction)

	var outcome moveOutcome
	for index := 0; index < grid.lineCount(axis); index++ {
		line := grid.line(axis, index)
		if reversed {
			line = reverseLine(line)
		}

		result := ProcessLine(line)

		values := result.Values
		if reversed {
			values = reverseLine(values)
		}
		grid.setLine(axis, index, values)

		size := len(line)
		for _, pos := range result.Merged {
			outcome.changed = append(outcome.changed, lineLocation(axis, index, pos, size, reversed))
		}
		for _, shift := range result.Shifts {
			outcome.steps = append(outcome.steps, MoveStep{
				From:   lineLocation(axis, index, shift.From, size, reversed),
				To:     lineLocation(axis, index, shift.To, size, reversed),
				Merged: shift.Merged,
			})
		}
		if result.MaxMerge > outcome.maxMerge {
			outcome.maxMerge = result.MaxMerge
		}
	}
	return outcome
}

// lineAxis returns which lines a direction pushes along, and whether they are
// read back to front so that index 0 is always the wall being pushed against.
func lineAxis(direction Direction) (Axis, bool) {
	switch direction {
	case Up:
		return ColumnAxis, false
	case Down:
		return ColumnAxis, true
	case Right:
		return RowAxis, true
	default:
		return RowAxis, false
	}
}

// lineLocation maps position pos of line index back to a grid location
func lineLocation(axis Axis, index, pos, size int, reversed bool) Location {
	if reversed {
		pos = size - 1 - pos
	}
	if axis == ColumnAxis {
		return Location{Row: pos, Col: index}
	}
	return Location{Row: index, Col: pos}
}

// checkOver reports whether the game has ended. Reaching the win threshold
// ends it as a success even with empty cells left.
func (e *GameEngine) checkOver() bool {
	if e.currentScore >= e.config.WinThreshold {
		e.isSuccess = true
		return true
	}

	if len(e.grid.EmptyLocations()) > 0 {
		return false
	}

	return !e.grid.HasMergeablePair()
}
