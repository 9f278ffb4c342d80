package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidLocation = errors.New("invalid location")
	ErrLineLength      = errors.New("line length does not match grid")
	ErrInvalidGrid     = errors.New("invalid grid")
)

// Axis selects whether a line is a row or a column
type Axis int

const (
	RowAxis Axis = iota
	ColumnAxis
)

// Grid is a fixed-size matrix of tile values, 0 meaning an empty cell.
// Dimensions never change after construction.
type Grid struct {
	rows  int
	cols  int
	cells [][]int
}

// NewGrid creates an empty rows x cols grid
func NewGrid(rows, cols int) *Grid {
	cells := make([][]int, rows)
	for r := range cells {
		cells[r] = make([]int, cols)
	}
	return &Grid{rows: rows, cols: cols, cells: cells}
}

// NewGridFromRows builds a grid from row slices. The input is copied.
func NewGridFromRows(rows [][]int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: no cells", ErrInvalidGrid)
	}
	g := NewGrid(len(rows), len(rows[0]))
	for r, row := range rows {
		if len(row) != g.cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidGrid, r, len(row), g.cols)
		}
		for c, v := range row {
			if v < 0 {
				return nil, fmt.Errorf("%w: negative value %d at (%d,%d)", ErrInvalidGrid, v, r, c)
			}
			g.cells[r][c] = v
		}
	}
	return g, nil
}

// Rows returns the number of rows
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns
func (g *Grid) Cols() int { return g.cols }

// Contains reports whether loc addresses a cell of g
func (g *Grid) Contains(loc Location) bool {
	return loc.Row >= 0 && loc.Row < g.rows && loc.Col >= 0 && loc.Col < g.cols
}

// Get returns the value at loc
func (g *Grid) Get(loc Location) (int, error) {
	if !g.Contains(loc) {
		return 0, g.locationError(loc)
	}
	return g.cells[loc.Row][loc.Col], nil
}

// Set writes value at loc
func (g *Grid) Set(loc Location, value int) error {
	if !g.Contains(loc) {
		return g.locationError(loc)
	}
	g.cells[loc.Row][loc.Col] = value
	return nil
}

// Line returns a copy of row or column index. Element i of a column is row i.
func (g *Grid) Line(axis Axis, index int) ([]int, error) {
	if err := g.checkLineIndex(axis, index); err != nil {
		return nil, err
	}
	return g.line(axis, index), nil
}

// SetLine overwrites row or column index with values
func (g *Grid) SetLine(axis Axis, index int, values []int) error {
	if err := g.checkLineIndex(axis, index); err != nil {
		return err
	}
	if len(values) != g.lineLen(axis) {
		return fmt.Errorf("%w: got %d values, want %d", ErrLineLength, len(values), g.lineLen(axis))
	}
	g.setLine(axis, index, values)
	return nil
}

func (g *Grid) Row(index int) ([]int, error)    { return g.Line(RowAxis, index) }
func (g *Grid) Column(index int) ([]int, error) { return g.Line(ColumnAxis, index) }

func (g *Grid) SetRow(index int, values []int) error    { return g.SetLine(RowAxis, index, values) }
func (g *Grid) SetColumn(index int, values []int) error { return g.SetLine(ColumnAxis, index, values) }

// Clone returns a deep copy sharing no state with g
func (g *Grid) Clone() *Grid {
	clone := NewGrid(g.rows, g.cols)
	for r := range g.cells {
		copy(clone.cells[r], g.cells[r])
	}
	return clone
}

// Values returns a copy of the cells, row-major
func (g *Grid) Values() [][]int {
	return g.Clone().cells
}

// EmptyLocations lists every empty cell in row-major order
func (g *Grid) EmptyLocations() []Location {
	var empty []Location
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.cells[r][c] == 0 {
				empty = append(empty, Location{Row: r, Col: c})
			}
		}
	}
	return empty
}

// DiffersFrom reports whether any cell of g differs from other.
// Grids of different dimensions always differ.
func (g *Grid) DiffersFrom(other *Grid) bool {
	if other == nil || g.rows != other.rows || g.cols != other.cols {
		return true
	}
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.cells[r][c] != other.cells[r][c] {
				return true
			}
		}
	}
	return false
}

// MaxValue returns the largest tile on the grid
func (g *Grid) MaxValue() int {
	max := 0
	for _, row := range g.cells {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// HasMergeablePair reports whether two horizontally or vertically adjacent
// cells hold the same value.
func (g *Grid) HasMergeablePair() bool {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			v := g.cells[r][c]
			if c+1 < g.cols && v == g.cells[r][c+1] {
				return true
			}
			if r+1 < g.rows && v == g.cells[r+1][c] {
				return true
			}
		}
	}
	return false
}

// String renders the grid as an ASCII box
func (g *Grid) String() string {
	var sb strings.Builder
	sep := "+" + strings.Repeat("------+", g.cols) + "\n"
	sb.WriteString(sep)
	for r := 0; r < g.rows; r++ {
		sb.WriteString("|")
		for c := 0; c < g.cols; c++ {
			if g.cells[r][c] == 0 {
				sb.WriteString("      |")
			} else {
				fmt.Fprintf(&sb, "%5d |", g.cells[r][c])
			}
		}
		sb.WriteString("\n")
		sb.WriteString(sep)
	}
	return sb.String()
}

func (g *Grid) lineCount(axis Axis) int {
	if axis == ColumnAxis {
		return g.cols
	}
	return g.rows
}

func (g *Grid) lineLen(axis Axis) int {
	if axis == ColumnAxis {
		return g.rows
	}
	return g.cols
}

func (g *Grid) checkLineIndex(axis Axis, index int) error {
	if axis != RowAxis && axis != ColumnAxis {
		return fmt.Errorf("%w: unknown axis %d", ErrInvalidLocation, int(axis))
	}
	if index < 0 || index >= g.lineCount(axis) {
		return fmt.Errorf("%w: line %d outside %dx%d grid", ErrInvalidLocation, index, g.rows, g.cols)
	}
	return nil
}

// line and setLine skip bounds checks; callers inside the package own the indices.
func (g *Grid) line(axis Axis, index int) []int {
	if axis == RowAxis {
		out := make([]int, g.cols)
		copy(out, g.cells[index])
		return out
	}
	out := make([]int, g.rows)
	for r := 0; r < g.rows; r++ {
		out[r] = g.cells[r][index]
	}
	return out
}

func (g *Grid) setLine(axis Axis, index int, values []int) {
	if axis == RowAxis {
		copy(g.cells[index], values)
		return
	}
	for r := 0; r < g.rows; r++ {
		g.cells[r][index] = values[r]
	}
}

func (g *Grid) locationError(loc Location) error {
	return fmt.Errorf("%w: %s outside %dx%d grid", ErrInvalidLocation, loc, g.rows, g.cols)
}
