// Command analyze reads a board from stdin and prints, for each direction,
// whether the move would change the board, how many merges it makes and the
// resulting board. Cells are whitespace or comma separated, row by row, with
// 0 for empty; the cell count must be a perfect square.
//
//	echo "2 2 4 4  0 0 0 0  0 0 0 0  0 0 0 2" | analyze
package main

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/bits"
	"os"
	"strconv"
	"strings"

	"github.com/wricardo/tile-merge-game/game/engine"
)

func main() {
	if err := analyze(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func analyze(r io.Reader, w io.Writer) error {
	grid, err := readBoard(r)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "=== Board %dx%d ===\n", grid.Rows(), grid.Cols())
	fmt.Fprint(w, grid)
	fmt.Fprintf(w, "Tiles: %d  Max: %d\n", engine.CountTiles(grid.Values()), grid.MaxValue())

	movable := 0
	for _, dir := range engine.Directions {
		next, merged := engine.SimulateMove(grid, dir)
		changed := next.DiffersFrom(grid)
		if changed {
			movable++
		}

		fmt.Fprintf(w, "\n--- %s ---\n", dir)
		if !changed {
			fmt.Fprintln(w, "No change")
			continue
		}
		fmt.Fprintf(w, "Merges: %d  Max: %d  Empty: %d\n", len(merged), next.MaxValue(), len(next.EmptyLocations()))
		fmt.Fprint(w, next)
	}

	fmt.Fprintln(w)
	if movable == 0 {
		fmt.Fprintln(w, "Stalemate: no direction changes the board")
	} else {
		fmt.Fprintf(w, "%d of %d directions change the board\n", movable, len(engine.Directions))
	}
	return nil
}

// readBoard parses every number in r into a square grid
func readBoard(r io.Reader) (*engine.Grid, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)

	var cells []int
	for scanner.Scan() {
		for _, field := range strings.Split(scanner.Text(), ",") {
			if field == "" {
				continue
			}
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("cell %d: %q is not a number", len(cells)+1, field)
			}
			if v != 0 && (v < 2 || bits.OnesCount(uint(v)) != 1) {
				return nil, fmt.Errorf("cell %d: %d is not a tile value", len(cells)+1, v)
			}
			cells = append(cells, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	size := int(math.Sqrt(float64(len(cells))))
	if size < engine.MinGridSize || size*size != len(cells) {
		return nil, fmt.Errorf("need a square board of at least %dx%d, got %d cells", engine.MinGridSize, engine.MinGridSize, len(cells))
	}

	rows := make([][]int, size)
	for i := range rows {
		rows[i] = cells[i*size : (i+1)*size]
	}
	return engine.NewGridFromRows(rows)
}
