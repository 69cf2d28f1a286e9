package entity

// BoardSize is the side length of the standard playing field.
const BoardSize = 8

// Board is the rectangular grid of cell owners, addressed Cells[y][x].
// Coordinates outside the grid are off board; looking them up is a routine,
// checked outcome rather than an error.
type Board struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Cells  [][]string `json:"cells"`
}

func NewBoard(width, height int) *Board {
	cells := make([][]string, height)
	for y := range cells {
		cells[y] = make([]string, width)
	}

	return &Board{
		Width:  width,
		Height: height,
		Cells:  cells,
	}
}

// OwnerAt reports the owner of c. The second return value is false when c is
// off board; capture scanning runs off the edge constantly.
func (that *Board) OwnerAt(c Coordinate) (string, bool) {
	if c.X < 0 || c.Y < 0 || c.X >= that.Width || c.Y >= that.Height {
		return EmptyCell, false
	}

	return that.Cells[c.Y][c.X], true
}

// Place sets the cell's owner. The caller guarantees c is on board; move
// legality is the engine's responsibility, not the board's.
func (that *Board) Place(mark string, c Coordinate) {
	that.Cells[c.Y][c.X] = mark
}

// Clear empties a cell. Captures re-own cells instead of clearing them; this
// exists for overlay bookkeeping in rendering layers.
func (that *Board) Clear(c Coordinate) {
	that.Cells[c.Y][c.X] = EmptyCell
}

// CountByMark tallies occupied cells per mark. Empty cells are excluded.
func (that *Board) CountByMark() map[string]int {
	counts := make(map[string]int)

	for _, row := range that.Cells {
		for _, owner := range row {
			if owner != EmptyCell {
				counts[owner]++
			}
		}
	}

	return counts
}

// Occupied returns the total number of non-empty cells.
func (that *Board) Occupied() int {
	total := 0
	for _, count := range that.CountByMark() {
		total += count
	}
	return total
}
