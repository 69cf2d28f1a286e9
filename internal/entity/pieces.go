package entity

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
)

// PieceSet tracks the cells a side currently owns. It must stay consistent
// with the board: every cell carrying the side's mark is in the set and vice
// versa.
type PieceSet map[Coordinate]struct{}

func NewPieceSet(coords ...Coordinate) PieceSet {
	set := make(PieceSet, len(coords))
	for _, c := range coords {
		set.Add(c)
	}
	return set
}

// Add is idempotent.
func (that PieceSet) Add(c Coordinate) {
	that[c] = struct{}{}
}

func (that PieceSet) Has(c Coordinate) bool {
	_, ok := that[c]
	return ok
}

// Remove fails when the cell is not held: reaching that state means capture
// bookkeeping has diverged from the board.
func (that PieceSet) Remove(c Coordinate) error {
	if !that.Has(c) {
		return fmt.Errorf("%w: cell %s is not owned", apperror.ErrInvariantViolation, c)
	}

	delete(that, c)

	return nil
}

// Coordinates returns the owned cells ordered row-first for stable output.
func (that PieceSet) Coordinates() []Coordinate {
	coords := make([]Coordinate, 0, len(that))
	for c := range that {
		coords = append(coords, c)
	}

	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})

	return coords
}

func (that PieceSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.Coordinates()) //nolint:wrapcheck // passthrough
}

func (that *PieceSet) UnmarshalJSON(data []byte) error {
	var coords []Coordinate
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("failed to unmarshal piece set: %w", err)
	}

	*that = NewPieceSet(coords...)

	return nil
}
