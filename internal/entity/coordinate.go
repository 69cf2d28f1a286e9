package entity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedCoordinate = errors.New("malformed coordinate")

// Coordinate addresses a board cell as (column, row). (0,0) is the top-left
// corner and Y grows downward, matching the board's rendering order.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Direction is one of the eight neighbor offsets around a cell.
type Direction struct {
	DX int
	DY int
}

// Directions lists every neighbor offset used during capture scanning.
var Directions = []Direction{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Reverse flips the offset, turning an outward direction into the scan
// direction running back through the adjacent piece.
func (that Direction) Reverse() Direction {
	return Direction{DX: -that.DX, DY: -that.DY}
}

// Shift returns the cell one step away in the given direction.
func (that Coordinate) Shift(dir Direction) Coordinate {
	return Coordinate{X: that.X + dir.DX, Y: that.Y + dir.DY}
}

func (that Coordinate) String() string {
	return fmt.Sprintf("%d,%d", that.X, that.Y)
}

// MarshalText lets a Coordinate key JSON maps such as the legal-move map.
func (that Coordinate) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Coordinate) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ",")
	if len(parts) != 2 {
		return fmt.Errorf("%w: %q", ErrMalformedCoordinate, text)
	}

	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrMalformedCoordinate, text)
	}

	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrMalformedCoordinate, text)
	}

	that.X, that.Y = x, y

	return nil
}

// CaptureChain is the ordered, deduplicated run of opponent cells a move
// re-owns. Chains found through different directions for the same target are
// merged into one.
type CaptureChain []Coordinate

func (that CaptureChain) Contains(c Coordinate) bool {
	for _, cur := range that {
		if cur == c {
			return true
		}
	}
	return false
}
