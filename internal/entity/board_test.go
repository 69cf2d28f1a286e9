package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_OwnerAt(t *testing.T) {
	t.Run("Returns owner for an occupied cell", func(t *testing.T) {
		// Given: a board with a black piece on (3,4)
		board := NewBoard(BoardSize, BoardSize)
		board.Place(PlayerBlack, Coordinate{X: 3, Y: 4})

		// When: looking the cell up
		owner, onBoard := board.OwnerAt(Coordinate{X: 3, Y: 4})

		// Then: the owner is reported and the cell is on board
		assert.True(t, onBoard)
		assert.Equal(t, PlayerBlack, owner)
	})

	t.Run("Returns empty for an unoccupied cell", func(t *testing.T) {
		board := NewBoard(BoardSize, BoardSize)

		owner, onBoard := board.OwnerAt(Coordinate{X: 0, Y: 0})

		assert.True(t, onBoard)
		assert.Equal(t, EmptyCell, owner)
	})

	t.Run("Reports off-board coordinates as a normal outcome", func(t *testing.T) {
		// Given: a standard board
		board := NewBoard(BoardSize, BoardSize)

		// When/Then: every out-of-range lookup is off board, never a panic
		for _, c := range []Coordinate{
			{X: -1, Y: 0},
			{X: 0, Y: -1},
			{X: BoardSize, Y: 0},
			{X: 0, Y: BoardSize},
			{X: -1, Y: -1},
			{X: BoardSize, Y: BoardSize},
		} {
			_, onBoard := board.OwnerAt(c)
			assert.False(t, onBoard, "expected %s to be off board", c)
		}
	})
}

func TestBoard_PlaceAndClear(t *testing.T) {
	// Given: a board with a white piece
	board := NewBoard(BoardSize, BoardSize)
	cell := Coordinate{X: 5, Y: 2}
	board.Place(PlayerWhite, cell)

	// When: the cell is re-owned by black
	board.Place(PlayerBlack, cell)

	// Then: the new owner sticks
	owner, _ := board.OwnerAt(cell)
	require.Equal(t, PlayerBlack, owner)

	// When: the cell is cleared
	board.Clear(cell)

	// Then: it is empty again
	owner, _ = board.OwnerAt(cell)
	require.Equal(t, EmptyCell, owner)
}

func TestBoard_CountByMark(t *testing.T) {
	// Given: a board with two black pieces and one white piece
	board := NewBoard(BoardSize, BoardSize)
	board.Place(PlayerBlack, Coordinate{X: 0, Y: 0})
	board.Place(PlayerBlack, Coordinate{X: 1, Y: 0})
	board.Place(PlayerWhite, Coordinate{X: 7, Y: 7})

	// When: tallying occupied cells
	counts := board.CountByMark()

	// Then: empty cells are excluded and the totals match
	assert.Equal(t, map[string]int{PlayerBlack: 2, PlayerWhite: 1}, counts)
	assert.Equal(t, 3, board.Occupied())
}
