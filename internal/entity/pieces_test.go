package entity

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPieceSet_Add(t *testing.T) {
	// Given: an empty set
	set := NewPieceSet()

	// When: the same cell is added twice
	set.Add(Coordinate{X: 1, Y: 2})
	set.Add(Coordinate{X: 1, Y: 2})

	// Then: the add is idempotent
	assert.Len(t, set, 1)
	assert.True(t, set.Has(Coordinate{X: 1, Y: 2}))
}

func TestPieceSet_Remove(t *testing.T) {
	t.Run("Removes a held cell", func(t *testing.T) {
		set := NewPieceSet(Coordinate{X: 1, Y: 2})

		err := set.Remove(Coordinate{X: 1, Y: 2})

		require.NoError(t, err)
		assert.Empty(t, set)
	})

	t.Run("Fails loudly when the cell is not held", func(t *testing.T) {
		// Given: a set without the cell
		set := NewPieceSet()

		// When: removing it anyway
		err := set.Remove(Coordinate{X: 3, Y: 3})

		// Then: the invariant violation surfaces instead of being ignored
		assert.ErrorIs(t, err, apperror.ErrInvariantViolation)
	})
}

func TestPieceSet_JSON(t *testing.T) {
	// Given: a set with cells added out of order
	set := NewPieceSet(
		Coordinate{X: 4, Y: 3},
		Coordinate{X: 3, Y: 4},
		Coordinate{X: 0, Y: 0},
	)

	// When: marshaling
	data, err := json.Marshal(set)
	require.NoError(t, err)

	// Then: output is row-first sorted for stable storage
	assert.JSONEq(t, `[{"x":0,"y":0},{"x":4,"y":3},{"x":3,"y":4}]`, string(data))

	// And: it round-trips
	var restored PieceSet
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, set, restored)
}
