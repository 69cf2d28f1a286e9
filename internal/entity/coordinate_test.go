package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinate_Text(t *testing.T) {
	t.Run("Round-trips through its text form", func(t *testing.T) {
		c := Coordinate{X: 2, Y: 3}

		text, err := c.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, "2,3", string(text))

		var restored Coordinate
		require.NoError(t, restored.UnmarshalText(text))
		assert.Equal(t, c, restored)
	})

	t.Run("Rejects malformed input", func(t *testing.T) {
		var c Coordinate

		for _, input := range []string{"", "1", "1,2,3", "a,b"} {
			err := c.UnmarshalText([]byte(input))
			assert.ErrorIs(t, err, ErrMalformedCoordinate, "input %q", input)
		}
	})
}

func TestCoordinate_AsMapKey(t *testing.T) {
	// Given: a legal-move style map keyed by coordinates
	moves := map[Coordinate]CaptureChain{
		{X: 2, Y: 3}: {{X: 3, Y: 3}},
	}

	// When: marshaling and unmarshaling it
	data, err := json.Marshal(moves)
	require.NoError(t, err)

	var restored map[Coordinate]CaptureChain
	require.NoError(t, json.Unmarshal(data, &restored))

	// Then: keys survive the round trip
	assert.Equal(t, moves, restored)
}

func TestDirection_Reverse(t *testing.T) {
	dir := Direction{DX: -1, DY: 1}

	assert.Equal(t, Direction{DX: 1, DY: -1}, dir.Reverse())
	assert.Equal(t, Coordinate{X: 1, Y: 4}, Coordinate{X: 2, Y: 3}.Shift(dir))
}

func TestDirections_CoverAllNeighbors(t *testing.T) {
	// Then: all eight nonzero offsets are present exactly once
	require.Len(t, Directions, 8)

	seen := make(map[Direction]struct{})
	for _, dir := range Directions {
		assert.False(t, dir.DX == 0 && dir.DY == 0, "zero offset is not a direction")
		seen[dir] = struct{}{}
	}
	assert.Len(t, seen, 8)
}
