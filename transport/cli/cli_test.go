package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rocketscienceinc/reversi-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMove(t *testing.T) {
	t.Run("Accepts two whitespace-separated integers", func(t *testing.T) {
		tests := []struct {
			line string
			want entity.Coordinate
		}{
			{line: "2 3", want: entity.Coordinate{X: 2, Y: 3}},
			{line: "  0   7  ", want: entity.Coordinate{X: 0, Y: 7}},
			{line: "7\t0", want: entity.Coordinate{X: 7, Y: 0}},
		}

		for _, test := range tests {
			got, err := ParseMove(test.line)
			require.NoError(t, err, "line %q", test.line)
			assert.Equal(t, test.want, got)
		}
	})

	t.Run("Rejects anything else", func(t *testing.T) {
		lines := []string{"", "2", "2 3 4", "a b", "2,3", "2 b"}

		for _, line := range lines {
			_, err := ParseMove(line)
			assert.ErrorIs(t, err, ErrMalformedMove, "line %q", line)
		}
	})
}

func TestRunner_Run(t *testing.T) {
	t.Run("Prompts, rejects bad input and applies the first move", func(t *testing.T) {
		// Given: garbage, an illegal square, then a legal opening move
		in := strings.NewReader("nonsense\n0 0\n2 3\n")
		var out bytes.Buffer

		// When: the game runs until input dries up
		err := New(in, &out).Run()
		require.NoError(t, err)

		text := out.String()

		// Then: black was prompted first, then white after the move landed
		blackPrompt := `player "B": please enter your move`
		whitePrompt := `player "W": please enter your move`
		assert.Contains(t, text, blackPrompt)
		assert.Contains(t, text, whitePrompt)
		assert.Less(t, strings.Index(text, blackPrompt), strings.Index(text, whitePrompt))

		// And: both rejected lines were answered
		assert.Equal(t, 2, strings.Count(text, "this is an invalid move. Please try again."))

		// And: the rendered start position shows the legal targets
		assert.Contains(t, text, "  0 1 2 3 4 5 6 7\n")
		assert.Contains(t, text, "2 - - - ? - - - -\n")
		assert.Contains(t, text, "3 - - ? W B - - -\n")
		assert.Contains(t, text, "4 - - - B W ? - -\n")
		assert.Contains(t, text, "5 - - - - ? - - -\n")
	})

	t.Run("Closed input abandons the game quietly", func(t *testing.T) {
		var out bytes.Buffer

		err := New(strings.NewReader(""), &out).Run()

		require.NoError(t, err)
		assert.NotContains(t, out.String(), "GAME OVER")
	})

	t.Run("The captured piece shows up after the move", func(t *testing.T) {
		// Given: one legal move, then nothing
		in := strings.NewReader("2 3\n")
		var out bytes.Buffer

		require.NoError(t, New(in, &out).Run())

		// Then: the second render shows (2,3) and (3,3) as black
		renders := strings.Split(out.String(), "  0 1 2 3 4 5 6 7\n")
		require.Len(t, renders, 3)

		assert.Contains(t, renders[2], "3 - - B B B - - -\n")
	})
}
