package reversi

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
	"github.com/rocketscienceinc/reversi-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeTurn(t *testing.T) {
	t.Run("Places, captures and advances the turn", func(t *testing.T) {
		// Given: the standard start, black to move
		game := newOngoingGame()

		// When: black plays (2,3), which captures (3,3)
		err := MakeTurn(game, entity.PlayerBlack, entity.Coordinate{X: 2, Y: 3})
		require.NoError(t, err)

		// Then: black holds 4 cells, white holds 1, and (3,3) flipped
		scores := Scores(game)
		assert.Equal(t, 4, scores[entity.PlayerBlack])
		assert.Equal(t, 1, scores[entity.PlayerWhite])

		owner, _ := game.Board.OwnerAt(entity.Coordinate{X: 3, Y: 3})
		assert.Equal(t, entity.PlayerBlack, owner)

		// And: piece sets track the board
		black, white := game.SideByMark(entity.PlayerBlack), game.SideByMark(entity.PlayerWhite)
		assert.Len(t, black.Pieces, 4)
		assert.Len(t, white.Pieces, 1)
		assert.True(t, black.Pieces.Has(entity.Coordinate{X: 3, Y: 3}))
		assert.True(t, black.Pieces.Has(entity.Coordinate{X: 2, Y: 3}))

		// And: exactly one more cell is occupied, and it is white's turn
		assert.Equal(t, 5, game.Board.Occupied())
		assert.Equal(t, entity.PlayerWhite, game.Turn)
	})

	t.Run("Capture accounting holds for every legal move", func(t *testing.T) {
		game := newOngoingGame()

		for target, chain := range LegalMoves(game) {
			// Given: a fresh copy of the start for each legal move
			fresh := newOngoingGame()
			chainLen := len(chain)

			// When: the move is applied
			require.NoError(t, MakeTurn(fresh, entity.PlayerBlack, target))

			// Then: mover gains 1+|chain|, opponent loses |chain|
			scores := Scores(fresh)
			assert.Equal(t, 2+1+chainLen, scores[entity.PlayerBlack], "move %s", target)
			assert.Equal(t, 2-chainLen, scores[entity.PlayerWhite], "move %s", target)

			// And: every chain cell now belongs to the mover
			for _, c := range chain {
				owner, _ := fresh.Board.OwnerAt(c)
				assert.Equal(t, entity.PlayerBlack, owner)
			}
		}
	})

	t.Run("Invalid target leaves the game untouched", func(t *testing.T) {
		// Given: an ongoing game and its serialized snapshot
		game := newOngoingGame()
		before, err := json.Marshal(game)
		require.NoError(t, err)

		// When: black plays a square that captures nothing
		err = MakeTurn(game, entity.PlayerBlack, entity.Coordinate{X: 0, Y: 0})

		// Then: ErrInvalidMove, and no state changed at all
		require.ErrorIs(t, err, apperror.ErrInvalidMove)

		after, err := json.Marshal(game)
		require.NoError(t, err)
		assert.JSONEq(t, string(before), string(after))
	})

	t.Run("Rejects a move out of turn", func(t *testing.T) {
		game := newOngoingGame()

		err := MakeTurn(game, entity.PlayerWhite, entity.Coordinate{X: 2, Y: 3})

		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Rejects a move before the game starts", func(t *testing.T) {
		game := entity.NewGame("123", entity.PrivateType)

		err := MakeTurn(game, entity.PlayerBlack, entity.Coordinate{X: 2, Y: 3})

		assert.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Clears the mover's skip flag", func(t *testing.T) {
		// Given: black skipped some earlier turn
		game := newOngoingGame()
		game.SideByMark(entity.PlayerBlack).Skipped = true

		// When: black makes a legal move
		require.NoError(t, MakeTurn(game, entity.PlayerBlack, entity.Coordinate{X: 2, Y: 3}))

		// Then: the flag resets
		assert.False(t, game.SideByMark(entity.PlayerBlack).Skipped)
	})
}

func TestSkipTurn(t *testing.T) {
	t.Run("Rejected while legal moves exist", func(t *testing.T) {
		game := newOngoingGame()

		err := SkipTurn(game, entity.PlayerBlack)

		assert.ErrorIs(t, err, apperror.ErrMovesAvailable)
	})

	t.Run("Single skip passes the turn and keeps playing", func(t *testing.T) {
		// Given: black has no legal move (no white pieces to flank)
		game := buildPosition(t, []entity.Coordinate{{X: 0, Y: 0}}, nil)

		// When: black skips
		err := SkipTurn(game, entity.PlayerBlack)
		require.NoError(t, err)

		// Then: white is the mover and the game continues
		assert.Equal(t, entity.PlayerWhite, game.Turn)
		assert.True(t, game.SideByMark(entity.PlayerBlack).Skipped)
		assert.False(t, game.IsFinished())
	})

	t.Run("The opponent of a skipper keeps their own moves", func(t *testing.T) {
		// Given: black cannot move, but white can capture (1,0) via (2,0)
		game := buildPosition(t,
			[]entity.Coordinate{{X: 1, Y: 0}},
			[]entity.Coordinate{{X: 0, Y: 0}},
		)
		require.Empty(t, LegalMoves(game))

		// When: black skips
		require.NoError(t, SkipTurn(game, entity.PlayerBlack))

		// Then: white's move map is computed fresh, not inherited empty
		moves := LegalMoves(game)
		require.Contains(t, moves, entity.Coordinate{X: 2, Y: 0})
		assert.Equal(t, entity.CaptureChain{{X: 1, Y: 0}}, moves[entity.Coordinate{X: 2, Y: 0}])

		// And: white cannot skip past them, and the game goes on
		err := SkipTurn(game, entity.PlayerWhite)
		require.ErrorIs(t, err, apperror.ErrMovesAvailable)
		assert.False(t, game.IsFinished())

		require.NoError(t, MakeTurn(game, entity.PlayerWhite, entity.Coordinate{X: 2, Y: 0}))
		assert.Equal(t, 3, Scores(game)[entity.PlayerWhite])
	})

	t.Run("Two consecutive skips finish the game", func(t *testing.T) {
		// Given: a position where neither side can move
		game := buildPosition(t, []entity.Coordinate{{X: 0, Y: 0}}, nil)

		// When: both sides are forced to skip
		require.NoError(t, SkipTurn(game, entity.PlayerBlack))
		require.NoError(t, SkipTurn(game, entity.PlayerWhite))

		// Then: the game is finished with black the 1:0 winner
		assert.True(t, game.IsFinished())
		assert.Equal(t, entity.PlayerBlack, game.Winner)
	})

	t.Run("Rejected once the game is finished", func(t *testing.T) {
		game := buildPosition(t, []entity.Coordinate{{X: 0, Y: 0}}, nil)
		require.NoError(t, SkipTurn(game, entity.PlayerBlack))
		require.NoError(t, SkipTurn(game, entity.PlayerWhite))

		err := SkipTurn(game, entity.PlayerBlack)

		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestWinner(t *testing.T) {
	t.Run("Ties are representable", func(t *testing.T) {
		// Given: one piece each
		game := buildPosition(t,
			[]entity.Coordinate{{X: 0, Y: 0}},
			[]entity.Coordinate{{X: 7, Y: 7}},
		)

		assert.Equal(t, entity.PlayerTie, Winner(game))
	})

	t.Run("Higher count wins", func(t *testing.T) {
		game := buildPosition(t,
			[]entity.Coordinate{{X: 0, Y: 0}},
			[]entity.Coordinate{{X: 6, Y: 7}, {X: 7, Y: 7}},
		)

		assert.Equal(t, entity.PlayerWhite, Winner(game))
	})
}

// TestGamePlaysToCompletion drives a full game with a deterministic policy:
// always the first legal move in row-first order, skipping when forced. The
// game must terminate, and the score invariant must hold at every state.
func TestGamePlaysToCompletion(t *testing.T) {
	game := newOngoingGame()

	// An 8x8 game cannot take more than 60 moves plus interleaved skips.
	const maxSteps = 200

	steps := 0
	for !game.IsFinished() {
		require.Less(t, steps, maxSteps, "game did not terminate")
		steps++

		moves := LegalMoves(game)
		if len(moves) == 0 {
			require.NoError(t, SkipTurn(game, game.Turn))
			continue
		}

		targets := make([]entity.Coordinate, 0, len(moves))
		for target := range moves {
			targets = append(targets, target)
		}
		sort.Slice(targets, func(i, j int) bool {
			if targets[i].Y != targets[j].Y {
				return targets[i].Y < targets[j].Y
			}
			return targets[i].X < targets[j].X
		})

		occupiedBefore := game.Board.Occupied()
		require.NoError(t, MakeTurn(game, game.Turn, targets[0]))

		// Each move occupies exactly one new cell.
		require.Equal(t, occupiedBefore+1, game.Board.Occupied())

		// Scores always sum to the occupied cell count.
		total := 0
		for _, count := range Scores(game) {
			total += count
		}
		require.Equal(t, game.Board.Occupied(), total)
	}

	// Then: the outcome is recorded
	assert.NotEmpty(t, game.Winner)

	scores := Scores(game)
	switch game.Winner {
	case entity.PlayerBlack:
		assert.Greater(t, scores[entity.PlayerBlack], scores[entity.PlayerWhite])
	case entity.PlayerWhite:
		assert.Greater(t, scores[entity.PlayerWhite], scores[entity.PlayerBlack])
	case entity.PlayerTie:
		assert.Equal(t, scores[entity.PlayerBlack], scores[entity.PlayerWhite])
	}
}
