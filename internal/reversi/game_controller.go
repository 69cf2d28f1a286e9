package reversi

import (
	"fmt"

	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
	"github.com/rocketscienceinc/reversi-backend/internal/entity"
)

// MakeTurn places the mover's piece on target and re-owns every cell in the
// target's capture chain. An illegal target leaves the game untouched.
func MakeTurn(game *entity.Game, playerMark string, target entity.Coordinate) error {
	if err := game.ConfirmOngoingState(); err != nil {
		return err
	}

	if game.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	chain, ok := LegalMoves(game)[target]
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidMove, target)
	}

	mover, opponent := game.Mover(), game.Opponent()

	game.Board.Place(mover.Mark, target)
	mover.Pieces.Add(target)

	// Captured cells are re-colored, never emptied.
	for _, c := range chain {
		game.Board.Place(mover.Mark, c)
		mover.Pieces.Add(c)

		if err := opponent.Pieces.Remove(c); err != nil {
			return fmt.Errorf("capture bookkeeping failed: %w", err)
		}
	}

	mover.Skipped = false
	game.Touch()
	game.AdvanceTurn()

	return nil
}

// SkipTurn is the forced pass for a mover with no legal moves. Two skips in a
// row mean neither player can act, which finishes the game.
func SkipTurn(game *entity.Game, playerMark string) error {
	if err := game.ConfirmOngoingState(); err != nil {
		return err
	}

	if game.Turn != playerMark {
		return apperror.ErrNotYourTurn
	}

	if len(LegalMoves(game)) != 0 {
		return apperror.ErrMovesAvailable
	}

	game.Mover().Skipped = true
	game.AdvanceTurn()

	if game.Mover().Skipped && game.Opponent().Skipped {
		finish(game)
	}

	return nil
}

// Scores counts the board cells owned by each mark. Empty cells are excluded,
// so the values always sum to the number of occupied cells.
func Scores(game *entity.Game) map[string]int {
	return game.Board.CountByMark()
}

// Winner returns the mark with the higher score, or PlayerTie on equality.
func Winner(game *entity.Game) string {
	scores := Scores(game)
	first, second := game.Sides[0], game.Sides[1]

	switch {
	case scores[first.Mark] > scores[second.Mark]:
		return first.Mark
	case scores[second.Mark] > scores[first.Mark]:
		return second.Mark
	default:
		return entity.PlayerTie
	}
}

func finish(game *entity.Game) {
	game.Status = entity.StatusFinished
	game.Winner = Winner(game)
	game.Turn = ""
}
