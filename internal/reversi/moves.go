package reversi

import (
	"github.com/rocketscienceinc/reversi-backend/internal/entity"
)

// LegalMoves computes the complete legal-move map for the game's mover: every
// empty square where placing a piece would flank at least one opponent cell,
// mapped to the full merged run it would capture. The result is memoized
// against the game version and mover, so repeated queries between turns are
// free.
func LegalMoves(game *entity.Game) map[entity.Coordinate]entity.CaptureChain {
	if moves, ok := game.CachedMoves(); ok {
		return moves
	}

	moves := findMoves(game.Board, game.Mover(), game.Opponent())
	game.CacheMoves(moves)

	return moves
}

// findMoves scans outward from every opponent piece: each of its eight
// neighbors is a candidate target, and the line running from that target back
// through the piece is the capture direction.
func findMoves(board *entity.Board, mover, opponent *entity.Side) map[entity.Coordinate]entity.CaptureChain {
	moves := make(map[entity.Coordinate]entity.CaptureChain)

	for piece := range opponent.Pieces {
		for _, dir := range entity.Directions {
			target := piece.Shift(dir)

			owner, onBoard := board.OwnerAt(target)
			if !onBoard || owner != entity.EmptyCell {
				continue
			}

			chain := walkChain(board, mover.Mark, target, dir.Reverse())
			if len(chain) == 0 {
				continue
			}

			moves[target] = mergeChains(moves[target], chain)
		}
	}

	return moves
}

// walkChain steps from the target square along dir, accumulating opponent
// cells until a mover cell closes the run. An empty or off-board cell means
// nothing is flanked in this direction; a mover cell with zero opponent cells
// in between yields an empty chain, which captures nothing.
func walkChain(board *entity.Board, moverMark string, target entity.Coordinate, dir entity.Direction) entity.CaptureChain {
	var chain entity.CaptureChain

	for cur := target.Shift(dir); ; cur = cur.Shift(dir) {
		owner, onBoard := board.OwnerAt(cur)
		if !onBoard || owner == entity.EmptyCell {
			return nil
		}
		if owner == moverMark {
			return chain
		}

		chain = append(chain, cur)
	}
}

// mergeChains unions capture runs discovered for the same target through
// different directions, dropping duplicates and keeping first-seen order.
func mergeChains(existing, extra entity.CaptureChain) entity.CaptureChain {
	for _, c := range extra {
		if !existing.Contains(c) {
			existing = append(existing, c)
		}
	}
	return existing
}
