package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/reversi-backend/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"

	PlayerBlack = "B"
	PlayerWhite = "W"
	PlayerTie   = "-"

	EmptyCell = ""
)

const (
	PublicType  = "public"
	PrivateType = "private"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

// Side is one color's board bookkeeping: its mark, the cells it owns, and
// whether its previous turn was a forced skip.
type Side struct {
	Mark    string   `json:"mark"`
	Pieces  PieceSet `json:"pieces"`
	Skipped bool     `json:"skipped,omitempty"`
}

// Game holds the full state of one match. The two sides live in a fixed
// ordered list with Current indexing the mover; advancing a turn toggles the
// index instead of swapping references around.
type Game struct {
	ID      string    `json:"id"`
	Board   *Board    `json:"board"`
	Sides   [2]*Side  `json:"sides"`
	Current int       `json:"current"`
	Turn    string    `json:"player_turn"`
	Winner  string    `json:"winner,omitempty"`
	Status  string    `json:"status"`
	Players []*Player `json:"players,omitempty"`
	Type    string    `json:"type,omitempty"`

	// Legal moves are memoized against a version counter that every board
	// mutation bumps, plus the mover index: the map belongs to one side, so
	// a turn change alone must miss the cache even on an untouched board.
	version      uint64
	movesVersion uint64
	movesCurrent int
	moves        map[Coordinate]CaptureChain
	movesCached  bool
}

// NewGame sets up the classic starting position: the four center cells split
// 2/2 diagonally, black to move first.
func NewGame(id, gameType string) *Game {
	black := &Side{
		Mark:   PlayerBlack,
		Pieces: NewPieceSet(Coordinate{X: 3, Y: 4}, Coordinate{X: 4, Y: 3}),
	}
	white := &Side{
		Mark:   PlayerWhite,
		Pieces: NewPieceSet(Coordinate{X: 3, Y: 3}, Coordinate{X: 4, Y: 4}),
	}

	board := NewBoard(BoardSize, BoardSize)
	for _, side := range []*Side{black, white} {
		for c := range side.Pieces {
			board.Place(side.Mark, c)
		}
	}

	return &Game{
		ID:     id,
		Board:  board,
		Sides:  [2]*Side{black, white},
		Turn:   PlayerBlack,
		Status: StatusWaiting,
		Type:   gameType,
	}
}

// Mover is the side about to act.
func (that *Game) Mover() *Side {
	return that.Sides[that.Current]
}

// Opponent is the side waiting for its turn.
func (that *Game) Opponent() *Side {
	return that.Sides[1-that.Current]
}

func (that *Game) SideByMark(mark string) *Side {
	for _, side := range that.Sides {
		if side.Mark == mark {
			return side
		}
	}
	return nil
}

// AdvanceTurn toggles the mover index. It runs on every completed or skipped
// turn.
func (that *Game) AdvanceTurn() {
	that.Current = 1 - that.Current
	that.Turn = that.Mover().Mark
}

// Touch invalidates the memoized legal-move map. Every board mutation must
// call it before the next legal-move query.
func (that *Game) Touch() {
	that.version++
}

// CachedMoves returns the memoized legal-move map when it matches the current
// game version and mover.
func (that *Game) CachedMoves() (map[Coordinate]CaptureChain, bool) {
	if !that.movesCached || that.movesVersion != that.version || that.movesCurrent != that.Current {
		return nil, false
	}
	return that.moves, true
}

func (that *Game) CacheMoves(moves map[Coordinate]CaptureChain) {
	that.moves = moves
	that.movesVersion = that.version
	that.movesCurrent = that.Current
	that.movesCached = true
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) IsPublic() bool {
	return that.Type == PublicType
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}
