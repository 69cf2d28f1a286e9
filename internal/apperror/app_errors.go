package apperror

import "errors"

var (
	ErrGameFinished      = errors.New("game is already finished")
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrNoActiveGames     = errors.New("no active games")
	ErrGameAlreadyExists = errors.New("game already exists")

	// ErrInvalidMove is returned when a move target is not a key of the
	// current legal-move map. The game state stays untouched.
	ErrInvalidMove = errors.New("move is not legal")

	// ErrMovesAvailable is returned when a player tries to skip a turn
	// although legal moves exist.
	ErrMovesAvailable = errors.New("legal moves are available, skipping is not allowed")

	// ErrInvariantViolation signals that board and piece bookkeeping have
	// diverged. It indicates a bug in capture handling and must fail loudly.
	ErrInvariantViolation = errors.New("board and piece bookkeeping diverged")
)
