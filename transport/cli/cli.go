// Package cli drives a local hot-seat game on a terminal: it renders the
// board with markers on the legal targets, reads moves as "x y" pairs, and
// prints the final tally. It is a thin driver; all rules live in the engine.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/reversi-backend/internal/entity"
	"github.com/rocketscienceinc/reversi-backend/internal/reversi"
)

var ErrMalformedMove = errors.New("malformed move")

const (
	emptyMarker = "-"
	moveMarker  = "?"
)

type Runner struct {
	in  *bufio.Scanner
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Runner {
	return &Runner{
		in:  bufio.NewScanner(in),
		out: out,
	}
}

// Run plays one game to completion. A closed input stream abandons the game
// without error.
func (that *Runner) Run() error {
	game := entity.NewGame("local", entity.PrivateType)
	game.Status = entity.StatusOngoing

	for !game.IsFinished() {
		moves := reversi.LegalMoves(game)

		if len(moves) == 0 {
			fmt.Fprintf(that.out, "player %q cannot move, skipping...\n", game.Turn)

			if err := reversi.SkipTurn(game, game.Turn); err != nil {
				return fmt.Errorf("failed to skip turn: %w", err)
			}
			continue
		}

		that.render(game, moves)
		fmt.Fprintf(that.out, "player %q: please enter your move\n>>> ", game.Turn)

		if !that.in.Scan() {
			if err := that.in.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			return nil
		}

		target, err := ParseMove(that.in.Text())
		if err != nil {
			fmt.Fprintln(that.out, "this is an invalid move. Please try again.")
			continue
		}

		if err = reversi.MakeTurn(game, game.Turn, target); err != nil {
			fmt.Fprintln(that.out, "this is an invalid move. Please try again.")
			continue
		}
	}

	that.printScores(game)

	return nil
}

// ParseMove reads a move typed as two whitespace-separated integers.
func ParseMove(line string) (entity.Coordinate, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return entity.Coordinate{}, fmt.Errorf("%w: %q", ErrMalformedMove, line)
	}

	x, err := strconv.Atoi(fields[0])
	if err != nil {
		return entity.Coordinate{}, fmt.Errorf("%w: %q", ErrMalformedMove, line)
	}

	y, err := strconv.Atoi(fields[1])
	if err != nil {
		return entity.Coordinate{}, fmt.Errorf("%w: %q", ErrMalformedMove, line)
	}

	return entity.Coordinate{X: x, Y: y}, nil
}

// render prints the grid with "?" overlaid on the legal targets. The overlay
// is display-only; the board itself is never touched.
func (that *Runner) render(game *entity.Game, moves map[entity.Coordinate]entity.CaptureChain) {
	var sb strings.Builder

	sb.WriteString("  ")
	for x := 0; x < game.Board.Width; x++ {
		if x > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(x))
	}
	sb.WriteByte('\n')

	for y := 0; y < game.Board.Height; y++ {
		sb.WriteString(strconv.Itoa(y))
		sb.WriteByte(' ')

		for x := 0; x < game.Board.Width; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(cellMarker(game, moves, entity.Coordinate{X: x, Y: y}))
		}
		sb.WriteByte('\n')
	}

	fmt.Fprintln(that.out, sb.String())
}

func cellMarker(game *entity.Game, moves map[entity.Coordinate]entity.CaptureChain, c entity.Coordinate) string {
	if _, ok := moves[c]; ok {
		return moveMarker
	}

	owner, _ := game.Board.OwnerAt(c)
	if owner == entity.EmptyCell {
		return emptyMarker
	}

	return owner
}

func (that *Runner) printScores(game *entity.Game) {
	fmt.Fprintln(that.out, "\n ### GAME OVER ### ")
	fmt.Fprintln(that.out, "\nfinal scores")
	fmt.Fprintln(that.out, "============")

	scores := reversi.Scores(game)

	marks := make([]string, 0, len(scores))
	for mark := range scores {
		marks = append(marks, mark)
	}

	sort.Slice(marks, func(i, j int) bool {
		if scores[marks[i]] != scores[marks[j]] {
			return scores[marks[i]] > scores[marks[j]]
		}
		return marks[i] < marks[j]
	})

	for _, mark := range marks {
		fmt.Fprintf(that.out, "%s: %d\n", mark, scores[mark])
	}
}
