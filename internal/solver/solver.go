// Package solver plays a board the way a careful human would: it scans the
// revealed clues for forced moves, compares clue pairs when the local rules
// stall, and only guesses when no deduction is left.
package solver

import (
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/xLinkOut/minesweeper/internal/sweep"
)

// State tracks the solver lifecycle across one game.
type State int

const (
	NotStarted State = iota
	Running
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "not started"
	}
}

type Solver struct {
	board  *sweep.Board
	rnd    *rand.Rand
	logger *slog.Logger
	state  State
}

// New wires a solver to a board. The solver issues the same Reveal and
// ToggleFlag calls a human player would; it never reads unrevealed mines.
func New(board *sweep.Board, rnd *rand.Rand, logger *slog.Logger) *Solver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Solver{
		board:  board,
		rnd:    rnd,
		logger: logger,
		state:  NotStarted,
	}
}

func (s *Solver) State() State {
	return s.state
}

// Solve plays the board until it finishes and reports whether the game was
// won. A fresh board gets a uniformly random first reveal, since no clues
// exist yet. The solver never backtracks: a guess that hits a mine is an
// accepted loss, not an error.
func (s *Solver) Solve() bool {
	b := s.board
	s.state = Running

	if b.FirstMove {
		s.revealRandom()
	}

	for !b.Finished {
		before := s.progress()

		s.flagPass()
		s.openPass()
		if b.Finished {
			break
		}

		if s.progress() == before {
			s.logger.Debug("local passes stalled, trying subset strategy")
			if !s.subsetPass() && !b.Finished {
				s.logger.Debug("subset strategy stalled, guessing")
				s.revealRandom()
			}
		}
	}

	if b.Won {
		s.state = Won
	} else {
		s.state = Lost
	}
	s.logger.Debug("game finished", slog.String("outcome", s.state.String()))
	return b.Won
}

// progress counts opened-or-flagged cells; an unchanged count after both
// local passes means the solver is stuck.
func (s *Solver) progress() (count int) {
	for i := range s.board.Cells {
		if s.board.Cells[i].Opened || s.board.Cells[i].Flagged {
			count++
		}
	}
	return
}

func (s *Solver) flaggedNeighbors(i int) (count int) {
	for _, n := range s.board.Neighbors(i) {
		if s.board.Cells[n].Flagged {
			count++
		}
	}
	return
}

// unresolvedNeighbors collects the neighbor indices that are neither opened
// nor flagged: the cells the clue at i still says something about.
func (s *Solver) unresolvedNeighbors(i int) set[int] {
	u := make(set[int])
	for _, n := range s.board.Neighbors(i) {
		if s.board.Cells[n].Closed() {
			u.add(n)
		}
	}
	return u
}

/*
 * First local rule: a clue that equals its closed-neighbor count pins every
 * one of those neighbors as a mine.
 */
func (s *Solver) flagPass() {
	b := s.board
	for i := range b.Cells {
		if b.Finished {
			return
		}
		c := b.Cells[i]
		if !c.Opened || c.NearbyMines == 0 {
			continue
		}
		closed := 0
		for _, n := range b.Neighbors(i) {
			if !b.Cells[n].Opened {
				closed++
			}
		}
		if c.NearbyMines != closed {
			continue
		}
		for _, n := range b.Neighbors(i) {
			if b.Cells[n].Closed() {
				row, col := b.CoordsOf(n)
				s.logger.Debug("flagging", slog.Int("row", row), slog.Int("col", col))
				b.ToggleFlag(row, col)
			}
		}
	}
}

/*
 * Second local rule: a clue already satisfied by its flagged neighbors
 * makes every other closed neighbor safe to open.
 */
func (s *Solver) openPass() {
	b := s.board
	for i := range b.Cells {
		if b.Finished {
			return
		}
		c := b.Cells[i]
		if !c.Opened || c.NearbyMines != s.flaggedNeighbors(i) {
			continue
		}
		for _, n := range b.Neighbors(i) {
			if b.Cells[n].Closed() {
				row, col := b.CoordsOf(n)
				s.logger.Debug("opening", slog.Int("row", row), slog.Int("col", col))
				b.Reveal(row, col)
				if b.Finished {
					return
				}
			}
		}
	}
}

/*
 * Subset-difference strategy, used only on a stall. For opened clue cells
 * A and B with remaining counts rA >= rB > 0 and unresolved neighbor sets
 * UA != UB: when rA - rB == |UA \ UB|, the mines A still needs beyond B's
 * must all sit in A's private neighbors, so UA \ UB are mines and UB \ UA
 * are safe. Reports whether any cell changed.
 */
func (s *Solver) subsetPass() bool {
	b := s.board
	changed := false

	for ai := range b.Cells {
		if b.Finished {
			return changed
		}
		a := b.Cells[ai]
		if !a.Opened || a.NearbyMines == 0 {
			continue
		}
		ra := a.NearbyMines - s.flaggedNeighbors(ai)
		ua := s.unresolvedNeighbors(ai)
		if ra <= 0 || len(ua) == 0 {
			continue
		}

		for bi := range b.Cells {
			if b.Finished {
				return changed
			}
			if bi == ai {
				continue
			}
			other := b.Cells[bi]
			if !other.Opened || other.NearbyMines == 0 {
				continue
			}
			rb := other.NearbyMines - s.flaggedNeighbors(bi)
			if rb <= 0 || ra < rb {
				continue
			}
			ub := s.unresolvedNeighbors(bi)
			if len(ub) == 0 || ua.equal(ub) {
				continue
			}

			private := ua.diff(ub)
			if ra-rb != len(private) {
				continue
			}

			slices.Sort(private)
			for _, n := range private {
				if b.Cells[n].Closed() {
					row, col := b.CoordsOf(n)
					s.logger.Debug("subset flag", slog.Int("row", row), slog.Int("col", col))
					b.ToggleFlag(row, col)
					changed = true
				}
			}
			safe := ub.diff(ua)
			slices.Sort(safe)
			for _, n := range safe {
				if b.Cells[n].Closed() {
					row, col := b.CoordsOf(n)
					s.logger.Debug("subset open", slog.Int("row", row), slog.Int("col", col))
					b.Reveal(row, col)
					changed = true
				}
				if b.Finished {
					return changed
				}
			}

			// A's unresolved set is stale now, move on to the next clue.
			break
		}
	}
	return changed
}

// revealRandom opens one closed cell chosen uniformly at random. It is
// both the opening move and the strategy of last resort.
func (s *Solver) revealRandom() {
	b := s.board
	var candidates []int
	for i := range b.Cells {
		if b.Cells[i].Closed() {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return
	}
	row, col := b.CoordsOf(candidates[s.rnd.IntN(len(candidates))])
	s.logger.Debug("random reveal", slog.Int("row", row), slog.Int("col", col))
	b.Reveal(row, col)
}
