package solver

import (
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xLinkOut/minesweeper/internal/sweep"
)

func testSolver(t *testing.T, b *sweep.Board) *Solver {
	t.Helper()
	return New(b, rand.New(rand.NewPCG(1, 2)), slog.Default())
}

func mustBoard(t *testing.T, rows, cols int, mineAt ...int) *sweep.Board {
	t.Helper()
	b, err := sweep.NewBoardWithMines(rows, cols, mineAt...)
	require.NoError(t, err)
	return b
}

func TestFlagPassPinsForcedMines(t *testing.T) {
	// 1x4 strip, mine on the left end. Revealing the right end floods up to
	// the clue at index 1, whose only closed neighbor must be the mine.
	b := mustBoard(t, 1, 4, 0)
	b.Reveal(0, 3)
	require.False(t, b.Finished)

	s := testSolver(t, b)
	s.flagPass()

	assert.True(t, b.Cells[0].Flagged)
	assert.False(t, b.Cells[0].Opened)
	assert.True(t, b.Won, "flagging the last mine wins the game")
}

func TestOpenPassOpensSatisfiedNeighbors(t *testing.T) {
	// Two mines so that flagging one of them does not already win.
	b := mustBoard(t, 3, 4, 5, 7)
	b.Reveal(1, 0)
	require.False(t, b.Finished)
	b.ToggleFlag(1, 1)

	s := testSolver(t, b)
	s.openPass()

	// The clue at (1, 0) is satisfied by the flag, so its remaining
	// neighbors are safe to open.
	for _, i := range []int{0, 1, 8, 9} {
		assert.True(t, b.Cells[i].Opened, "cell %d", i)
	}
	assert.False(t, b.Finished, "the second mine is still unaccounted for")
}

func TestSubsetPassFlagsPrivateNeighbors(t *testing.T) {
	// Top row closed with mines at 1 and 2, bottom row fully revealed with
	// clues 1 2 2 1. No clue equals its closed-neighbor count, so the local
	// passes stall; the pair (clue 2 at index 5, clue 1 at index 4) forces a
	// mine in the private neighbor set {2}.
	b := mustBoard(t, 2, 4, 1, 2)
	for col := range 4 {
		b.Reveal(1, col)
	}
	require.False(t, b.Finished)

	s := testSolver(t, b)
	s.flagPass()
	s.openPass()
	require.False(t, b.Cells[1].Flagged, "local passes alone must stall here")
	require.False(t, b.Cells[2].Flagged)

	changed := s.subsetPass()

	assert.True(t, changed)
	assert.True(t, b.Cells[2].Flagged, "private neighbor of the larger clue is a mine")
	assert.False(t, b.Cells[1].Opened, "subset pass never opens a mine")
	assert.False(t, b.Cells[2].Opened)
}

func TestSolveByDeductionOnly(t *testing.T) {
	// Same layout as above: solvable end to end without a single guess, so
	// the outcome is independent of the RNG.
	b := mustBoard(t, 2, 4, 1, 2)
	for col := range 4 {
		b.Reveal(1, col)
	}

	s := testSolver(t, b)

	assert.True(t, s.Solve())
	assert.Equal(t, Won, s.State())
	assert.True(t, b.Cells[1].Flagged)
	assert.True(t, b.Cells[2].Flagged)
	assert.True(t, b.Cells[0].Opened)
	assert.True(t, b.Cells[3].Opened)
}

func TestSolveTrivialBoard(t *testing.T) {
	// One corner mine: any flood fill reaches the whole safe region, so the
	// first deduction round finishes the game.
	b := mustBoard(t, 4, 4, 15)
	b.Reveal(0, 0)

	s := testSolver(t, b)

	assert.True(t, s.Solve())
	assert.Equal(t, Won, s.State())
}

func TestSolveAcceptsLossOnGuess(t *testing.T) {
	// A 1x3 strip with the mine in the middle leaves no deduction: the
	// solver opens cells until it either wins or steps on the mine. Either
	// way Solve terminates and the state matches the board outcome.
	b := mustBoard(t, 1, 3, 1)

	s := testSolver(t, b)
	won := s.Solve()

	assert.True(t, b.Finished)
	assert.Equal(t, b.Won, won)
	if won {
		assert.Equal(t, Won, s.State())
	} else {
		assert.Equal(t, Lost, s.State())
	}
}

func TestSolveFreshBoardReproducible(t *testing.T) {
	play := func() bool {
		b, err := sweep.NewBoard(sweep.Beginner, sweep.Seed{Hi: 21, Lo: 34})
		require.NoError(t, err)
		return New(b, rand.New(rand.NewPCG(55, 89)), slog.Default()).Solve()
	}

	first := play()
	for range 3 {
		assert.Equal(t, first, play(), "same board seed and solver seed, same outcome")
	}
}

func TestSolverStateString(t *testing.T) {
	assert.Equal(t, "not started", NotStarted.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "won", Won.String())
	assert.Equal(t, "lost", Lost.String())
}
