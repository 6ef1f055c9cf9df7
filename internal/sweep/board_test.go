package sweep_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xLinkOut/minesweeper/internal/sweep"
)

func mustBoard(t *testing.T, rows, cols int, mineAt ...int) *sweep.Board {
	t.Helper()
	b, err := sweep.NewBoardWithMines(rows, cols, mineAt...)
	require.NoError(t, err)
	return b
}

func countMines(b *sweep.Board) (count int) {
	for i := range b.Cells {
		if b.Cells[i].HasMine {
			count++
		}
	}
	return
}

func TestGenerateSafeZoneAndClues(t *testing.T) {
	b, err := sweep.NewBoard(sweep.Beginner, sweep.Seed{Hi: 17, Lo: 42})
	require.NoError(t, err)

	genesis := b.Index(4, 4)
	b.Reveal(4, 4)

	assert.Equal(t, b.MineCount, countMines(b), "exactly MineCount mines placed")
	assert.False(t, b.Cells[genesis].HasMine, "genesis cell must be safe")
	for _, n := range b.Neighbors(genesis) {
		assert.False(t, b.Cells[n].HasMine, "genesis neighbor %d must be safe", n)
	}

	for i := range b.Cells {
		want := 0
		for _, n := range b.Neighbors(i) {
			if b.Cells[n].HasMine {
				want++
			}
		}
		assert.Equal(t, want, b.Cells[i].NearbyMines, "clue at %d", i)
	}
}

func TestGenerateReproducible(t *testing.T) {
	seed := sweep.Seed{Hi: 1, Lo: 99}
	first, err := sweep.NewBoard(sweep.Expert, seed)
	require.NoError(t, err)
	second, err := sweep.NewBoard(sweep.Expert, seed)
	require.NoError(t, err)

	first.Reveal(8, 15)
	second.Reveal(8, 15)

	for i := range first.Cells {
		assert.Equal(t, first.Cells[i].HasMine, second.Cells[i].HasMine, "cell %d", i)
	}
}

func TestGenerateShrinksUnsatisfiableSafeZone(t *testing.T) {
	// 7 mines in a 3x3 leave no room for the genesis neighborhood.
	b, err := sweep.NewBoard(sweep.Params{Rows: 3, Cols: 3, MineCount: 7}, sweep.Seed{Hi: 5, Lo: 5})
	require.NoError(t, err)

	b.Reveal(1, 1)

	assert.False(t, b.Cells[b.Index(1, 1)].HasMine, "genesis cell stays safe")
	assert.Equal(t, 7, countMines(b))
}

func TestRevealFloodFillWinsOpenBoard(t *testing.T) {
	// Single corner mine: revealing the far corner floods every safe cell.
	b := mustBoard(t, 4, 4, 15)

	b.Reveal(0, 0)

	assert.True(t, b.Finished)
	assert.True(t, b.Won)
	assert.Equal(t, sweep.Won, b.Status())
	for i := range b.Cells {
		assert.True(t, b.Cells[i].Opened, "cell %d opened after win", i)
	}
}

func TestRevealIsIdempotent(t *testing.T) {
	b := mustBoard(t, 4, 4, 0)

	upd := b.Reveal(0, 1)
	require.Len(t, upd, 1, "numbered cell opens alone")
	snapshot := make([]sweep.Cell, len(b.Cells))
	copy(snapshot, b.Cells)

	assert.Nil(t, b.Reveal(0, 1), "second reveal is a no-op")
	assert.Equal(t, snapshot, b.Cells)
}

func TestRevealSkipsFlaggedCells(t *testing.T) {
	b := mustBoard(t, 4, 4, 15)

	b.ToggleFlag(1, 1)
	b.Reveal(0, 0)

	flagged := b.Cells[b.Index(1, 1)]
	assert.True(t, flagged.Flagged)
	assert.False(t, flagged.Opened, "flood fill must not open a flagged cell")
	assert.False(t, b.Finished, "safe cell left closed, mine left unflagged")

	assert.Nil(t, b.Reveal(1, 1), "revealing a flagged cell is a no-op")
}

func TestRevealMineLosesAndExposesBoard(t *testing.T) {
	b := mustBoard(t, 3, 3, 4)

	b.Reveal(1, 1)

	assert.True(t, b.Finished)
	assert.False(t, b.Won)
	assert.Equal(t, sweep.Lost, b.Status())
	for i := range b.Cells {
		assert.True(t, b.Cells[i].Opened, "cell %d exposed after loss", i)
	}

	assert.Nil(t, b.Reveal(0, 0), "no moves after the game finished")
	assert.Nil(t, b.ToggleFlag(0, 0))
	assert.Nil(t, b.Chord(1, 1))
}

func TestToggleFlag(t *testing.T) {
	b := mustBoard(t, 3, 3, 0)
	b.Reveal(0, 1)

	require.NotNil(t, b.ToggleFlag(2, 2))
	assert.True(t, b.Cells[b.Index(2, 2)].Flagged)

	require.NotNil(t, b.ToggleFlag(2, 2))
	assert.False(t, b.Cells[b.Index(2, 2)].Flagged, "second toggle removes the flag")

	assert.Nil(t, b.ToggleFlag(0, 1), "opened cells cannot be flagged")
	assert.Nil(t, b.ToggleFlag(5, 5), "out of bounds is a no-op")
}

func TestToggleFlagBeforeFirstReveal(t *testing.T) {
	b, err := sweep.NewBoard(sweep.Beginner, sweep.RandomSeed())
	require.NoError(t, err)

	assert.Nil(t, b.ToggleFlag(0, 0), "flagging an unmined board is a no-op")
	assert.False(t, b.Cells[0].Flagged)
}

func TestWinByFlaggingAllMines(t *testing.T) {
	b := mustBoard(t, 3, 3, 4)

	b.Reveal(0, 0)
	require.False(t, b.Finished)

	b.ToggleFlag(1, 1)

	assert.True(t, b.Finished)
	assert.True(t, b.Won)
	center := b.Cells[b.Index(1, 1)]
	assert.True(t, center.Flagged, "flag kept on the finished board")
	assert.False(t, center.Opened)
	for i := range b.Cells {
		if i != b.Index(1, 1) {
			assert.True(t, b.Cells[i].Opened, "safe cell %d exposed after win", i)
		}
	}
}

func TestWinByOpeningAllSafeCells(t *testing.T) {
	b := mustBoard(t, 3, 3, 0)

	for i := 1; i < 9; i++ {
		row, col := b.CoordsOf(i)
		b.Reveal(row, col)
	}

	assert.True(t, b.Finished)
	assert.True(t, b.Won, "opening every safe cell wins without any flags")
}

func TestChordOpensNeighborsWhenFlagsMatch(t *testing.T) {
	b := mustBoard(t, 3, 3, 0)
	b.Reveal(0, 1)
	b.ToggleFlag(0, 0)

	upd := b.Chord(0, 1)

	require.NotNil(t, upd)
	assert.True(t, b.Finished)
	assert.True(t, b.Won, "chord floods the zero region and clears the board")
	assert.False(t, b.Cells[0].Opened, "flagged mine stays closed")
}

func TestChordIsNoopWhenFlagsMismatch(t *testing.T) {
	b := mustBoard(t, 3, 3, 0)
	b.Reveal(0, 1)
	snapshot := make([]sweep.Cell, len(b.Cells))
	copy(snapshot, b.Cells)

	assert.Nil(t, b.Chord(0, 1), "no flags placed, clue unsatisfied")
	assert.Equal(t, snapshot, b.Cells)

	assert.Nil(t, b.Chord(2, 2), "chording a closed cell is a no-op")
}

func TestChordOnMisplacedFlagLoses(t *testing.T) {
	b := mustBoard(t, 3, 3, 0)
	b.Reveal(0, 1)
	b.ToggleFlag(1, 0) // wrong cell, the mine sits at (0, 0)

	b.Chord(0, 1)

	assert.True(t, b.Finished)
	assert.False(t, b.Won)
	assert.True(t, b.Cells[0].Opened, "the mine was hit")
}

func TestForfeit(t *testing.T) {
	b, err := sweep.NewBoard(sweep.Expert, sweep.Seed{Hi: 2, Lo: 3})
	require.NoError(t, err)
	assert.Nil(t, b.Forfeit(), "nothing to forfeit before the first reveal")

	b.Reveal(0, 0)
	require.False(t, b.Finished, "99 mines cannot be cleared by one reveal")

	require.NotNil(t, b.Forfeit())
	assert.True(t, b.Finished)
	assert.False(t, b.Won)
	assert.Nil(t, b.Forfeit(), "forfeiting twice is a no-op")
}

func TestViewHidesClosedMines(t *testing.T) {
	b := mustBoard(t, 3, 3, 4)
	b.Reveal(0, 0)
	b.ToggleFlag(2, 2)

	view := b.View()
	assert.Equal(t, int8(1), view[0])
	assert.Equal(t, sweep.ViewClosed, view[b.Index(1, 1)], "closed mine stays opaque")
	assert.Equal(t, sweep.ViewFlagged, view[b.Index(2, 2)])

	b.ToggleFlag(2, 2)
	b.Reveal(1, 1)
	assert.Equal(t, sweep.ViewMine, b.View()[b.Index(1, 1)], "mine shown once revealed")
}

func TestBoardGobRoundTrip(t *testing.T) {
	b, err := sweep.NewBoard(sweep.Intermediate, sweep.Seed{Hi: 3, Lo: 7})
	require.NoError(t, err)
	b.Reveal(8, 8)
	b.ToggleFlag(0, 0)

	buf, err := b.Bytes()
	require.NoError(t, err)
	restored, err := sweep.DecodeBoard(buf)
	require.NoError(t, err)

	assert.Equal(t, b.Params, restored.Params)
	assert.Equal(t, b.Seed, restored.Seed)
	assert.Equal(t, b.FirstMove, restored.FirstMove)
	assert.Equal(t, b.Cells, restored.Cells)

	// The rebuilt neighbor cache must support further play.
	assert.Equal(t, b.View(), restored.View())
	restored.Reveal(0, 1)
}

func TestBoardGobRoundTripBeforeFirstReveal(t *testing.T) {
	b, err := sweep.NewBoard(sweep.Beginner, sweep.Seed{Hi: 11, Lo: 13})
	require.NoError(t, err)

	buf, err := b.Bytes()
	require.NoError(t, err)
	restored, err := sweep.DecodeBoard(buf)
	require.NoError(t, err)

	require.True(t, restored.FirstMove)
	restored.Reveal(4, 4)
	assert.Equal(t, restored.MineCount, countMines(restored), "deferred generation survives the round-trip")
}
