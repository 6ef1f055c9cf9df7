package sweep

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log/slog"

	"github.com/gammazero/deque"
)

var Log *slog.Logger = slog.Default()

// Status is the lifecycle of a single game.
type Status int

const (
	Playing Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "playing"
	}
}

// Board owns the cell arena for one game. Mines are placed lazily on the
// first reveal so that the genesis cell and its neighbors stay safe.
//
// State fields are exported for gob round-trips; the neighbor cache is
// derived data and gets rebuilt on decode.
type Board struct {
	Params
	Seed      Seed
	Cells     []Cell
	FirstMove bool
	Finished  bool
	Won       bool
	neighbors [][]int
}

// NewBoard creates a fresh, unmined board. The seed fixes the mine layout
// that the first reveal will generate.
func NewBoard(p Params, seed Seed) (*Board, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	b := &Board{Params: p, Seed: seed, FirstMove: true}
	b.Cells = make([]Cell, p.CellCount())
	for i := range b.Cells {
		b.Cells[i] = Cell{Row: i / p.Cols, Col: i % p.Cols}
	}
	b.buildNeighbors()
	return b, nil
}

// NewBoardWithMines creates a board with a fixed mine layout, bypassing
// deferred generation. Used for deterministic replays and tests.
func NewBoardWithMines(rows, cols int, mineAt ...int) (*Board, error) {
	p := Params{Rows: rows, Cols: cols, MineCount: len(mineAt)}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	b, err := NewBoard(p, Seed{})
	if err != nil {
		return nil, err
	}
	for _, i := range mineAt {
		if i < 0 || i >= len(b.Cells) {
			return nil, fmt.Errorf("mine index %d out of range", i)
		}
		if b.Cells[i].HasMine {
			return nil, fmt.Errorf("duplicate mine index %d", i)
		}
		b.Cells[i].HasMine = true
		for _, n := range b.neighbors[i] {
			b.Cells[n].NearbyMines++
		}
	}
	b.FirstMove = false
	return b, nil
}

// DecodeBoard restores a board from its gob form.
func DecodeBoard(buf []byte) (*Board, error) {
	var b Board
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&b); err != nil {
		return nil, err
	}
	b.buildNeighbors()
	return &b, nil
}

// Bytes serializes the board with gob.
func (b *Board) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Board) buildNeighbors() {
	b.neighbors = make([][]int, len(b.Cells))
	for i := range b.Cells {
		row, col := i/b.Cols, i%b.Cols
		ns := make([]int, 0, 8)
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				if b.InBounds(row+dr, col+dc) {
					ns = append(ns, (row+dr)*b.Cols+(col+dc))
				}
			}
		}
		b.neighbors[i] = ns
	}
}

func (b *Board) Index(row, col int) int {
	return row*b.Cols + col
}

func (b *Board) CoordsOf(i int) (row, col int) {
	return i / b.Cols, i % b.Cols
}

// Neighbors returns the cached indices of the up-to-8 cells adjacent to i.
// The returned slice is shared; callers must not mutate it.
func (b *Board) Neighbors(i int) []int {
	return b.neighbors[i]
}

func (b *Board) Status() Status {
	switch {
	case !b.Finished:
		return Playing
	case b.Won:
		return Won
	default:
		return Lost
	}
}

/*
 * Place mines by rejection sampling: draw uniform coordinates, throw away
 * anything that hits the genesis cell, its neighbors, or an existing mine.
 * Clue counts are bumped as each mine lands, so they are written exactly
 * once per game.
 */
func (b *Board) generate(genesis int) {
	r := b.Seed.rand()

	safe := make(map[int]bool, 9)
	safe[genesis] = true
	for _, n := range b.neighbors[genesis] {
		safe[n] = true
	}
	if b.CellCount()-len(safe) < b.MineCount {
		/* Not enough room to keep the whole 3x3 zone clear. */
		Log.Warn("mine count too high to honor safe zone, only genesis cell is kept clear",
			slog.Int("rows", b.Rows),
			slog.Int("cols", b.Cols),
			slog.Int("mine_count", b.MineCount),
		)
		safe = map[int]bool{genesis: true}
	}

	for placed := 0; placed < b.MineCount; {
		i := b.Index(r.IntN(b.Rows), r.IntN(b.Cols))
		if safe[i] || b.Cells[i].HasMine {
			continue
		}
		b.Cells[i].HasMine = true
		placed++
		for _, n := range b.neighbors[i] {
			b.Cells[n].NearbyMines++
		}
	}
}

func (b *Board) snapshot(i int) CellUpdate {
	c := b.Cells[i]
	return CellUpdate{
		Row:         c.Row,
		Col:         c.Col,
		Opened:      c.Opened,
		Flagged:     c.Flagged,
		NearbyMines: c.NearbyMines,
		HasMine:     c.HasMine,
	}
}

func (b *Board) open(i int, upd *BoardUpdate) {
	b.Cells[i].Opened = true
	*upd = append(*upd, b.snapshot(i))
}

/*
 * Open the connected region of zero-clue cells plus its numbered border.
 * An explicit work queue replaces call-stack recursion so depth is not an
 * issue on large grids; flagged cells are never opened and mines are never
 * reachable from a zero-clue cell.
 */
func (b *Board) floodFill(start int, upd *BoardUpdate) {
	var todo deque.Deque[int]
	todo.PushBack(start)
	for todo.Len() > 0 {
		i := todo.PopFront()
		if b.Cells[i].Opened || b.Cells[i].Flagged {
			continue
		}
		b.open(i, upd)
		if b.Cells[i].NearbyMines > 0 {
			continue
		}
		for _, n := range b.neighbors[i] {
			if b.Cells[n].Closed() {
				todo.PushBack(n)
			}
		}
	}
}

// Reveal opens the cell at (row, col). The very first reveal of a game
// triggers mine placement with this cell as the genesis cell. Revealing an
// opened or flagged cell is a no-op. Hitting a mine finishes the game.
func (b *Board) Reveal(row, col int) BoardUpdate {
	if b.Finished || !b.InBounds(row, col) {
		return nil
	}
	i := b.Index(row, col)
	if b.FirstMove {
		b.generate(i)
		b.FirstMove = false
	}
	c := b.Cells[i]
	if c.Opened || c.Flagged {
		return nil
	}

	var upd BoardUpdate
	switch {
	case c.HasMine:
		b.open(i, &upd)
		b.finish(false, &upd)
		return upd
	case c.NearbyMines == 0:
		b.floodFill(i, &upd)
	default:
		b.open(i, &upd)
	}

	if b.checkWin() {
		b.finish(true, &upd)
	}
	return upd
}

// ToggleFlag inverts the flag on a closed cell. Flagging before the first
// reveal or on an opened cell is a no-op.
func (b *Board) ToggleFlag(row, col int) BoardUpdate {
	if b.Finished || b.FirstMove || !b.InBounds(row, col) {
		return nil
	}
	i := b.Index(row, col)
	if b.Cells[i].Opened {
		return nil
	}
	b.Cells[i].Flagged = !b.Cells[i].Flagged

	upd := BoardUpdate{b.snapshot(i)}
	if b.checkWin() {
		b.finish(true, &upd)
	}
	return upd
}

// Chord reveals every non-flagged neighbor of an opened numbered cell,
// provided the number of flagged neighbors matches its clue. A wrong flag
// makes the chord hit a mine, which ends the game immediately.
func (b *Board) Chord(row, col int) BoardUpdate {
	if b.Finished || !b.InBounds(row, col) {
		return nil
	}
	i := b.Index(row, col)
	c := b.Cells[i]
	if !c.Opened || c.Flagged || c.NearbyMines == 0 {
		return nil
	}

	flags := 0
	for _, n := range b.neighbors[i] {
		if b.Cells[n].Flagged {
			flags++
		}
	}
	if flags != c.NearbyMines {
		return nil
	}

	var upd BoardUpdate
	for _, n := range b.neighbors[i] {
		nc := b.Cells[n]
		if nc.Opened || nc.Flagged {
			continue
		}
		if nc.HasMine {
			b.open(n, &upd)
			b.finish(false, &upd)
			return upd
		}
		if nc.NearbyMines == 0 {
			b.floodFill(n, &upd)
		} else {
			b.open(n, &upd)
		}
	}

	if b.checkWin() {
		b.finish(true, &upd)
	}
	return upd
}

// Forfeit ends the game as a loss and exposes the whole board. Forfeiting
// before the first reveal or after the game finished is a no-op.
func (b *Board) Forfeit() BoardUpdate {
	if b.Finished || b.FirstMove {
		return nil
	}
	var upd BoardUpdate
	b.finish(false, &upd)
	return upd
}

/*
 * The game is won when every mine-free cell is opened or every mine is
 * flagged; either alone suffices. Pure scan over the arena.
 */
func (b *Board) checkWin() bool {
	allSafeOpened, allMinesFlagged := true, true
	for i := range b.Cells {
		if b.Cells[i].HasMine {
			if !b.Cells[i].Flagged {
				allMinesFlagged = false
			}
		} else if !b.Cells[i].Opened {
			allSafeOpened = false
		}
	}
	return allSafeOpened || allMinesFlagged
}

/*
 * Terminal transition: open everything left closed so the full board can
 * be displayed. Flags are kept in place, never overwritten. Finished is
 * monotonic; this is the only place it is set.
 */
func (b *Board) finish(won bool, upd *BoardUpdate) {
	b.Finished = true
	b.Won = won
	for i := range b.Cells {
		if b.Cells[i].Opened || b.Cells[i].Flagged {
			continue
		}
		b.Cells[i].Opened = true
		*upd = append(*upd, b.snapshot(i))
	}
}
