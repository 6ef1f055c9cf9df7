package sweep

import (
	"strconv"
	"strings"
)

// Player-visible cell codes. 0-8 are opened clues.
const (
	ViewClosed  int8 = -2
	ViewFlagged int8 = -1
	ViewMine    int8 = 9
)

// View renders the board as the player is allowed to see it: closed cells
// stay opaque, so the view never leaks unrevealed mines.
func (b *Board) View() []int8 {
	out := make([]int8, len(b.Cells))
	for i, c := range b.Cells {
		switch {
		case c.Flagged:
			out[i] = ViewFlagged
		case !c.Opened:
			out[i] = ViewClosed
		case c.HasMine:
			out[i] = ViewMine
		default:
			out[i] = int8(c.NearbyMines)
		}
	}
	return out
}

// String draws the player view as a text grid, one row per line.
func (b *Board) String() string {
	var sb strings.Builder
	view := b.View()
	for row := range b.Rows {
		for col := range b.Cols {
			switch v := view[row*b.Cols+col]; v {
			case ViewClosed:
				sb.WriteString("- ")
			case ViewFlagged:
				sb.WriteString("F ")
			case ViewMine:
				sb.WriteString("* ")
			default:
				sb.WriteString(strconv.Itoa(int(v)) + " ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
