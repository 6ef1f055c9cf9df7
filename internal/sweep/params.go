package sweep

import (
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"strings"
)

// Params describe a board: grid dimensions and how many mines it hides.
type Params struct {
	Rows      int `schema:"rows,required"`
	Cols      int `schema:"cols,required"`
	MineCount int `schema:"mine_count,required"`
}

// Classic difficulty presets.
var (
	Beginner     = Params{Rows: 9, Cols: 9, MineCount: 10}
	Intermediate = Params{Rows: 16, Cols: 16, MineCount: 40}
	Expert       = Params{Rows: 16, Cols: 30, MineCount: 99}
)

var presets = map[string]Params{
	"beginner":     Beginner,
	"intermediate": Intermediate,
	"expert":       Expert,
}

// PresetParams resolves a difficulty name to its Params.
func PresetParams(name string) (Params, error) {
	p, ok := presets[strings.ToLower(name)]
	if !ok {
		return Params{}, fmt.Errorf("unknown difficulty %q", name)
	}
	return p, nil
}

func (p Params) Validate() error {
	if p.Rows <= 0 || p.Cols <= 0 {
		return fmt.Errorf("invalid grid size %dx%d", p.Rows, p.Cols)
	}
	if p.MineCount <= 0 || p.MineCount >= p.Rows*p.Cols {
		return fmt.Errorf(
			"mine count must be in (0, %d), got %d",
			p.Rows*p.Cols, p.MineCount,
		)
	}
	return nil
}

func (p Params) CellCount() int {
	return p.Rows * p.Cols
}

func (p Params) InBounds(row, col int) bool {
	return 0 <= row && row < p.Rows && 0 <= col && col < p.Cols
}

// Seed is the explicit RNG state a board is created with. Two boards with
// the same seed and the same genesis cell produce identical mine layouts.
type Seed struct {
	Hi, Lo uint64
}

// RandomSeed draws process entropy for a non-reproducible game.
func RandomSeed() Seed {
	return Seed{
		Hi: new(maphash.Hash).Sum64(),
		Lo: new(maphash.Hash).Sum64(),
	}
}

func (s Seed) rand() *rand.Rand {
	return rand.New(rand.NewPCG(s.Hi, s.Lo))
}
