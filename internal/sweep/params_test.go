package sweep_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xLinkOut/minesweeper/internal/sweep"
)

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		params  sweep.Params
		wantErr bool
	}{
		{"beginner", sweep.Beginner, false},
		{"intermediate", sweep.Intermediate, false},
		{"expert", sweep.Expert, false},
		{"custom", sweep.Params{Rows: 4, Cols: 4, MineCount: 1}, false},
		{"zero rows", sweep.Params{Rows: 0, Cols: 4, MineCount: 1}, true},
		{"negative cols", sweep.Params{Rows: 4, Cols: -1, MineCount: 1}, true},
		{"zero mines", sweep.Params{Rows: 4, Cols: 4, MineCount: 0}, true},
		{"too many mines", sweep.Params{Rows: 4, Cols: 4, MineCount: 16}, true},
		{"almost too many mines", sweep.Params{Rows: 4, Cols: 4, MineCount: 15}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.params.Validate()
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPresetParams(t *testing.T) {
	p, err := sweep.PresetParams("beginner")
	require.NoError(t, err)
	assert.Equal(t, sweep.Beginner, p)

	p, err = sweep.PresetParams("EXPERT")
	require.NoError(t, err)
	assert.Equal(t, sweep.Expert, p)

	_, err = sweep.PresetParams("nightmare")
	assert.Error(t, err)
}

func TestNewBoardRejectsInvalidParams(t *testing.T) {
	_, err := sweep.NewBoard(sweep.Params{Rows: 2, Cols: 2, MineCount: 4}, sweep.RandomSeed())
	assert.Error(t, err)
}
