package handlers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xLinkOut/minesweeper/internal/sweep"
)

func TestCreateGameDTOParams(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    sweep.Params
		wantErr bool
	}{
		{"preset", "preset=beginner", sweep.Beginner, false},
		{"custom", "rows=10&cols=12&mine_count=20", sweep.Params{Rows: 10, Cols: 12, MineCount: 20}, false},
		{"preset and custom", "preset=expert&rows=10&cols=12&mine_count=20", sweep.Params{}, true},
		{"nothing", "", sweep.Params{}, true},
		{"unknown preset", "preset=impossible", sweep.Params{}, true},
		{"partial custom", "rows=10", sweep.Params{}, true},
		{"too many mines", "rows=3&cols=3&mine_count=9", sweep.Params{}, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			query, err := url.ParseQuery(test.query)
			require.NoError(t, err)

			dto, err := ParseCreateGameDTO(query)
			require.NoError(t, err)

			params, err := dto.Params()
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, params)
		})
	}
}

func TestParseGameMove(t *testing.T) {
	for _, valid := range []string{"open", "flag", "chord"} {
		move, err := ParseGameMove(valid)
		require.NoError(t, err)
		assert.Equal(t, GameMove(valid), move)
	}

	_, err := ParseGameMove("detonate")
	assert.Error(t, err)

	_, err = ParseGameMove("")
	assert.Error(t, err)
}

func TestParsePosition(t *testing.T) {
	pos, err := ParsePosition(url.Values{"row": {"3"}, "col": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, PositionDTO{Row: 3, Col: 5}, pos)

	_, err = ParsePosition(url.Values{"row": {"3"}})
	assert.Error(t, err, "col is required")
}
