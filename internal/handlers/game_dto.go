package handlers

import (
	"fmt"
	"strconv"

	"github.com/gorilla/schema"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/xLinkOut/minesweeper/internal/repository"
	"github.com/xLinkOut/minesweeper/internal/sweep"
)

// CreateGameDTO accepts either a named preset or a full custom geometry,
// never both. A non-zero seed pins the mine layout for replays.
type CreateGameDTO struct {
	Preset    string `schema:"preset"`
	Rows      int    `schema:"rows"`
	Cols      int    `schema:"cols"`
	MineCount int    `schema:"mine_count"`
	Seed      uint64 `schema:"seed"`
}

func ParseCreateGameDTO(src map[string][]string) (CreateGameDTO, error) {
	var dto CreateGameDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

func (dto CreateGameDTO) Params() (sweep.Params, error) {
	custom := dto.Rows != 0 || dto.Cols != 0 || dto.MineCount != 0
	switch {
	case dto.Preset != "" && custom:
		return sweep.Params{}, fmt.Errorf("preset cannot be combined with rows/cols/mine_count")
	case dto.Preset != "":
		return sweep.PresetParams(dto.Preset)
	case custom:
		p := sweep.Params{Rows: dto.Rows, Cols: dto.Cols, MineCount: dto.MineCount}
		return p, p.Validate()
	default:
		return sweep.Params{}, fmt.Errorf("either preset or rows/cols/mine_count must be set")
	}
}

type PositionDTO struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func ParsePosition(src map[string][]string) (PositionDTO, error) {
	var dto PositionDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

type GameMove string

const (
	Open  GameMove = "open"
	Flag  GameMove = "flag"
	Chord GameMove = "chord"
)

func ParseGameMove(s string) (GameMove, error) {
	switch GameMove(s) {
	case Open, Flag, Chord:
		return GameMove(s), nil
	default:
		return "", fmt.Errorf("move must be one of open, flag, chord")
	}
}

// GameSessionDTO is the wire shape of one game. Grid is the player view of
// the board, row-major, using the sweep view codes.
type GameSessionDTO struct {
	GameSessionId string `json:"game_session_id"`
	Grid          []int8 `json:"grid"`
	Rows          int    `json:"rows"`
	Cols          int    `json:"cols"`
	MineCount     int    `json:"mine_count"`
	Status        string `json:"status"`
	StartedAt     int64  `json:"started_at"`
	EndedAt       *int64 `json:"ended_at,omitempty"`
}

func NewGameSessionDTO(session *repository.GameSession, board *sweep.Board) *GameSessionDTO {
	return &GameSessionDTO{
		GameSessionId: strconv.FormatInt(session.GameSessionId, 10),
		Grid:          board.View(),
		Rows:          board.Rows,
		Cols:          board.Cols,
		MineCount:     board.MineCount,
		Status:        board.Status().String(),
		StartedAt:     session.StartedAt.Time.UnixMilli(),
		EndedAt:       unixMilliOrNil(session.EndedAt),
	}
}

func unixMilliOrNil(ts pgtype.Timestamptz) *int64 {
	if !ts.Valid {
		return nil
	}
	ms := ts.Time.UnixMilli()
	return &ms
}
