package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/xLinkOut/minesweeper/internal/sweep"
)

// GameSession mirrors the game_session table. State holds the gob-encoded
// board; the scalar columns are duplicated out of it so highscore queries
// never have to decode a blob.
type GameSession struct {
	GameSessionId int64
	PlayerId      *int64
	Rows          int
	Cols          int
	MineCount     int
	Finished      bool
	Won           bool
	StartedAt     pgtype.Timestamptz
	EndedAt       pgtype.Timestamptz
	State         []byte
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

// Board decodes the stored state blob.
func (s GameSession) Board() (*sweep.Board, error) {
	return sweep.DecodeBoard(s.State)
}

func (q Queries) CreateGameSession(
	ctx context.Context, board *sweep.Board, playerId *int64,
) (*GameSession, error) {
	state, err := board.Bytes()
	if err != nil {
		return nil, err
	}

	args := pgx.NamedArgs{
		"rows":       board.Rows,
		"cols":       board.Cols,
		"mine_count": board.MineCount,
		"finished":   board.Finished,
		"won":        board.Won,
		"state":      state,
	}
	if playerId != nil {
		args["player_id"] = *playerId
	}

	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_session (
			player_id, "rows", cols, mine_count, finished, won, state
		)
		VALUES (
			@player_id, @rows, @cols, @mine_count, @finished, @won, @state
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(
		rows, pgx.RowToAddrOfStructByName[GameSession],
	)
}

func (q Queries) FetchGameSession(ctx context.Context, gameSessionId int64) (*GameSession, error) {
	rows, _ := q.db.Query(
		ctx,
		"SELECT * FROM game_session WHERE game_session_id = $1",
		gameSessionId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}

type UpdateGameSessionParams struct {
	Finished *bool
	Won      *bool
	EndedAt  *time.Time
	State    *[]byte
}

func (p UpdateGameSessionParams) SetClause() (string, pgx.NamedArgs) {
	parts := []string{"updated_at = now()"}
	args := pgx.NamedArgs{}

	if p.Finished != nil {
		parts = append(parts, "finished = @finished")
		args["finished"] = *p.Finished
	}
	if p.Won != nil {
		parts = append(parts, "won = @won")
		args["won"] = *p.Won
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}

	return strings.Join(parts, ", "), args
}

func (q Queries) UpdateGameSession(
	ctx context.Context, gameSessionId int64, params UpdateGameSessionParams,
) (*GameSession, error) {
	setClause, args := params.SetClause()
	args["game_session_id"] = gameSessionId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE game_session SET "+setClause+" WHERE game_session_id = @game_session_id RETURNING *",
		args,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[GameSession])
}

// SaveBoard writes the board state back into its session, stamping ended_at
// the first time the game finishes.
func (q Queries) SaveBoard(
	ctx context.Context, session *GameSession, board *sweep.Board,
) (*GameSession, error) {
	state, err := board.Bytes()
	if err != nil {
		return nil, err
	}
	params := UpdateGameSessionParams{
		Finished: &board.Finished,
		Won:      &board.Won,
		State:    &state,
	}
	if board.Finished && !session.EndedAt.Valid {
		now := time.Now().UTC()
		params.EndedAt = &now
	}
	return q.UpdateGameSession(ctx, session.GameSessionId, params)
}
