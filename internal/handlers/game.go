package handlers

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xLinkOut/minesweeper/internal/config"
	"github.com/xLinkOut/minesweeper/internal/middleware"
	"github.com/xLinkOut/minesweeper/internal/repository"
	"github.com/xLinkOut/minesweeper/internal/solver"
	"github.com/xLinkOut/minesweeper/internal/sweep"
)

type GameHandler struct {
	logger *slog.Logger
	repo   *repository.Queries
	ws     *config.WebSocket
	rnd    *rand.Rand
}

func NewGameHandler(
	logger *slog.Logger,
	db *pgxpool.Pool,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *GameHandler {
	return &GameHandler{
		logger: logger,
		repo:   repository.New(db),
		ws:     ws,
		rnd:    rnd,
	}
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateGameDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.logger, wrapError(err))
		return
	}

	params, err := dto.Params()
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.logger, wrapError(err))
		return
	}

	seed := sweep.Seed{Hi: g.rnd.Uint64(), Lo: g.rnd.Uint64()}
	if dto.Seed != 0 {
		seed = sweep.Seed{Hi: dto.Seed}
	}

	board, err := sweep.NewBoard(params, seed)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to create board", "error", err)
		return
	}

	var playerId *int64
	claims, loggedIn := r.Context().Value(middleware.CtxPlayerClaims).(*config.PlayerClaims)
	if loggedIn {
		g.logger.Debug("creating player session", "claims", claims)
		playerId = &claims.PlayerId
	} else {
		g.logger.Debug("creating anonymous session")
	}

	session, err := g.repo.CreateGameSession(r.Context(), board, playerId)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to create game session", "error", err)
		return
	}

	sendJSONOrLog(w, g.logger, NewGameSessionDTO(session, board))
}

// loadSession fetches a session by the {id} path value and decodes its
// board, writing the error response itself on failure.
func (g GameHandler) loadSession(
	w http.ResponseWriter, r *http.Request,
) (*repository.GameSession, *sweep.Board, bool) {
	sessionId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, nil, false
	}

	session, err := g.repo.FetchGameSession(r.Context(), sessionId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to fetch session from db", "error", err)
		return nil, nil, false
	}

	board, err := session.Board()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("db returned invalid game_session.state", "error", err)
		return nil, nil, false
	}
	return session, board, true
}

func (g GameHandler) saveAndRespond(
	ctx context.Context, w http.ResponseWriter,
	session *repository.GameSession, board *sweep.Board,
) {
	updated, err := g.repo.SaveBoard(ctx, session, board)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to update session in db", "error", err)
		return
	}
	sendJSONOrLog(w, g.logger, NewGameSessionDTO(updated, board))
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	session, board, ok := g.loadSession(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.logger, NewGameSessionDTO(session, board))
}

func (g GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	move, err := ParseGameMove(query.Get("move"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.logger, wrapError(err))
		return
	}

	pos, err := ParsePosition(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.logger, wrapError(err))
		return
	}

	session, board, ok := g.loadSession(w, r)
	if !ok {
		return
	}

	if !board.InBounds(pos.Row, pos.Col) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch move {
	case Open:
		board.Reveal(pos.Row, pos.Col)
	case Flag:
		board.ToggleFlag(pos.Row, pos.Col)
	case Chord:
		board.Chord(pos.Row, pos.Col)
	}

	g.saveAndRespond(r.Context(), w, session, board)
}

// Solve hands the board over to the autosolver and stores whatever outcome
// it reaches. Works on fresh and half-played boards alike.
func (g GameHandler) Solve(w http.ResponseWriter, r *http.Request) {
	session, board, ok := g.loadSession(w, r)
	if !ok {
		return
	}

	if board.Finished {
		w.WriteHeader(http.StatusConflict)
		return
	}

	solver.New(board, g.rnd, g.logger).Solve()

	g.saveAndRespond(r.Context(), w, session, board)
}

func (g GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	session, board, ok := g.loadSession(w, r)
	if !ok {
		return
	}

	board.Forfeit()

	g.saveAndRespond(r.Context(), w, session, board)
}
