package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/xLinkOut/minesweeper/internal/solver"
	"github.com/xLinkOut/minesweeper/internal/sweep"
)

// Websocket protocol: one text message holds one newline-separated batch of
// commands. After each batch the updated session is sent back as JSON.
type wsCommand string

const (
	wsNoop    wsCommand = "g"
	wsReveal  wsCommand = "o"
	wsFlag    wsCommand = "f"
	wsChord   wsCommand = "c"
	wsSolve   wsCommand = "s"
	wsForfeit wsCommand = "r"
)

func parseRowCol(board *sweep.Board, args []string) (int, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected two arguments: row col")
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid row: %w", err)
	}
	col, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid col: %w", err)
	}
	if !board.InBounds(row, col) {
		return 0, 0, fmt.Errorf("cell position out of bounds")
	}
	return row, col, nil
}

func (g GameHandler) execute(board *sweep.Board, line string) error {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil
	}
	cmd, args := wsCommand(tokens[0]), tokens[1:]
	switch cmd {
	case wsNoop:
		return nil
	case wsReveal:
		row, col, err := parseRowCol(board, args)
		if err != nil {
			return err
		}
		board.Reveal(row, col)
	case wsFlag:
		row, col, err := parseRowCol(board, args)
		if err != nil {
			return err
		}
		board.ToggleFlag(row, col)
	case wsChord:
		row, col, err := parseRowCol(board, args)
		if err != nil {
			return err
		}
		board.Chord(row, col)
	case wsSolve:
		if !board.Finished {
			solver.New(board, g.rnd, g.logger).Solve()
		}
	case wsForfeit:
		board.Forfeit()
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	session, board, ok := g.loadSession(w, r)
	if !ok {
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error("unable to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	if err := conn.WriteJSON(NewGameSessionDTO(session, board)); err != nil {
		g.logger.Error("unable to send initial state", "error", err)
		return
	}

	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.logger.Debug("websocket closed", "error", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			return
		}

		for _, line := range strings.Split(strings.TrimSpace(string(buf)), "\n") {
			if err := g.execute(board, strings.TrimSpace(line)); err != nil {
				g.logger.Debug("rejected command", "error", err)
				if err := conn.WriteJSON(wrapError(err)); err != nil {
					return
				}
				continue
			}
			if board.Finished {
				break
			}
		}

		session, err = g.repo.SaveBoard(r.Context(), session, board)
		if err != nil {
			g.logger.Error("unable to update session in db", "error", err)
			return
		}

		if err := conn.WriteJSON(NewGameSessionDTO(session, board)); err != nil {
			g.logger.Error("unable to write json", "error", err)
			return
		}
	}
}
