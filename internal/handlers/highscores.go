package handlers

import (
	"net/http"

	"github.com/xLinkOut/minesweeper/internal/repository"
)

// Highscores returns finished won games ordered by playtime. The list can
// be narrowed by username and by board geometry; "preset" expands to the
// matching geometry.
func (g GameHandler) Highscores(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var filter repository.HighscoreFilter

	if username := query.Get("username"); username != "" {
		filter.Username = &username
	}

	if query.Get("preset") != "" || query.Get("rows") != "" {
		dto, err := ParseCreateGameDTO(query)
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
		filter.Params = &params
	}

	highscores, err := g.repo.GetHighscores(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to fetch highscores", "error", err)
		return
	}
	if highscores == nil {
		highscores = []repository.Highscore{}
	}

	sendJSONOrLog(w, g.logger, highscores)
}
