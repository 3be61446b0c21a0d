package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"wedfest/domain"
	"wedfest/errs"
)

// registerGameRoutes is a helper for registering all mini-game routes.
func (s *Server) registerGameRoutes(r *mux.Router) {
	r.HandleFunc("/api/games/{game}/scores", s.handleTopScores).Methods("GET")
	r.HandleFunc("/api/games/{game}/scores", s.handleSubmitScore).Methods("POST")
}

// handleTopScores handles the route "GET /api/games/:game/scores".
func (s *Server) handleTopScores(w http.ResponseWriter, r *http.Request) {
	top, err := strconv.Atoi(r.URL.Query().Get("top"))
	if err != nil || top <= 0 {
		top = 10
	}

	scores, err := s.gs.Top(mux.Vars(r)["game"], top)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(scores); err != nil {
		errs.LogError(r, err)
	}
}

// handleSubmitScore handles the route "POST /api/games/:game/scores".
func (s *Server) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var score domain.GameScore
	if err := json.NewDecoder(r.Body).Decode(&score); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	score.Game = mux.Vars(r)["game"]

	if err := s.gs.Submit(&score); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&score); err != nil {
		errs.LogError(r, err)
	}
}
