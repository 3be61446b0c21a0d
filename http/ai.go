package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"wedfest/errs"
)

// registerAIRoutes is a helper for registering the AI-assisted routes. All of
// them degrade to canned answers when no API key is configured, so the
// frontend never has to special-case a missing AI.
func (s *Server) registerAIRoutes(r *mux.Router) {
	r.HandleFunc("/api/photos/{id:[0-9]+}/critique", s.handlePhotoCritique).Methods("GET")
	r.HandleFunc("/api/ai/songs", s.handleSongIdeas).Methods("GET")
	r.HandleFunc("/api/ai/story", s.handleStory).Methods("GET")
}

// handlePhotoCritique handles the route "GET /api/photos/:id/critique".
// It returns a short playful art critique of the photo.
func (s *Server) handlePhotoCritique(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	photo, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	critique := s.ai.Critique(r.Context(), photo)
	if err := json.NewEncoder(w).Encode(map[string]string{"critique": critique}); err != nil {
		errs.LogError(r, err)
	}
}

// handleSongIdeas handles the route "GET /api/ai/songs".
// It suggests songs that would fit the wishlist the guests built so far.
func (s *Server) handleSongIdeas(w http.ResponseWriter, r *http.Request) {
	songs, err := s.ss.All()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	ideas := s.ai.SongIdeas(r.Context(), songs)
	if err := json.NewEncoder(w).Encode(ideas); err != nil {
		errs.LogError(r, err)
	}
}

// handleStory handles the route "GET /api/ai/story".
// It narrates the day from the schedule and the guestbook entries.
func (s *Server) handleStory(w http.ResponseWriter, r *http.Request) {
	events, err := s.es.All()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	messages, err := s.ms.All()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	story := s.ai.Narrative(r.Context(), events, messages)
	if err := json.NewEncoder(w).Encode(map[string]string{"story": story}); err != nil {
		errs.LogError(r, err)
	}
}
