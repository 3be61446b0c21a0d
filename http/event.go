package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"wedfest/domain"
	"wedfest/errs"
)

// registerEventRoutes is a helper for registering all schedule routes.
func (s *Server) registerEventRoutes(r *mux.Router) {
	r.HandleFunc("/api/schedule", s.handleListEvents).Methods("GET")
	r.HandleFunc("/api/schedule", s.requireAdmin(s.handleCreateEvent)).Methods("POST")
}

// handleListEvents handles the route "GET /api/schedule".
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.es.All()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(events); err != nil {
		errs.LogError(r, err)
	}
}

// handleCreateEvent handles the route "POST /api/schedule".
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var event domain.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	if err := s.es.Create(&event); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&event); err != nil {
		errs.LogError(r, err)
	}
}
