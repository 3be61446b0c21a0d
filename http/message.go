package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"wedfest/domain"
	"wedfest/errs"
)

// registerMessageRoutes is a helper for registering all guestbook routes.
func (s *Server) registerMessageRoutes(r *mux.Router) {
	r.HandleFunc("/api/messages", s.handleListMessages).Methods("GET")
	r.HandleFunc("/api/messages", s.handleCreateMessage).Methods("POST")
}

// handleListMessages handles the route "GET /api/messages".
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.ms.All()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(messages); err != nil {
		errs.LogError(r, err)
	}
}

// handleCreateMessage handles the route "POST /api/messages".
// The sentiment label is a best-effort AI pass over the message; when the
// AI is unavailable the message is stored as neutral.
func (s *Server) handleCreateMessage(w http.ResponseWriter, r *http.Request) {
	var message domain.Message
	if err := json.NewDecoder(r.Body).Decode(&message); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	message.Sentiment = s.ai.Sentiment(r.Context(), message.Content)

	if err := s.ms.Create(&message); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&message); err != nil {
		errs.LogError(r, err)
	}
}
