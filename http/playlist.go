package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"wedfest/domain"
	"wedfest/errs"
	"wedfest/guest"
)

// registerPlaylistRoutes is a helper for registering all playlist routes.
func (s *Server) registerPlaylistRoutes(r *mux.Router) {
	// The song wishlist, most liked first.
	r.HandleFunc("/api/playlist", s.handleListSongs).Methods("GET")

	// Suggest a new song.
	r.HandleFunc("/api/playlist", s.handleSuggestSong).Methods("POST")

	// Toggle the guest session's like on a song.
	r.HandleFunc("/api/playlist/{id:[0-9]+}/like", s.handleToggleSongLike).Methods("POST")

	// Admin: remove a song from the wishlist.
	r.HandleFunc("/api/playlist/{id:[0-9]+}", s.requireAdmin(s.handleDeleteSong)).Methods("DELETE")
}

// handleListSongs handles the route "GET /api/playlist".
func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.ss.All()
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(songs); err != nil {
		errs.LogError(r, err)
	}
}

// handleSuggestSong handles the route "POST /api/playlist".
func (s *Server) handleSuggestSong(w http.ResponseWriter, r *http.Request) {
	var song domain.Song
	if err := json.NewDecoder(r.Body).Decode(&song); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	if err := s.ss.Create(&song); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&song); err != nil {
		errs.LogError(r, err)
	}
}

// handleToggleSongLike handles the route "POST /api/playlist/:id/like".
// Same contract as the photo toggle: the response carries the settled count
// for the client's cache patching, not just the direction.
func (s *Server) handleToggleSongLike(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	result, err := s.ls.Toggle(r.Context(), domain.OwnerTypeSong, id, guest.GetSession(r.Context()))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteSong handles the route "DELETE /api/playlist/:id".
func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	if err := s.ss.Delete(id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
