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

// registerPhotoRoutes is a helper for registering all Photo routes.
func (s *Server) registerPhotoRoutes(r *mux.Router) {
	// List photos, filtered by approval status.
	r.HandleFunc("/api/photos", s.handleListPhotos).Methods("GET")

	// Upload a new photo.
	r.HandleFunc("/api/photos", s.handleUploadPhoto).Methods("POST")

	// The most liked photos, for the slideshow widget.
	r.HandleFunc("/api/photos/top", s.handleTopPhotos).Methods("GET")

	// Toggle the guest session's like on a photo.
	r.HandleFunc("/api/photos/{id:[0-9]+}/like", s.handleTogglePhotoLike).Methods("POST")

	// Comments on a photo.
	r.HandleFunc("/api/photos/{id:[0-9]+}/comments", s.handleListComments).Methods("GET")
	r.HandleFunc("/api/photos/{id:[0-9]+}/comments", s.handleCreateComment).Methods("POST")

	// Admin: approve or remove a photo, remove a comment.
	r.HandleFunc("/api/photos/{id:[0-9]+}/approve", s.requireAdmin(s.handleApprovePhoto)).Methods("POST")
	r.HandleFunc("/api/photos/{id:[0-9]+}", s.requireAdmin(s.handleDeletePhoto)).Methods("DELETE")
	r.HandleFunc("/api/comments/{id:[0-9]+}", s.requireAdmin(s.handleDeleteComment)).Methods("DELETE")
}

// handleListPhotos handles the route "GET /api/photos".
// The status query parameter selects one of the three gallery views the
// frontend caches separately: approved (default), pending, or all.
func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	var photos []domain.Photo
	var err error
	switch r.URL.Query().Get("status") {
	case "all":
		photos, err = s.ps.All()
	case "pending":
		photos, err = s.ps.ByApproval(false)
	default:
		photos, err = s.ps.ByApproval(true)
	}
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(photos); err != nil {
		errs.LogError(r, err)
	}
}

// handleUploadPhoto handles the route "POST /api/photos".
// It stores the uploaded file (includes validation / normalization) and
// creates the Photo record, which starts out unapproved.
func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(domain.MaxUploadSize)
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid multipart body."))
		return
	}

	file, fileHeader, err := r.FormFile("photo")
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Photo file is required."))
		return
	}
	defer file.Close()

	photoFile := &domain.PhotoFile{
		File:     file,
		Filename: fileHeader.Filename,
	}
	if err := s.files.Save(photoFile); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	photo := domain.Photo{
		Filename: photoFile.Filename,
		Caption:  r.FormValue("caption"),
		Uploader: r.FormValue("uploader"),
	}
	if err := s.ps.Create(&photo); err != nil {
		// The row failed, don't leave the file behind.
		if removeErr := s.files.Remove(photoFile.Filename); removeErr != nil {
			errs.LogError(r, removeErr)
		}
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&photo); err != nil {
		errs.LogError(r, err)
	}
}

// handleTogglePhotoLike handles the route "POST /api/photos/:id/like".
// It flips the like state of the photo for the requesting guest session and
// returns the new state along with the settled like count, so the client can
// patch every cached gallery view that contains this photo.
func (s *Server) handleTogglePhotoLike(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	result, err := s.ls.Toggle(r.Context(), domain.OwnerTypePhoto, id, guest.GetSession(r.Context()))
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		errs.LogError(r, err)
	}
}

// topPhoto is one row of the "most liked photos" widget.
type topPhoto struct {
	Rank  int           `json:"rank"`
	Likes int           `json:"likes"`
	Photo *domain.Photo `json:"photo"`
}

// handleTopPhotos handles the route "GET /api/photos/top".
// It reads the like leaderboard and resolves the photo rows behind it.
// Entries whose photo has been deleted in the meantime are skipped.
func (s *Server) handleTopPhotos(w http.ResponseWriter, r *http.Request) {
	top, err := strconv.Atoi(r.URL.Query().Get("top"))
	if err != nil || top <= 0 {
		top = 10
	}

	entries, err := s.ls.Top(r.Context(), domain.OwnerTypePhoto, top)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	list := make([]topPhoto, 0, len(entries))
	for _, entry := range entries {
		photo, err := s.ps.ByID(entry.OwnerID)
		if err != nil {
			continue
		}
		list = append(list, topPhoto{Rank: len(list) + 1, Likes: entry.Likes, Photo: photo})
	}

	if err := json.NewEncoder(w).Encode(list); err != nil {
		errs.LogError(r, err)
	}
}

// handleListComments handles the route "GET /api/photos/:id/comments".
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	comments, err := s.cs.ByPhotoID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(comments); err != nil {
		errs.LogError(r, err)
	}
}

// handleCreateComment handles the route "POST /api/photos/:id/comments".
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	var comment domain.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	comment.PhotoID = id

	if err := s.cs.Create(&comment); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&comment); err != nil {
		errs.LogError(r, err)
	}
}

// handleApprovePhoto handles the route "POST /api/photos/:id/approve".
func (s *Server) handleApprovePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	photo, err := s.ps.Approve(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(photo); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeletePhoto handles the route "DELETE /api/photos/:id".
// The crud service removes the row together with its like ledger rows and
// comments in one transaction; the stored file goes last, since a stray file
// is harmless but a stray row is not.
func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
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

	if err := s.ps.Delete(id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.files.Remove(photo.Filename); err != nil {
		errs.LogError(r, err)
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteComment handles the route "DELETE /api/comments/:id".
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}

	if err := s.cs.Delete(id); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
