package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"wedfest/errs"
)

// How long an admin token stays valid. The couple logs in once per day at most.
const adminTokenTTL = 24 * time.Hour

// registerAdminRoutes is a helper for registering the admin gate routes.
func (s *Server) registerAdminRoutes(r *mux.Router) {
	r.HandleFunc("/api/admin/login", s.handleAdminLogin).Methods("POST")
}

// handleAdminLogin handles the route "POST /api/admin/login".
// There is a single shared admin password, no accounts. A correct password
// yields a signed token the frontend sends as a Bearer header afterwards.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	err := bcrypt.CompareHashAndPassword([]byte(s.adminPasswordHash), []byte(body.Password))
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Wrong password."))
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(adminTokenTTL)),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(map[string]string{"token": signed}); err != nil {
		errs.LogError(r, err)
	}
}

// requireAdmin wraps a handler so it only runs with a valid admin token.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Missing admin token."))
			return
		}

		token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errs.Errorf(errs.EUNAUTHORIZED, "Unexpected signing method.")
			}
			return s.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "Invalid admin token."))
			return
		}

		next(w, r)
	}
}
