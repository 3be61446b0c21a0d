package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"wedfest/ai"
	"wedfest/crud"
	"wedfest/domain"
	"wedfest/guest"
)

// Server provides most of the http functionality of this app, namely routing,
// request handling, and middleware. It derives the anonymous guest session
// for every request and guards the admin surface before handing things over
// to one of the crud services.
type Server struct {
	router *mux.Router
	ps     domain.PhotoService
	ss     domain.SongService
	ls     domain.LikeService
	cs     domain.CommentService
	ms     domain.MessageService
	es     domain.EventService
	gs     domain.GameService
	ai     *ai.Client
	files  domain.PhotoStorage

	clientURL         string
	adminPasswordHash string
	jwtSecret         []byte
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
func NewServer(
	clientURL string,
	adminPasswordHash string,
	jwtSecret string,
	services *crud.Services,
	files domain.PhotoStorage,
	aiClient *ai.Client,
) *Server {

	// Construct a new Server with a gorilla router and the services passed in.
	s := &Server{
		router:            mux.NewRouter(),
		ps:                services.Photo,
		ss:                services.Song,
		ls:                services.Like,
		cs:                services.Comment,
		ms:                services.Message,
		es:                services.Event,
		gs:                services.Game,
		ai:                aiClient,
		files:             files,
		clientURL:         clientURL,
		adminPasswordHash: adminPasswordHash,
		jwtSecret:         []byte(jwtSecret),
	}

	// Register routes of the guest-facing crud system.
	s.registerPhotoRoutes(s.router)
	s.registerPlaylistRoutes(s.router)
	s.registerMessageRoutes(s.router)
	s.registerEventRoutes(s.router)
	s.registerGameRoutes(s.router)
	s.registerAIRoutes(s.router)

	// Register routes of the admin gate.
	s.registerAdminRoutes(s.router)

	// Serve the uploaded photo files.
	s.router.PathPrefix("/uploads/photos/").Handler(
		http.StripPrefix("/uploads/photos/", http.FileServer(http.Dir(domain.UploadsBaseDir))))

	// Set up middleware that needs to run on every request.
	s.router.Use(setContentTypeJSON, s.logRequest, s.withGuestSession)
	return s
}

// ServeHTTP makes the Server an http.Handler, which keeps handler tests and
// the cors wrapper in Run out of each other's way.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// The setContentTypeJSON middleware sets the content type to "application/json"
// on everything except the uploaded files, which announce their own type.
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/uploads/") {
			w.Header().Set("Content-Type", "application/json")
		}
		next.ServeHTTP(w, r)
	})
}

// The logRequest middleware writes one structured log line per request.
func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// The withGuestSession middleware derives the anonymous session fingerprint
// from the request and stores it in the context, so that every handler and
// service sees the same identity for the same request.
func (s *Server) withGuestSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := guest.Fingerprint(clientAddr(r), r.Header.Get("X-Client-Id"))
		ctx := guest.SetSession(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientAddr picks the requester's network address. Behind a reverse proxy
// the first X-Forwarded-For hop is the guest; without one, RemoteAddr is.
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	return r.RemoteAddr
}

// Run starts to listen and serve on the specified port, with CORS opened up
// for the single-page frontend.
func (s *Server) Run(port int) {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{s.clientURL},
		AllowedMethods: []string{"GET", "POST", "DELETE"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Client-Id"},
	})
	log.Info().Int("port", port).Msg("listening")
	log.Fatal().Err(http.ListenAndServe(":"+strconv.Itoa(port), c.Handler(s))).Msg("server stopped")
}
