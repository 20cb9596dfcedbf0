package api

import (
	"io"
	"log"
	"net/http"
	"time"

	"github.com/npezzotti/go-forum/internal/config"
	"github.com/npezzotti/go-forum/internal/database"
	"github.com/npezzotti/go-forum/internal/render"
	"github.com/npezzotti/go-forum/internal/stats"
)

// AvatarStore persists uploaded profile pictures.
type AvatarStore interface {
	Save(r io.Reader) (string, error)
	Remove(name string) error
	Handler() http.Handler
}

type ForumApp struct {
	log        *log.Logger
	db         database.ForumRepository
	tmpl       render.Renderer
	avatars    AvatarStore
	stats      stats.StatsProvider
	srv        *http.Server
	signingKey []byte
	sessionTTL time.Duration
}

func NewForumApp(
	mux *http.ServeMux,
	logger *log.Logger,
	db database.ForumRepository,
	tmpl render.Renderer,
	avatars AvatarStore,
	stats stats.StatsProvider,
	cfg *config.Config,
) *ForumApp {
	s := &ForumApp{
		log:        logger,
		db:         db,
		tmpl:       tmpl,
		avatars:    avatars,
		stats:      stats,
		signingKey: cfg.SigningKey,
		sessionTTL: cfg.SessionTTL,
	}

	if s.sessionTTL <= 0 {
		s.sessionTTL = config.DefaultSessionTTL
	}

	s.routes(mux)

	s.srv = &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           s.handler(mux, cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func (s *ForumApp) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.home)
	mux.HandleFunc("GET /healthz", s.healthCheck)

	mux.HandleFunc("GET /login", s.anonymousOnly(s.loginPage))
	mux.HandleFunc("POST /login", s.anonymousOnly(s.login))
	mux.HandleFunc("GET /logout", s.logout)
	mux.HandleFunc("GET /register", s.registerPage)
	mux.HandleFunc("POST /register", s.register)

	mux.HandleFunc("GET /room/create", s.authMiddleware(s.createRoomPage))
	mux.HandleFunc("POST /room/create", s.authMiddleware(s.createRoom))
	mux.HandleFunc("GET /room/{id}", s.room)
	mux.HandleFunc("POST /room/{id}", s.authMiddleware(s.postMessage))
	mux.HandleFunc("GET /room/{id}/update", s.authMiddleware(s.updateRoomPage))
	mux.HandleFunc("POST /room/{id}/update", s.authMiddleware(s.updateRoom))
	mux.HandleFunc("GET /room/{id}/delete", s.authMiddleware(s.deleteRoomPage))
	mux.HandleFunc("POST /room/{id}/delete", s.authMiddleware(s.deleteRoom))

	mux.HandleFunc("GET /message/{id}/delete", s.authMiddleware(s.deleteMessagePage))
	mux.HandleFunc("POST /message/{id}/delete", s.authMiddleware(s.deleteMessage))

	mux.HandleFunc("GET /profile/update", s.authMiddleware(s.updateUserPage))
	mux.HandleFunc("POST /profile/update", s.authMiddleware(s.updateUser))
	mux.HandleFunc("GET /profile/{id}", s.userProfile)

	mux.HandleFunc("GET /topics", s.topics)
	mux.HandleFunc("GET /activity", s.activity)

	mux.Handle("GET /static/", http.StripPrefix("/static", http.FileServerFS(render.Static())))
	if s.avatars != nil {
		mux.Handle("GET /media/", http.StripPrefix("/media", s.avatars.Handler()))
	}

	mux.HandleFunc("/", s.notFound)
}
