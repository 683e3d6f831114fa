package server

import (
	"database/sql"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"whosfordinner/internal/config"
	"whosfordinner/internal/handler"
	"whosfordinner/internal/middleware"
	"whosfordinner/internal/photo"
	"whosfordinner/internal/store"
	ws "whosfordinner/internal/websocket"
)

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	dinnerH      *handler.DinnerHandler
	mealH        *handler.MealHandler
	photoH       *handler.PhotoHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, cfg config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	mealStore := store.NewMealStore(db)
	dinnerStore := store.NewDinnerStore(db)
	attendanceStore := store.NewAttendanceStore(db)
	sessionStore := store.NewSessionStore(db)

	photoStore := photo.NewStore(cfg.S3)
	if photoStore == nil {
		logger.Info("photo storage not configured, uploads disabled")
	}

	funcMap := template.FuncMap{
		"deref": func(v any) any {
			switch p := v.(type) {
			case *string:
				if p != nil {
					return *p
				}
				return ""
			case *int64:
				if p != nil {
					return *p
				}
				return int64(0)
			}
			return v
		},
	}
	templates := template.Must(template.New("").Funcs(funcMap).ParseGlob("web/templates/*.html"))

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(cfg.PIN, cfg.PINHash, sessionStore, templates, logger.With("component", "auth")),
		dinnerH:      handler.NewDinnerHandler(dinnerStore, mealStore, attendanceStore, hub, templates, logger.With("component", "dinner")),
		mealH:        handler.NewMealHandler(mealStore, photoStore, hub, templates, logger.With("component", "meal")),
		photoH:       handler.NewPhotoHandler(photoStore, logger.With("component", "photo")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore exposes the session store for the periodic cleanup task.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter exposes the rate limiter for the periodic cleanup task.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	outerMux.HandleFunc("GET /login", s.authH.LoginPage)
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Everything else needs a session
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)

	mux.HandleFunc("GET /", s.dinnerH.WeekPage)
	mux.HandleFunc("POST /", s.dinnerH.Intent)

	mux.HandleFunc("GET /meals", s.mealH.MealsPage)
	mux.HandleFunc("POST /meals", s.mealH.Intent)

	mux.HandleFunc("GET /api/meal-photo/{key}", s.photoH.Serve)

	mux.HandleFunc("GET /ws", ws.Handler(s.hub))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
