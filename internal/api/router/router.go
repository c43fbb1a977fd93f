package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/webplotcentersj-hash/clinicasj/internal/conversation"
	httpmiddleware "github.com/webplotcentersj-hash/clinicasj/internal/http/middleware"
	"github.com/webplotcentersj-hash/clinicasj/internal/intake"
	"github.com/webplotcentersj-hash/clinicasj/internal/webchat"
	"github.com/webplotcentersj-hash/clinicasj/pkg/logging"
)

// Config holds router configuration. Nil handlers leave their routes unmounted.
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *conversation.Handler
	IntakeHandler      *intake.Handler
	WebchatHandler     *webchat.Handler
	MetricsHandler     http.Handler
	RateLimiter        *httpmiddleware.RateLimiter
	CORSAllowedOrigins []string
}

// New creates the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.RateLimit(cfg.RateLimiter))
		if cfg.ChatHandler != nil {
			api.Post("/ai/chat", cfg.ChatHandler.Chat)
			api.Post("/ai/fallback", cfg.ChatHandler.Fallback)
		}
		if cfg.IntakeHandler != nil {
			api.Post("/turnos", cfg.IntakeHandler.Submit)
		}
	})

	if cfg.WebchatHandler != nil {
		r.Route("/chat", func(chat chi.Router) {
			chat.Get("/ws", cfg.WebchatHandler.HandleWebSocket)
			chat.With(middleware.Compress(5, "application/javascript")).Get("/widget.js", cfg.WebchatHandler.HandleWidgetJS)
		})
	}

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
