package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-custom-teams/internal/hub"
	"github.com/DoyleJ11/lol-custom-teams/internal/rating"
	"github.com/DoyleJ11/lol-custom-teams/internal/ws"
)

type Deps struct {
	Hub      *hub.Hub
	Resolver *rating.Resolver
	Accounts AccountStore // nil disables account linking
	Logger   *zap.Logger
	// Workers > 1 spreads a balancing run over goroutines.
	Workers int
}

func SetupRoutes(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Resolver == nil {
		d.Resolver = rating.NewResolver(nil, d.Logger, 0)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(d.Logger))

	// Public routes
	r.Get("/healthz", Healthz)
	r.Post("/balance", Balance(d.Resolver, d.Workers, d.Logger))

	r.Route("/lobbies", func(r chi.Router) {
		r.Post("/", CreateLobby(d.Hub, d.Logger))
		r.Get("/{code}", GetLobby(d.Hub))
		r.Delete("/{code}", DeleteLobby(d.Hub))
		r.Post("/{code}/reactions", React(d.Hub))
	})

	r.Post("/accounts", LinkAccount(d.Accounts, d.Resolver, d.Logger))
	r.Delete("/accounts/{discordID}", UnlinkAccount(d.Accounts, d.Resolver, d.Logger))

	r.Get("/ws", ws.Handler(d.Hub, d.Logger))
	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
