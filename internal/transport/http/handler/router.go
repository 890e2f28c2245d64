package handler

import (
	"net/http"

	"habitlog-service/internal/transport/http/middleware"

	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// Router sets up HTTP routes
type Router struct {
	authHandler        *AuthHandler
	habitHandler       *HabitHandler
	leaderboardHandler *LeaderboardHandler
	authMiddleware     *middleware.AuthMiddleware
	limiter            *middleware.RateLimiter
	logger             *zap.Logger
	mux                *http.ServeMux
}

// NewRouter creates a new router. limiter may be nil.
func NewRouter(
	authHandler *AuthHandler,
	habitHandler *HabitHandler,
	leaderboardHandler *LeaderboardHandler,
	authMiddleware *middleware.AuthMiddleware,
	limiter *middleware.RateLimiter,
	logger *zap.Logger,
) *Router {
	return &Router{
		authHandler:        authHandler,
		habitHandler:       habitHandler,
		leaderboardHandler: leaderboardHandler,
		authMiddleware:     authMiddleware,
		limiter:            limiter,
		logger:             logger,
		mux:                http.NewServeMux(),
	}
}

// Setup configures all routes
func (r *Router) Setup() http.Handler {
	auth := r.authMiddleware.Auth

	r.mux.HandleFunc("POST /token", r.authHandler.Token)
	r.mux.HandleFunc("POST /user/signup", r.authHandler.Signup)
	r.mux.HandleFunc("POST /user/login", r.authHandler.Login)

	r.mux.HandleFunc("GET /habits", auth(r.habitHandler.ListHabits))
	r.mux.HandleFunc("POST /user/habit", auth(r.habitHandler.Subscribe))
	r.mux.HandleFunc("GET /user/habits", auth(r.habitHandler.ListSubscriptions))
	r.mux.HandleFunc("POST /user/habit/log", auth(r.habitHandler.LogHabit))
	r.mux.HandleFunc("GET /user/streaks", auth(r.habitHandler.Streaks))
	r.mux.HandleFunc("PUT /user/location", auth(r.habitHandler.UpdateLocation))

	r.mux.HandleFunc("GET /leaderboard", auth(r.leaderboardHandler.Top))
	r.mux.HandleFunc("GET /leaderboard/nearby", auth(r.leaderboardHandler.Nearby))

	r.mux.HandleFunc("GET /swagger/", httpSwagger.WrapHandler)

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	var handler http.Handler = r.mux

	if r.limiter != nil {
		handler = r.limiter.Middleware(handler)
	}

	handler = middleware.Recover(r.logger)(handler)
	handler = middleware.Logging(r.logger)(handler)

	return handler
}
