package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/argumint/debate-backend/internal/hub"
	"github.com/argumint/debate-backend/internal/judge"
	"github.com/argumint/debate-backend/internal/store"
	"github.com/argumint/debate-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, st store.Store, j judge.Judge, typingInterval time.Duration, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(log))

	r.Post("/api/judge", JudgeDebate(j, log))
	r.Post("/api/rooms", CreateRoom(h, j, log))
	r.Post("/api/generate-topic", GenerateTopic(j, log))
	r.Get("/api/debates", ListDebates(st, log))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, typingInterval, log))
	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			if r.URL.Path == "/healthz" {
				return
			}
			log.Info("http",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("dur", time.Since(start)),
			)
		})
	}
}
