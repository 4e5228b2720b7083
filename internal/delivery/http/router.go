package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oziev02/CommentField/internal/usecase"
)

// NewRouter создает HTTP роутер. metrics может быть nil.
func NewRouter(commentUseCase *usecase.CommentUseCase, logger *slog.Logger, metrics http.Handler) http.Handler {
	handler := NewCommentHandler(commentUseCase)

	r := chi.NewRouter()
	r.Use(
		RecoverMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware,
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/fields/{field}/comments", func(r chi.Router) {
		r.Get("/", handler.List)
		r.Get("/count", handler.Count)
	})

	r.Route("/pages/{pageID}/comments/{field}", func(r chi.Router) {
		r.Get("/", handler.Thread)
		r.Post("/", handler.Submit)
		r.Get("/code/{code}", handler.GetByCode)
		r.Get("/{id}", handler.Get)
		r.Patch("/{id}", handler.Update)
		r.Delete("/{id}", handler.Delete)
		r.Post("/{id}/vote", handler.Vote)
	})

	return r
}
