package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/openbook-edu/openbook-server/internal/bookmark"
	"github.com/openbook-edu/openbook-server/internal/catalog"
	"github.com/openbook-edu/openbook-server/internal/config"
	"github.com/openbook-edu/openbook-server/internal/logging"
	"github.com/openbook-edu/openbook-server/internal/question"
)

// NewHTTPServer wires all routes for the API service. Admin paths live
// under /admin; authentication for them is enforced upstream.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, rdb *redis.Client, catalogHandlers *catalog.HTTPHandlers, questionHandlers *question.HTTPHandlers, bookmarkHandlers *bookmark.HTTPHandlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), pool, rdb); err != nil {
			reqLogger := logging.FromContext(r.Context())
			reqLogger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	// Public reads
	mux.HandleFunc("GET /topics/{title}", catalogHandlers.GetTopic)
	mux.HandleFunc("GET /chapters", catalogHandlers.ListChapters)
	mux.HandleFunc("GET /chapters/{number}/topics", catalogHandlers.ListChapterTopics)
	mux.HandleFunc("GET /categories", catalogHandlers.ListCategories)
	mux.HandleFunc("GET /questions/{id}", questionHandlers.Get)

	// Bookmarks
	mux.HandleFunc("POST /bookmarks", bookmarkHandlers.Add)
	mux.HandleFunc("DELETE /bookmarks", bookmarkHandlers.Remove)
	mux.HandleFunc("GET /customers/{id}/bookmarks", bookmarkHandlers.List)

	// Admin: catalog
	mux.HandleFunc("POST /admin/topics", catalogHandlers.CreateTopic)
	mux.HandleFunc("PATCH /admin/topics/{title}", catalogHandlers.UpdateTopic)
	mux.HandleFunc("DELETE /admin/topics/{title}", catalogHandlers.DeleteTopic)
	mux.HandleFunc("POST /admin/chapters", catalogHandlers.CreateChapter)
	mux.HandleFunc("PATCH /admin/chapters/{number}", catalogHandlers.UpdateChapter)
	mux.HandleFunc("DELETE /admin/chapters/{number}", catalogHandlers.DeleteChapter)
	mux.HandleFunc("POST /admin/categories", catalogHandlers.CreateCategory)
	mux.HandleFunc("PATCH /admin/categories/{name}", catalogHandlers.RenameCategory)
	mux.HandleFunc("DELETE /admin/categories/{name}", catalogHandlers.DeleteCategory)
	mux.HandleFunc("POST /admin/topics/{title}/keywords/{name}", catalogHandlers.AttachKeyword)
	mux.HandleFunc("DELETE /admin/topics/{title}/keywords/{name}", catalogHandlers.DetachKeyword)
	mux.HandleFunc("POST /admin/topics/{title}/sentences", catalogHandlers.CreateSentence)
	mux.HandleFunc("PATCH /admin/sentences/{id}", catalogHandlers.UpdateSentence)
	mux.HandleFunc("DELETE /admin/sentences/{id}", catalogHandlers.DeleteSentence)
	mux.HandleFunc("GET /admin/topics/{title}/choices", catalogHandlers.ListChoices)
	mux.HandleFunc("POST /admin/topics/{title}/choices", catalogHandlers.AddChoice)
	mux.HandleFunc("DELETE /admin/choices/{id}", catalogHandlers.DeleteChoice)
	mux.HandleFunc("GET /admin/topics/{title}/descriptions", catalogHandlers.ListDescriptions)
	mux.HandleFunc("POST /admin/topics/{title}/descriptions", catalogHandlers.AddDescription)
	mux.HandleFunc("DELETE /admin/descriptions/{id}", catalogHandlers.DeleteDescription)

	// Admin: question engine
	mux.HandleFunc("GET /admin/temp-question", questionHandlers.Preview)
	mux.HandleFunc("POST /admin/questions", questionHandlers.Commit)
	mux.HandleFunc("PATCH /admin/questions/{id}", questionHandlers.Update)
	mux.HandleFunc("DELETE /admin/questions/{id}", questionHandlers.Delete)

	handler := requestLogging(logger, corsMiddleware(cfg.CORS, mux))

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}
}

// requestLogging tags each request with an id and puts a request-scoped
// logger into the context.
func requestLogging(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		reqLogger := logger.With().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Logger()
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(logging.IntoContext(r.Context(), reqLogger)))
	})
}

func corsMiddleware(cfg config.CORS, next http.Handler) http.Handler {
	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		origins[o] = struct{}{}
	}
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if _, ok := origins[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
				w.Header().Add("Vary", "Origin")
			}
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", methods)
			w.Header().Set("Access-Control-Allow-Headers", headers)
			w.Header().Set("Access-Control-Max-Age", maxAge)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, rdb *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}
	return nil
}
