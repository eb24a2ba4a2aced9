package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/connprobe/internal/domain"
	apimw "github.com/hamed0406/connprobe/internal/httpapi/middleware"
	"github.com/hamed0406/connprobe/internal/probe"
)

// Scanner runs an out-of-band watcher pass. *scheduler.Watcher satisfies it.
type Scanner interface {
	Scan(ctx context.Context) []domain.NamedResult
}

type Server struct {
	Logger  *zap.Logger
	Probes  *probe.Suite
	Scanner Scanner // optional
}

func NewServer(l *zap.Logger, probes *probe.Suite, sc Scanner) *Server {
	return &Server{Logger: l, Probes: probes, Scanner: sc}
}

// Router wires every route. Empty allowedOrigins allows all; rpm <= 0 disables rate limiting.
// trustedProxies are the peers whose X-Forwarded-For is believed.
func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, rpm, burst int, trustedProxies []netip.Prefix) http.Handler {
	r := chi.NewRouter()
	r.Use(apimw.RequestID)
	r.Use(apimw.AccessLog(s.Logger))
	r.Use(apimw.Recover(s.Logger))
	r.Use(corsHandler(allowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RateLimit(rpm, burst, trustedProxies))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/test", http.StatusFound)
		})
		r.Get("/test", s.handleTestPage)

		// the page's own toggle form cannot carry an API key
		r.Get("/api/language", s.handleGetLanguage)
		r.Post("/api/language/toggle", s.handleToggleLanguage)

		r.Group(func(r chi.Router) {
			r.Use(apimw.RequireAny(keys))
			r.Get("/api/test-db", s.probeHandler(domain.BackendPostgres))
			r.Get("/api/test-redis", s.probeHandler(domain.BackendRedis))
		})

		if s.Scanner != nil {
			r.Group(func(r chi.Router) {
				r.Use(apimw.RequireAdmin(keys))
				r.Post("/api/watch/scan", s.handleScan)
			})
		}
	})

	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return cors.AllowAll().Handler
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", apimw.HeaderRequestID},
		ExposedHeaders:   []string{apimw.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logFailure(r *http.Request, b domain.Backend, res domain.ProbeResult) {
	s.Logger.Warn("probe_failed",
		zap.String("backend", string(b)),
		zap.String("error", res.Error),
		zap.String("request_id", apimw.RequestIDFrom(r.Context())),
	)
}

func (s *Server) probeHandler(b domain.Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := s.Probes.Get(b)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "backend not configured"})
			return
		}
		res := c.Check(r.Context())
		if !res.Success {
			s.logFailure(r, b, res)
			writeJSON(w, http.StatusInternalServerError, res)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	results := s.Scanner.Scan(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
