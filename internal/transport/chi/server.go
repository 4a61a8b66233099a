// Package chi exposes the recommender over HTTP with a hand-written chi router.
package chi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/ingest"
	authuc "github.com/kailas-cloud/thesisrec/internal/usecase/auth"
	cataloguc "github.com/kailas-cloud/thesisrec/internal/usecase/catalog"
	diaguc "github.com/kailas-cloud/thesisrec/internal/usecase/diagnostics"
	elaborateuc "github.com/kailas-cloud/thesisrec/internal/usecase/elaborate"
	feedbackuc "github.com/kailas-cloud/thesisrec/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/thesisrec/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/thesisrec/internal/usecase/recommend"
	usageuc "github.com/kailas-cloud/thesisrec/internal/usecase/usage"
)

// DefaultMaxUploadBytes caps corpus uploads.
const DefaultMaxUploadBytes = 16 << 20

// Services are the use cases behind the API. Auth and Feedback are nil
// when no database is configured; their routes then answer 501.
type Services struct {
	Catalog     *cataloguc.Service
	Recommend   *recommenduc.Service
	Diagnostics *diaguc.Service
	Auth        *authuc.Service
	Feedback    *feedbackuc.Service
	Elaborate   *elaborateuc.Service
	Usage       *usageuc.Service
	Health      *healthuc.Service
}

// Options tunes request handling.
type Options struct {
	// Upload configures CSV parsing of POST /api/v1/corpus.
	Upload         ingest.Options
	MaxUploadBytes int64
}

// Server holds the HTTP handlers.
type Server struct {
	svc           Services
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, opts Options, logger *zap.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		svc:           svc,
		opts:          opts,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Routes mounts every route on r. limit wraps the routes that check
// passwords or call the LLM; nil mounts them unlimited.
func (s *Server) Routes(r chi.Router, limit func(http.Handler) http.Handler) {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/recommendations", s.Recommend)
		r.With(limit).Post("/elaborations", s.Elaborate)

		r.Get("/subjects", s.ListSubjects)
		r.Get("/subjects/{id}", s.GetSubject)
		r.Get("/subjects/{id}/similar", s.SimilarSubjects)
		r.Get("/subjects/{id}/feedback", s.SubjectFeedback)

		r.Get("/stats/tags", s.TagStats)
		r.Get("/stats/programs", s.ProgramStats)
		r.Get("/stats/projection", s.ProjectionStats)

		r.Group(func(r chi.Router) {
			r.Use(limit)
			r.Post("/auth/register", s.RegisterUser)
			r.Post("/auth/login", s.Login)
			r.Post("/feedback", s.SubmitFeedback)
		})

		r.Get("/corpus", s.CorpusInfo)
		r.Post("/corpus", s.UploadCorpus)
		r.Post("/corpus/reload", s.ReloadCorpus)

		r.Get("/usage", s.GetUsage)
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.svc.Health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setLLMHeaders(w http.ResponseWriter, usage *domain.LLMUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-LLM-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}
