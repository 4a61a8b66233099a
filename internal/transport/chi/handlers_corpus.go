package chi

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/ingest"
	"github.com/kailas-cloud/thesisrec/internal/logger"
	usageuc "github.com/kailas-cloud/thesisrec/internal/usecase/usage"
)

// CorpusInfo handles GET /api/v1/corpus.
func (s *Server) CorpusInfo(w http.ResponseWriter, _ *http.Request) {
	snap, err := s.svc.Catalog.Current()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotToDTO(snap))
}

// UploadCorpus handles POST /api/v1/corpus. The body is the raw CSV and
// replaces the published corpus.
func (s *Server) UploadCorpus(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	batch, err := ingest.ReadCSV(body, s.opts.Upload)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeBadRequest,
				fmt.Sprintf("Corpus exceeds %d bytes", tooLarge.Limit))
			return
		}
		if errors.Is(err, domain.ErrEmptyCorpus) {
			s.handleDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid CSV: "+err.Error())
		return
	}

	snap, err := s.svc.Catalog.Load(r.Context(), batch.Subjects)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	logger.FromContext(r.Context()).Info("corpus uploaded",
		zap.Int64("version", snap.Version()),
		zap.Int("subjects", snap.Len()),
		zap.Int("dropped", batch.Dropped),
	)
	writeJSON(w, http.StatusOK, ingestToDTO(snap, batch))
}

// ReloadCorpus handles POST /api/v1/corpus/reload: re-read the configured CSV.
func (s *Server) ReloadCorpus(w http.ResponseWriter, r *http.Request) {
	snap, batch, err := s.svc.Catalog.Reload(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ingestToDTO(snap, batch))
}

// GetUsage handles GET /api/v1/usage?period=day|month.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("period")
	period, ok := usageuc.ParsePeriod(raw)
	if !ok {
		s.handleDomainError(w, fmt.Errorf("%w: unknown period %q", domain.ErrValidation, raw))
		return
	}

	rep := s.svc.Usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, usageResponse{
		Period:      string(rep.Period),
		PeriodStart: rep.PeriodStart,
		PeriodEnd:   rep.PeriodEnd,
		Used:        rep.Used,
		Limit:       rep.Limit,
		Remaining:   rep.Remaining,
		Exhausted:   rep.Exhausted,
	})
}
