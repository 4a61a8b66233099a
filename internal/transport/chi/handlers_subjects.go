package chi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/domain/program"
	"github.com/kailas-cloud/thesisrec/internal/domain/recommendation"
	"github.com/kailas-cloud/thesisrec/internal/domain/stats"
)

// ListSubjects handles GET /api/v1/subjects?program=GI.
func (s *Server) ListSubjects(w http.ResponseWriter, r *http.Request) {
	p, err := programParam(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	snap, err := s.svc.Catalog.Current()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	subjects := snap.Filter(p)
	items := make([]subjectDTO, len(subjects))
	for i := range subjects {
		items[i] = subjectToDTO(&subjects[i])
	}
	writeJSON(w, http.StatusOK, subjectListResponse{Program: p.String(), Total: len(items), Items: items})
}

// GetSubject handles GET /api/v1/subjects/{id}.
func (s *Server) GetSubject(w http.ResponseWriter, r *http.Request) {
	sub, err := s.svc.Catalog.Subject(chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subjectToDTO(&sub))
}

// SimilarSubjects handles GET /api/v1/subjects/{id}/similar?top=5.
func (s *Server) SimilarSubjects(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	topN, err := intParam(r, "top", recommendation.MaxTopN)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	sub, err := s.svc.Catalog.Subject(id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items, err := s.svc.Diagnostics.Similar(id, topN)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, similarResponse{Subject: subjectToDTO(&sub), Items: itemsToDTO(items)})
}

// SubjectFeedback handles GET /api/v1/subjects/{id}/feedback.
func (s *Server) SubjectFeedback(w http.ResponseWriter, r *http.Request) {
	if s.svc.Feedback == nil {
		s.handleDomainError(w, domain.ErrNotConfigured)
		return
	}
	id := chi.URLParam(r, "id")

	sum, err := s.svc.Feedback.Summary(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	list, err := s.svc.Feedback.List(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]feedbackDTO, len(list))
	for i := range list {
		items[i] = feedbackToDTO(&list[i])
	}
	writeJSON(w, http.StatusOK, feedbackListResponse{
		SubjectID: id,
		Summary:   feedbackSummaryDTO{Count: sum.Count, Average: sum.Average},
		Items:     items,
	})
}

// TagStats handles GET /api/v1/stats/tags?program=GI&top=10.
func (s *Server) TagStats(w http.ResponseWriter, r *http.Request) {
	p, err := programParam(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	k, err := intParam(r, "top", recommendation.MaxTopN)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	counts, err := s.svc.Diagnostics.TagFrequency(p, k)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tagStatsResponse{Program: p.String(), Items: tagCountsToDTO(counts)})
}

// ProgramStats handles GET /api/v1/stats/programs.
func (s *Server) ProgramStats(w http.ResponseWriter, _ *http.Request) {
	counts, err := s.svc.Diagnostics.ProgramDistribution()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]programCountDTO, len(counts))
	for i, c := range counts {
		items[i] = programCountDTO{Program: c.Program.String(), Count: c.Count}
	}
	writeJSON(w, http.StatusOK, programStatsResponse{Total: stats.Total(counts), Items: items})
}

// ProjectionStats handles GET /api/v1/stats/projection?program=GI.
func (s *Server) ProjectionStats(w http.ResponseWriter, r *http.Request) {
	p, err := programParam(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	proj, err := s.svc.Diagnostics.Projection(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectionToDTO(p, proj))
}

func programParam(r *http.Request) (program.Program, error) {
	raw := r.URL.Query().Get("program")
	p, ok := program.Parse(raw)
	if !ok {
		return program.Any, fmt.Errorf("%w: unknown program %q", domain.ErrInvalidQuery, raw)
	}
	return p, nil
}

// intParam reads an optional positive integer query parameter. Absent means 0.
func intParam(r *http.Request, name string, maxVal int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxVal {
		return 0, fmt.Errorf("%w: %s must be an integer between 1 and %d", domain.ErrInvalidQuery, name, maxVal)
	}
	return n, nil
}
