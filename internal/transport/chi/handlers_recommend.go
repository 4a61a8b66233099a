package chi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/logger"
	elaborateuc "github.com/kailas-cloud/thesisrec/internal/usecase/elaborate"
)

// Recommend handles POST /api/v1/recommendations.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var body recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := body.toDomain()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := s.svc.Recommend.Recommend(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resultToDTO(req, &res))
}

// Elaborate handles POST /api/v1/elaborations: recommend, then let the LLM
// comment on the top results.
func (s *Server) Elaborate(w http.ResponseWriter, r *http.Request) {
	if s.svc.Elaborate == nil || !s.svc.Elaborate.Enabled() {
		s.handleDomainError(w, domain.ErrNotConfigured)
		return
	}

	var body elaborateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := body.toDomain()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	res, err := s.svc.Recommend.Recommend(ctx, req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	el, err := s.svc.Elaborate.Elaborate(ctx, elaborateuc.Kind(body.Kind), req.Query.Text(), res)
	setLLMHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	logger.FromContext(ctx).Debug("elaboration served",
		zap.String("kind", string(el.Kind)),
		zap.Int("tokens", el.Tokens),
	)

	ids := el.SubjectIDs
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, elaborateResponse{
		Kind:            string(el.Kind),
		Text:            el.Text,
		SubjectIDs:      ids,
		Tokens:          el.Tokens,
		Recommendations: resultToDTO(req, &res),
	})
}
