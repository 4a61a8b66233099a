package chi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/domain/user"
)

// RegisterUser handles POST /api/v1/auth/register.
func (s *Server) RegisterUser(w http.ResponseWriter, r *http.Request) {
	if s.svc.Auth == nil {
		s.handleDomainError(w, domain.ErrNotConfigured)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	u, err := s.svc.Auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userToDTO(&u))
}

// Login handles POST /api/v1/auth/login. It only verifies credentials;
// no session is issued.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	if s.svc.Auth == nil {
		s.handleDomainError(w, domain.ErrNotConfigured)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	u, err := s.svc.Auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userToDTO(&u))
}

// SubmitFeedback handles POST /api/v1/feedback. The body carries the
// rater's credentials.
func (s *Server) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	if s.svc.Auth == nil || s.svc.Feedback == nil {
		s.handleDomainError(w, domain.ErrNotConfigured)
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	u, err := s.svc.Auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	f, err := s.svc.Feedback.Submit(r.Context(), u.Username(), req.SubjectID, req.Rating, req.Comment)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, feedbackToDTO(&f))
}

func userToDTO(u *user.User) userResponse {
	return userResponse{Username: u.Username(), CreatedAt: time.UnixMilli(u.CreatedAt()).UTC()}
}
