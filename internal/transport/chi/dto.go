package chi

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/domain/feedback"
	"github.com/kailas-cloud/thesisrec/internal/domain/program"
	"github.com/kailas-cloud/thesisrec/internal/domain/query"
	"github.com/kailas-cloud/thesisrec/internal/domain/recommendation"
	"github.com/kailas-cloud/thesisrec/internal/domain/stats"
	"github.com/kailas-cloud/thesisrec/internal/domain/subject"
	"github.com/kailas-cloud/thesisrec/internal/ingest"
	cataloguc "github.com/kailas-cloud/thesisrec/internal/usecase/catalog"
	diaguc "github.com/kailas-cloud/thesisrec/internal/usecase/diagnostics"
	recommenduc "github.com/kailas-cloud/thesisrec/internal/usecase/recommend"
)

// --- Requests ---

type recommendRequest struct {
	Query string `json:"query"`
	// Weights switches to weighted mode: term -> weight in 1..5.
	Weights map[string]int `json:"weights,omitempty"`
	Program string         `json:"program,omitempty"`
	TopN    int            `json:"top_n,omitempty"`
}

func (r recommendRequest) toDomain() (recommenduc.Request, error) {
	p, ok := program.Parse(r.Program)
	if !ok {
		return recommenduc.Request{}, fmt.Errorf("%w: unknown program %q", domain.ErrInvalidQuery, r.Program)
	}
	if r.TopN < 0 || r.TopN > recommendation.MaxTopN {
		return recommenduc.Request{}, fmt.Errorf("%w: top_n must be between 1 and %d",
			domain.ErrInvalidQuery, recommendation.MaxTopN)
	}

	var (
		q   query.Query
		err error
	)
	if len(r.Weights) > 0 {
		q, err = query.NewWeighted(r.Query, query.TermsFromMap(r.Weights))
	} else {
		q, err = query.NewPlain(r.Query)
	}
	if err != nil {
		return recommenduc.Request{}, err
	}
	return recommenduc.Request{Query: q, Program: p, TopN: r.TopN}, nil
}

type elaborateRequest struct {
	recommendRequest
	Kind string `json:"kind,omitempty"` // analysis (default) | ideas
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type feedbackRequest struct {
	credentialsRequest
	SubjectID string `json:"subject_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

// --- Responses ---

type subjectDTO struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Program string   `json:"program"`
	Tags    []string `json:"tags"`
}

type matchedTagDTO struct {
	Tag     string `json:"tag"`
	Matched bool   `json:"matched"`
}

type itemDTO struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Program    string          `json:"program"`
	Score      float64         `json:"score"`
	Tags       []matchedTagDTO `json:"tags"`
	Annotation string          `json:"annotation"`
}

type recommendResponse struct {
	Query   string    `json:"query"`
	Mode    string    `json:"mode"`
	Program string    `json:"program,omitempty"`
	Total   int       `json:"total"`
	Reason  string    `json:"reason,omitempty"`
	Items   []itemDTO `json:"items"`
}

type subjectListResponse struct {
	Program string       `json:"program,omitempty"`
	Total   int          `json:"total"`
	Items   []subjectDTO `json:"items"`
}

type similarResponse struct {
	Subject subjectDTO `json:"subject"`
	Items   []itemDTO  `json:"items"`
}

type tagCountDTO struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type tagStatsResponse struct {
	Program string        `json:"program,omitempty"`
	Items   []tagCountDTO `json:"items"`
}

type programCountDTO struct {
	Program string `json:"program"`
	Count   int    `json:"count"`
}

type programStatsResponse struct {
	Total int               `json:"total"`
	Items []programCountDTO `json:"items"`
}

type pointDTO struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type projectionResponse struct {
	Program           string     `json:"program,omitempty"`
	Available         bool       `json:"available"`
	Reason            string     `json:"reason,omitempty"`
	ExplainedVariance []float64  `json:"explained_variance,omitempty"`
	Points            []pointDTO `json:"points"`
}

type userResponse struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type feedbackDTO struct {
	Username  string    `json:"username"`
	SubjectID string    `json:"subject_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type feedbackSummaryDTO struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

type feedbackListResponse struct {
	SubjectID string             `json:"subject_id"`
	Summary   feedbackSummaryDTO `json:"summary"`
	Items     []feedbackDTO      `json:"items"`
}

type elaborateResponse struct {
	Kind            string            `json:"kind"`
	Text            string            `json:"text"`
	SubjectIDs      []string          `json:"subject_ids"`
	Tokens          int               `json:"tokens"`
	Recommendations recommendResponse `json:"recommendations"`
}

type corpusResponse struct {
	Version       int64     `json:"version"`
	Subjects      int       `json:"subjects"`
	Vocabulary    int       `json:"vocabulary"`
	BuiltAt       time.Time `json:"built_at"`
	TechnicalTags []string  `json:"technical_tags"`
}

type ingestResponse struct {
	Corpus     corpusResponse `json:"corpus"`
	Dropped    int            `json:"dropped"`
	Skipped    int            `json:"skipped"`
	Duplicates int            `json:"duplicates"`
}

type usageResponse struct {
	Period      string    `json:"period"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	Used        int64     `json:"tokens_used"`
	Limit       int64     `json:"tokens_limit"`
	Remaining   int64     `json:"tokens_remaining"`
	Exhausted   bool      `json:"is_exhausted"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// --- Converters ---

func subjectToDTO(s *subject.Subject) subjectDTO {
	return subjectDTO{ID: s.ID(), Title: s.Title(), Program: s.Program().String(), Tags: s.Tags()}
}

func itemsToDTO(items []recommendation.Item) []itemDTO {
	out := make([]itemDTO, len(items))
	for i := range items {
		s := items[i].Subject()
		tags := items[i].Tags()
		mt := make([]matchedTagDTO, len(tags))
		for k, t := range tags {
			mt[k] = matchedTagDTO{Tag: t.Tag, Matched: t.Matched}
		}
		out[i] = itemDTO{
			ID:         s.ID(),
			Title:      s.Title(),
			Program:    s.Program().String(),
			Score:      items[i].Score(),
			Tags:       mt,
			Annotation: items[i].Annotation(),
		}
	}
	return out
}

func resultToDTO(req recommenduc.Request, res *recommendation.Result) recommendResponse {
	return recommendResponse{
		Query:   res.Query(),
		Mode:    string(req.Query.Mode()),
		Program: req.Program.String(),
		Total:   res.Len(),
		Reason:  string(res.Reason()),
		Items:   itemsToDTO(res.Items()),
	}
}

func tagCountsToDTO(counts []stats.TagCount) []tagCountDTO {
	out := make([]tagCountDTO, len(counts))
	for i, c := range counts {
		out[i] = tagCountDTO{Tag: c.Tag, Count: c.Count}
	}
	return out
}

func feedbackToDTO(f *feedback.Feedback) feedbackDTO {
	return feedbackDTO{
		Username:  f.Username(),
		SubjectID: f.SubjectID(),
		Rating:    f.Rating(),
		Comment:   f.Comment(),
		CreatedAt: time.UnixMilli(f.CreatedAt()).UTC(),
	}
}

func projectionToDTO(p program.Program, proj diaguc.Projection) projectionResponse {
	res := proj.Result
	out := projectionResponse{
		Program:   p.String(),
		Available: res.Available(),
		Reason:    string(res.Reason()),
		Points:    []pointDTO{},
	}
	if !out.Available {
		return out
	}
	ev := res.ExplainedVariance()
	out.ExplainedVariance = ev[:]
	for i, pt := range res.Points() {
		s := proj.Subjects[i]
		out.Points = append(out.Points, pointDTO{ID: s.ID(), Title: s.Title(), X: pt.X, Y: pt.Y})
	}
	return out
}

func snapshotToDTO(snap *cataloguc.Snapshot) corpusResponse {
	return corpusResponse{
		Version:       snap.Version(),
		Subjects:      snap.Len(),
		Vocabulary:    snap.Space().Dim(),
		BuiltAt:       snap.BuiltAt().UTC(),
		TechnicalTags: snap.TechnicalTags(),
	}
}

func ingestToDTO(snap *cataloguc.Snapshot, b ingest.Batch) ingestResponse {
	return ingestResponse{
		Corpus:     snapshotToDTO(snap),
		Dropped:    b.Dropped,
		Skipped:    b.Skipped,
		Duplicates: b.Duplicates,
	}
}
