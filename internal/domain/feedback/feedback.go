// Package feedback defines a user's rating of a recommended subject.
package feedback

import "fmt"

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
	// MaxCommentLength is the longest accepted comment in bytes.
	MaxCommentLength = 2000
)

// Feedback is one rating (immutable value object).
type Feedback struct {
	username  string
	subjectID string
	rating    int
	comment   string
	createdAt int64
}

// New validates and creates a Feedback.
func New(username, subjectID string, rating int, comment string, createdAt int64) (Feedback, error) {
	if username == "" {
		return Feedback{}, fmt.Errorf("username is required")
	}
	if subjectID == "" {
		return Feedback{}, fmt.Errorf("subject ID is required")
	}
	if rating < MinRating || rating > MaxRating {
		return Feedback{}, fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)
	}
	if len(comment) > MaxCommentLength {
		return Feedback{}, fmt.Errorf("comment too long (max %d bytes)", MaxCommentLength)
	}
	return Feedback{
		username: username, subjectID: subjectID,
		rating: rating, comment: comment, createdAt: createdAt,
	}, nil
}

// Reconstruct creates a Feedback without validation (storage hydration).
func Reconstruct(username, subjectID string, rating int, comment string, createdAt int64) Feedback {
	return Feedback{
		username: username, subjectID: subjectID,
		rating: rating, comment: comment, createdAt: createdAt,
	}
}

// Username returns the author.
func (f *Feedback) Username() string { return f.username }

// SubjectID returns the rated subject.
func (f *Feedback) SubjectID() string { return f.subjectID }

// Rating returns the 1-5 rating.
func (f *Feedback) Rating() int { return f.rating }

// Comment returns the optional free-text comment.
func (f *Feedback) Comment() string { return f.comment }

// CreatedAt returns the submission time in unix milliseconds.
func (f *Feedback) CreatedAt() int64 { return f.createdAt }

// Summary aggregates ratings of one subject.
type Summary struct {
	SubjectID string
	Count     int
	Average   float64
}

// Summarize averages the ratings. No feedback yields a zero summary.
func Summarize(subjectID string, items []Feedback) Summary {
	s := Summary{SubjectID: subjectID, Count: len(items)}
	if len(items) == 0 {
		return s
	}
	total := 0
	for i := range items {
		total += items[i].rating
	}
	s.Average = float64(total) / float64(len(items))
	return s
}
