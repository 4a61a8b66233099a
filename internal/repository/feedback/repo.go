// Package feedback stores one rating per user and subject.
package feedback

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	domfb "github.com/kailas-cloud/thesisrec/internal/domain/feedback"
	"github.com/kailas-cloud/thesisrec/internal/repository"
)

type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/feedback.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a feedback repository.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = repository.DefaultPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) key(subjectID, username string) string {
	return r.prefix + "feedback:" + subjectID + ":" + username
}

// Save stores feedback; a later submission by the same user replaces the earlier one.
func (r *Repo) Save(ctx context.Context, f domfb.Feedback) error {
	key := r.key(f.SubjectID(), f.Username())
	if err := r.store.HSet(ctx, key, map[string]string{
		"username":   f.Username(),
		"subject_id": f.SubjectID(),
		"rating":     strconv.Itoa(f.Rating()),
		"comment":    f.Comment(),
		"created_at": strconv.FormatInt(f.CreatedAt(), 10),
	}); err != nil {
		return fmt.Errorf("hset feedback %s: %w", key, err)
	}
	return nil
}

// ListBySubject returns the feedback of one subject, oldest first.
func (r *Repo) ListBySubject(ctx context.Context, subjectID string) ([]domfb.Feedback, error) {
	pattern := repository.EscapeGlob(r.prefix+"feedback:"+subjectID+":") + "*"
	keys, err := r.store.Scan(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("scan feedback: %w", err)
	}
	if len(keys) == 0 {
		return []domfb.Feedback{}, nil
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall feedback: %w", err)
	}

	out := make([]domfb.Feedback, 0, len(hashes))
	for i, m := range hashes {
		// subject IDs may contain ':', so the pattern can catch a longer ID
		if len(m) == 0 || m["subject_id"] != subjectID {
			continue
		}
		rating, err := strconv.Atoi(m["rating"])
		if err != nil {
			return nil, fmt.Errorf("parse rating %s: %w", keys[i], err)
		}
		createdAt, _ := strconv.ParseInt(m["created_at"], 10, 64)
		out = append(out, domfb.Reconstruct(m["username"], subjectID, rating, m["comment"], createdAt))
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].CreatedAt() < out[b].CreatedAt() })
	return out, nil
}
