// Package subject persists the corpus so a restart can restore the last loaded
// version without re-reading the CSV.
package subject

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/thesisrec/internal/db"
	"github.com/kailas-cloud/thesisrec/internal/domain"
	domsub "github.com/kailas-cloud/thesisrec/internal/domain/subject"
	"github.com/kailas-cloud/thesisrec/internal/repository"
)

// store is the consumer interface for subjects (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
}

// Repo implements usecase/catalog.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a subject repository. An empty prefix uses repository.DefaultPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = repository.DefaultPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) subjectKey(id string) string { return r.prefix + "subject:" + id }
func (r *Repo) manifestKey() string        { return r.prefix + "corpus:manifest" }
func (r *Repo) versionKey() string         { return r.prefix + "corpus:version" }

// SaveAll replaces the stored corpus: HSET every subject, write the ordered
// manifest, delete subjects that left the corpus, bump the version.
func (r *Repo) SaveAll(ctx context.Context, subjects []domsub.Subject) (int64, error) {
	items := make([]db.HashSetItem, len(subjects))
	ids := make([]string, len(subjects))
	keep := make(map[string]struct{}, len(subjects))
	for i, s := range subjects {
		key := r.subjectKey(s.ID())
		items[i] = db.HashSetItem{Key: key, Fields: subjectToHash(s)}
		ids[i] = s.ID()
		keep[key] = struct{}{}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return 0, fmt.Errorf("hset subjects: %w", err)
	}

	manifest, err := json.Marshal(ids)
	if err != nil {
		return 0, fmt.Errorf("marshal manifest: %w", err)
	}
	if err := r.store.Set(ctx, r.manifestKey(), manifest); err != nil {
		return 0, fmt.Errorf("set manifest: %w", err)
	}

	existing, err := r.store.Scan(ctx, repository.EscapeGlob(r.prefix)+"subject:*")
	if err != nil {
		return 0, fmt.Errorf("scan subjects: %w", err)
	}
	var stale []string
	for _, k := range existing {
		if _, ok := keep[k]; !ok {
			stale = append(stale, k)
		}
	}
	if err := r.store.Del(ctx, stale...); err != nil {
		return 0, fmt.Errorf("del stale subjects: %w", err)
	}

	version, err := r.store.IncrBy(ctx, r.versionKey(), 1)
	if err != nil {
		return 0, fmt.Errorf("bump version: %w", err)
	}
	return version, nil
}

// LoadAll returns the stored corpus in manifest order with its version.
// domain.ErrNotFound means nothing was ever saved.
func (r *Repo) LoadAll(ctx context.Context) ([]domsub.Subject, int64, error) {
	raw, err := r.store.Get(ctx, r.manifestKey())
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get manifest: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, 0, fmt.Errorf("unmarshal manifest: %w", err)
	}
	if len(ids) == 0 {
		return nil, 0, domain.ErrNotFound
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.subjectKey(id)
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, 0, fmt.Errorf("hgetall subjects: %w", err)
	}

	subjects := make([]domsub.Subject, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			return nil, 0, fmt.Errorf("subject %s listed in manifest but missing", ids[i])
		}
		s, err := subjectFromHash(m)
		if err != nil {
			return nil, 0, fmt.Errorf("parse subject %s: %w", ids[i], err)
		}
		subjects = append(subjects, s)
	}

	version, err := r.version(ctx)
	if err != nil {
		return nil, 0, err
	}
	return subjects, version, nil
}

func (r *Repo) version(ctx context.Context) (int64, error) {
	raw, err := r.store.Get(ctx, r.versionKey())
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get version: %w", err)
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	return v, nil
}
