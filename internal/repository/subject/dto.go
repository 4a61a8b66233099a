package subject

import (
	"fmt"

	"github.com/kailas-cloud/thesisrec/internal/domain/program"
	domsub "github.com/kailas-cloud/thesisrec/internal/domain/subject"
)

// subjectToHash converts a domain Subject to a map for HSET.
func subjectToHash(s domsub.Subject) map[string]string {
	return map[string]string{
		"id":      s.ID(),
		"title":   s.Title(),
		"program": string(s.Program()),
		"tags":    s.TagString(),
	}
}

// subjectFromHash hydrates a domain Subject from an HGETALL result map.
func subjectFromHash(m map[string]string) (domsub.Subject, error) {
	id := m["id"]
	if id == "" {
		return domsub.Subject{}, fmt.Errorf("missing id")
	}
	p := program.Program(m["program"])
	if !p.IsValid() {
		return domsub.Subject{}, fmt.Errorf("invalid program %q", m["program"])
	}
	return domsub.Reconstruct(id, m["title"], p, domsub.SplitTags(m["tags"])), nil
}
