package vectorspace

// Status describes why a query vector may be unusable.
type Status int

// Query vectorization outcomes.
const (
	// OK means the vector has at least one non-zero component.
	OK Status = iota
	// Empty means the text produced no tokens.
	Empty
	// OutOfVocabulary means every token is unknown to the corpus.
	OutOfVocabulary
)

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Empty:
		return "empty"
	case OutOfVocabulary:
		return "out_of_vocabulary"
	}
	return "unknown"
}

// Vectorize weighs a query pseudo-document against the corpus vocabulary.
// Unknown terms are dropped. A non-OK status comes with the zero vector.
func (s *Space) Vectorize(text string) (Vector, Status) {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return Vector{dim: s.Dim()}, Empty
	}
	v, known := s.weigh(tokens)
	if known == 0 || v.IsZero() {
		return Vector{dim: s.Dim()}, OutOfVocabulary
	}
	return v, OK
}
