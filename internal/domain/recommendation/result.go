package recommendation

// Reason explains an empty result.
type Reason string

// Empty result reasons. ReasonNone means the result has items.
const (
	ReasonNone            Reason = ""
	ReasonEmptyQuery      Reason = "empty_query"
	ReasonOutOfVocabulary Reason = "out_of_vocabulary"
	ReasonNoMatch         Reason = "no_match"
)

// Result is an ordered, immutable recommendation list.
type Result struct {
	query  string
	items  []Item
	reason Reason
}

// NewResult wraps ranked items. No items means ReasonNoMatch.
func NewResult(query string, items []Item) Result {
	r := Result{query: query, items: items}
	if len(items) == 0 {
		r.reason = ReasonNoMatch
	}
	return r
}

// Empty creates an explicit empty result.
func Empty(query string, reason Reason) Result {
	if reason == ReasonNone {
		reason = ReasonNoMatch
	}
	return Result{query: query, reason: reason}
}

// Query returns the display text of the originating query.
func (r *Result) Query() string { return r.query }

// Items returns the ranked items, best first.
func (r *Result) Items() []Item { return r.items }

// Len returns the number of items.
func (r *Result) Len() int { return len(r.items) }

// IsEmpty reports whether nothing cleared the threshold.
func (r *Result) IsEmpty() bool { return len(r.items) == 0 }

// Reason returns why the result is empty, or ReasonNone.
func (r *Result) Reason() Reason { return r.reason }

// Top returns at most n leading items.
func (r *Result) Top(n int) []Item {
	if n < 0 || n >= len(r.items) {
		return r.items
	}
	return r.items[:n]
}
