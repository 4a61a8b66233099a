// Package program defines the closed set of academic programs a subject belongs to.
package program

import "strings"

// Program is a study-program code.
type Program string

// Known programs.
const (
	// Any is the empty filter: every program.
	Any Program = ""
	// GI is computer engineering (génie informatique).
	GI Program = "GI"
	// GE is electrical engineering (génie électrique).
	GE Program = "GE"
	// GC is civil engineering (génie civil).
	GC Program = "GC"
)

// All returns the closed set in canonical order.
func All() []Program {
	return []Program{GI, GE, GC}
}

// IsValid reports whether p is one of the known programs.
func (p Program) IsValid() bool {
	return p == GI || p == GE || p == GC
}

// Tag returns the lowercase structural tag carried by subjects of this program.
func (p Program) Tag() string { return strings.ToLower(string(p)) }

// String implements fmt.Stringer.
func (p Program) String() string { return string(p) }

// Parse resolves a program code case-insensitively. "", "all" and "*" mean Any.
func Parse(s string) (Program, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ALL", "*":
		return Any, true
	case "GI":
		return GI, true
	case "GE":
		return GE, true
	case "GC":
		return GC, true
	}
	return Any, false
}

// Tags returns the structural tags of all programs (gi, ge, gc).
func Tags() []string {
	all := All()
	out := make([]string, len(all))
	for i, p := range all {
		out[i] = p.Tag()
	}
	return out
}
