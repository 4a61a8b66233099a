// Package repository holds the key layout shared by the store-backed repositories.
package repository

import "strings"

// DefaultPrefix namespaces every key written by this service.
const DefaultPrefix = "thesisrec:"

// EscapeGlob escapes SCAN/MATCH glob metacharacters so s matches literally.
func EscapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
