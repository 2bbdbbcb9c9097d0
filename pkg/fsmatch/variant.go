// Package fsmatch resolves logical dataset names against on-disk filenames
// that may differ only in Unicode normalization form. Decomposition-prone
// filesystems (HFS+, some SMB mounts) store Hangul as Jamo sequences, so a
// composed pattern typed in a config file can fail a naive substring check
// against the very file it names.
package fsmatch

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NameVariant is the NFC and NFD renderings of one logical name. Both forms
// denote the same visible text; deriving a variant from either form yields
// the same pair.
type NameVariant struct {
	Composed   string
	Decomposed string
}

// Variant derives the canonical composed and decomposed forms of s.
func Variant(s string) NameVariant {
	return NameVariant{
		Composed:   norm.NFC.String(s),
		Decomposed: norm.NFD.String(s),
	}
}

// ContainedIn reports whether v occurs as a substring of other under any mix
// of normalization forms on either side. All four cross-combinations are
// checked so that a composed pattern still matches a decomposed filename and
// vice versa.
func (v NameVariant) ContainedIn(other NameVariant) bool {
	return strings.Contains(other.Composed, v.Composed) ||
		strings.Contains(other.Decomposed, v.Decomposed) ||
		strings.Contains(other.Decomposed, v.Composed) ||
		strings.Contains(other.Composed, v.Decomposed)
}
