package fsmatch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// Policy decides how matches are ordered when a pattern resolves to more
// than one file.
type Policy int

const (
	// PolicySortedName orders matches lexicographically by their composed
	// name. Deterministic across platforms; the default.
	PolicySortedName Policy = iota
	// PolicyReadDirOrder keeps the directory enumeration order as returned
	// by the OS.
	PolicyReadDirOrder
)

// ParsePolicy maps a config string to a Policy. Unknown values fall back to
// PolicySortedName.
func ParsePolicy(s string) Policy {
	if s == "readdir" {
		return PolicyReadDirOrder
	}
	return PolicySortedName
}

// Resolver matches logical dataset names against a directory's contents.
// The zero value uses PolicySortedName.
type Resolver struct {
	Policy Policy
}

// Resolve returns the regular files directly inside dir whose name contains
// pattern under any cross-normalization comparison. An absent or
// non-directory dir yields an empty result and no error; only genuine I/O
// failures are surfaced. An empty pattern matches every regular file.
func (r Resolver) Resolve(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	want := Variant(pattern)
	var matches []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if want.ContainedIn(Variant(entry.Name())) {
			matches = append(matches, filepath.Join(dir, entry.Name()))
		}
	}

	if r.Policy == PolicySortedName {
		sort.Slice(matches, func(i, j int) bool {
			return norm.NFC.String(matches[i]) < norm.NFC.String(matches[j])
		})
	}
	return matches, nil
}

// First resolves pattern and returns the single path chosen by the policy.
// The boolean is false when nothing matched. Additional matches are ignored;
// callers expecting exactly one file per logical name get the policy's pick.
func (r Resolver) First(dir, pattern string) (string, bool, error) {
	matches, err := r.Resolve(dir, pattern)
	if err != nil {
		return "", false, err
	}
	if len(matches) == 0 {
		return "", false, nil
	}
	return matches[0], true, nil
}
