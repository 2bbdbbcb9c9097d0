package fsmatch

import (
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestVariant_RoundTrip(t *testing.T) {
	inputs := []string{
		"송도고_환경데이터.csv",
		norm.NFD.String("동산고_환경데이터.csv"),
		"4개교_생육결과데이터.xlsx",
		"café.csv",
		"plain-ascii.csv",
		"",
	}
	for _, s := range inputs {
		v := Variant(s)
		// Re-deriving from either form must yield the same pair.
		if got := Variant(v.Composed); got != v {
			t.Errorf("Variant(%q).Composed re-derived = %+v, want %+v", s, got, v)
		}
		if got := Variant(v.Decomposed); got != v {
			t.Errorf("Variant(%q).Decomposed re-derived = %+v, want %+v", s, got, v)
		}
		// Both forms must denote the same text under canonical equivalence.
		if norm.NFD.String(v.Composed) != v.Decomposed {
			t.Errorf("Variant(%q): NFD(composed) != decomposed", s)
		}
		if norm.NFC.String(v.Decomposed) != v.Composed {
			t.Errorf("Variant(%q): NFC(decomposed) != composed", s)
		}
	}
}

func TestVariant_HangulFormsDiffer(t *testing.T) {
	v := Variant("송도고")
	if v.Composed == v.Decomposed {
		t.Fatal("Hangul composed and decomposed forms should differ")
	}
	if len(v.Decomposed) <= len(v.Composed) {
		t.Errorf("decomposed form %q should be longer than composed %q", v.Decomposed, v.Composed)
	}
}

func TestContainedIn_CrossNormalization(t *testing.T) {
	name := "송도고_환경데이터.csv"
	nfc := norm.NFC.String(name)
	nfd := norm.NFD.String(name)

	tests := []struct {
		pattern, candidate string
	}{
		{nfc, nfc},
		{nfc, nfd},
		{nfd, nfc},
		{nfd, nfd},
		{norm.NFD.String("환경데이터"), nfc},
		{"환경데이터", nfd},
	}
	for _, tt := range tests {
		if !Variant(tt.pattern).ContainedIn(Variant(tt.candidate)) {
			t.Errorf("pattern %q should match candidate %q", tt.pattern, tt.candidate)
		}
	}
}

func TestContainedIn_NoMatch(t *testing.T) {
	if Variant("하늘고").ContainedIn(Variant("송도고_환경데이터.csv")) {
		t.Error("unrelated pattern should not match")
	}
}

func TestContainedIn_EmptyPatternMatchesAll(t *testing.T) {
	for _, candidate := range []string{"a.csv", "송도고_환경데이터.csv", ""} {
		if !Variant("").ContainedIn(Variant(candidate)) {
			t.Errorf("empty pattern should match %q", candidate)
		}
	}
}
