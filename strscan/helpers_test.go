package strscan

import (
	"testing"
)

// eachMode runs fn once for default anchoring and once for fixed anchoring.
func eachMode(t *testing.T, fn func(t *testing.T, newScanner func(string) *Scanner)) {
	t.Helper()
	t.Run("default", func(t *testing.T) {
		fn(t, func(text string) *Scanner { return New(text) })
	})
	t.Run("fixed_anchor", func(t *testing.T) {
		fn(t, func(text string) *Scanner { return New(text, WithFixedAnchor()) })
	})
}

func scanOK(t *testing.T, s *Scanner, p Pattern, want string) {
	t.Helper()
	got, ok, err := s.Scan(p)
	if err != nil {
		t.Fatalf("Scan(%s) error: %v", p, err)
	}
	if !ok {
		t.Fatalf("Scan(%s) did not match, want %q", p, want)
	}
	if got != want {
		t.Errorf("Scan(%s) = %q, want %q", p, got, want)
	}
}

func scanNone(t *testing.T, s *Scanner, p Pattern) {
	t.Helper()
	got, ok, err := s.Scan(p)
	if err != nil {
		t.Fatalf("Scan(%s) error: %v", p, err)
	}
	if ok {
		t.Errorf("Scan(%s) = %q, want no match", p, got)
	}
}

func skipLen(t *testing.T, s *Scanner, p Pattern) (int, bool) {
	t.Helper()
	n, ok, err := s.Skip(p)
	if err != nil {
		t.Fatalf("Skip(%s) error: %v", p, err)
	}
	return n, ok
}

func pos(t *testing.T, s *Scanner) int {
	t.Helper()
	p, err := s.Pos()
	if err != nil {
		t.Fatalf("Pos() error: %v", err)
	}
	return p
}

func eos(t *testing.T, s *Scanner) bool {
	t.Helper()
	v, err := s.EOS()
	if err != nil {
		t.Fatalf("EOS() error: %v", err)
	}
	return v
}

func matched(t *testing.T, s *Scanner) (string, bool) {
	t.Helper()
	m, ok, err := s.Matched()
	if err != nil {
		t.Fatalf("Matched() error: %v", err)
	}
	return m, ok
}

func group(t *testing.T, s *Scanner, k Key) (string, bool) {
	t.Helper()
	c, err := s.Group(k)
	if err != nil {
		t.Fatalf("Group(%s) error: %v", k, err)
	}
	return c.Text, c.Matched
}

func named(t *testing.T, s *Scanner) map[string]string {
	t.Helper()
	caps, err := s.NamedCaptures()
	if err != nil {
		t.Fatalf("NamedCaptures() error: %v", err)
	}
	out := make(map[string]string, len(caps))
	for name, c := range caps {
		out[name] = c.Text
	}
	return out
}
