package strscan

import (
	"fmt"
)

// Mode selects how Attempt applies a pattern.
type Mode uint8

const (
	// Advance moves the cursor to the end of a successful match.
	Advance Mode = 1 << iota
	// Search looks for the first position at or after the cursor where the
	// pattern matches instead of requiring a match at the cursor.
	Search
)

// Attempt applies p according to mode. On success it returns the text from
// the cursor (as it was before the call) to the end of the match. On failure
// ok is false, the cursor stays, and the match state is cleared.
func (s *Scanner) Attempt(p Pattern, mode Mode) (string, bool, error) {
	start := s.pos
	ok, err := s.attempt(p, mode)
	if err != nil || !ok {
		return "", false, err
	}
	return string(s.buf[start:s.last.regs[1]]), true, nil
}

func (s *Scanner) attemptLen(p Pattern, mode Mode) (int, bool, error) {
	start := s.pos
	ok, err := s.attempt(p, mode)
	if err != nil || !ok {
		return 0, false, err
	}
	return s.last.regs[1] - start, true, nil
}

func (s *Scanner) attempt(p Pattern, mode Mode) (bool, error) {
	if err := s.ensure(); err != nil {
		return false, err
	}
	if p == nil {
		return false, fmt.Errorf("%w: nil pattern", ErrInvalidArgument)
	}
	regs, names, regex, err := s.find(p, mode&Search != 0)
	if err != nil {
		return false, err
	}
	s.begin()
	if regs == nil {
		return false, nil
	}
	s.commit(regs, names, regex, mode&Advance != 0)
	return true, nil
}

func (s *Scanner) find(p Pattern, search bool) ([]int, []string, bool, error) {
	switch p := p.(type) {
	case Literal:
		if !compatible(s.enc, s.bufASCII(), len(s.buf) == 0, p.enc, p.text) {
			return nil, nil, false, incompatible(s.enc, p.enc)
		}
		return p.exec(s.buf, s.pos, search), nil, false, nil

	case *Regexp:
		if p == nil {
			return nil, nil, false, fmt.Errorf("%w: nil pattern", ErrInvalidArgument)
		}
		if !s.enc.ASCIICompatible() {
			return nil, nil, true, incompatible(s.enc, UTF8)
		}
		if !s.enc.info().view {
			return p.exec(s.buf, s.pos, search, s.fixed), p.names, true, nil
		}
		v := s.textView()
		at := v.toView[s.pos]
		if at < 0 {
			return nil, p.names, true, nil
		}
		loc := p.exec(v.text, at, search, s.fixed)
		for i, off := range loc {
			if off >= 0 {
				loc[i] = v.toBuf[off]
			}
		}
		return loc, p.names, true, nil
	}
	return nil, nil, false, fmt.Errorf("%w: unsupported pattern %T", ErrInvalidArgument, p)
}

// Scan matches p at the cursor and advances past the match.
func (s *Scanner) Scan(p Pattern) (string, bool, error) {
	return s.Attempt(p, Advance)
}

// Skip is Scan returning the length of the match.
func (s *Scanner) Skip(p Pattern) (int, bool, error) {
	return s.attemptLen(p, Advance)
}

// Check matches p at the cursor without advancing.
func (s *Scanner) Check(p Pattern) (string, bool, error) {
	return s.Attempt(p, 0)
}

// Match is Check returning the length of the match.
func (s *Scanner) Match(p Pattern) (int, bool, error) {
	return s.attemptLen(p, 0)
}

// ScanUntil searches for p and advances to the end of the match. It returns
// the text from the cursor through the match.
func (s *Scanner) ScanUntil(p Pattern) (string, bool, error) {
	return s.Attempt(p, Search|Advance)
}

// SkipUntil is ScanUntil returning the distance advanced.
func (s *Scanner) SkipUntil(p Pattern) (int, bool, error) {
	return s.attemptLen(p, Search|Advance)
}

// CheckUntil is ScanUntil without advancing.
func (s *Scanner) CheckUntil(p Pattern) (string, bool, error) {
	return s.Attempt(p, Search)
}

// Exist reports the distance from the cursor to the end of the first match
// of p, without advancing.
func (s *Scanner) Exist(p Pattern) (int, bool, error) {
	return s.attemptLen(p, Search)
}

// ScanFull matches p at the cursor, advancing only when advance is set.
func (s *Scanner) ScanFull(p Pattern, advance bool) (string, bool, error) {
	mode := Mode(0)
	if advance {
		mode |= Advance
	}
	return s.Attempt(p, mode)
}

// SearchFull searches for p, advancing only when advance is set.
func (s *Scanner) SearchFull(p Pattern, advance bool) (string, bool, error) {
	mode := Search
	if advance {
		mode |= Advance
	}
	return s.Attempt(p, mode)
}
