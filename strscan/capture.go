package strscan

import (
	"strconv"
)

// Key selects a capture group either by number or by name.
type Key struct {
	index int
	name  string
	named bool
}

// Index selects a numbered group. 0 is the whole match; negative indices
// count back from the last group.
func Index(i int) Key { return Key{index: i} }

// Name selects a named group.
func Name(name string) Key { return Key{name: name, named: true} }

func (k Key) String() string {
	if k.named {
		return ":" + k.name
	}
	return strconv.Itoa(k.index)
}

// Capture is one group of the last match. Matched is false, and Start and
// End are -1, for a group that did not take part in the match or when
// nothing is matched.
type Capture struct {
	Text    string
	Start   int
	End     int
	Matched bool
}

var noCapture = Capture{Start: -1, End: -1}

func (s *Scanner) capture(i int) Capture {
	start, end := s.last.regs[2*i], s.last.regs[2*i+1]
	if start < 0 {
		return noCapture
	}
	return Capture{Text: string(s.buf[start:end]), Start: start, End: end, Matched: true}
}

// resolve maps k to a group number, or -1 when the index is out of range.
func (m *match) resolve(k Key) (int, error) {
	n := len(m.regs) / 2
	if !k.named {
		i := k.index
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return -1, nil
		}
		return i, nil
	}

	found := -1
	for i := len(m.names) - 1; i > 0; i-- {
		if m.names[i] != k.name {
			continue
		}
		if m.regs[2*i] >= 0 {
			return i, nil
		}
		if found < 0 {
			found = i
		}
	}
	if found < 0 {
		return -1, &CaptureNameError{Name: k.name}
	}
	return found, nil
}

// Group returns the group selected by k. Looking up a name the last match
// does not define fails with a *CaptureNameError; with no match at all the
// result is simply not Matched.
func (s *Scanner) Group(k Key) (Capture, error) {
	if err := s.ensure(); err != nil {
		return noCapture, err
	}
	if !s.last.ok {
		return noCapture, nil
	}
	i, err := s.last.resolve(k)
	if err != nil || i < 0 {
		return noCapture, err
	}
	return s.capture(i), nil
}

// Size returns the number of groups in the last match, the whole match
// included, or 0 when nothing is matched.
func (s *Scanner) Size() (int, error) {
	if err := s.ensure(); err != nil {
		return 0, err
	}
	if !s.last.ok {
		return 0, nil
	}
	return len(s.last.regs) / 2, nil
}

// Captures returns groups 1 and up of the last match, or nil when nothing is
// matched.
func (s *Scanner) Captures() ([]Capture, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	if !s.last.ok {
		return nil, nil
	}
	n := len(s.last.regs) / 2
	out := make([]Capture, 0, n-1)
	for i := 1; i < n; i++ {
		out = append(out, s.capture(i))
	}
	return out, nil
}

// ValuesAt returns the groups selected by keys, or nil when nothing is
// matched.
func (s *Scanner) ValuesAt(keys ...Key) ([]Capture, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	if !s.last.ok {
		return nil, nil
	}
	out := make([]Capture, 0, len(keys))
	for _, k := range keys {
		c, err := s.Group(k)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// NamedCaptures maps each group name of the last match to its capture. It is
// empty unless the last match was made with a regular expression that has
// named groups.
func (s *Scanner) NamedCaptures() (map[string]Capture, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	out := make(map[string]Capture)
	if !s.last.ok {
		return out, nil
	}
	for _, name := range s.last.names {
		if name == "" {
			continue
		}
		if _, seen := out[name]; seen {
			continue
		}
		i, err := s.last.resolve(Name(name))
		if err != nil {
			return nil, err
		}
		out[name] = s.capture(i)
	}
	return out, nil
}

// IsMatched reports whether the last attempt succeeded.
func (s *Scanner) IsMatched() (bool, error) {
	if err := s.ensure(); err != nil {
		return false, err
	}
	return s.last.ok, nil
}

// Matched returns the text of the last match.
func (s *Scanner) Matched() (string, bool, error) {
	c, err := s.Group(Index(0))
	return c.Text, c.Matched, err
}

// MatchedSize returns the length in bytes of the last match.
func (s *Scanner) MatchedSize() (int, bool, error) {
	c, err := s.Group(Index(0))
	return c.End - c.Start, c.Matched, err
}

// PreMatch returns the buffer from its start up to the last match.
func (s *Scanner) PreMatch() (string, bool, error) {
	c, err := s.Group(Index(0))
	if err != nil || !c.Matched {
		return "", false, err
	}
	return string(s.buf[:c.Start]), true, nil
}

// PostMatch returns the buffer from the end of the last match on.
func (s *Scanner) PostMatch() (string, bool, error) {
	c, err := s.Group(Index(0))
	if err != nil || !c.Matched {
		return "", false, err
	}
	return string(s.buf[c.End:]), true, nil
}
