package strscan

import (
	"fmt"
	"strconv"
)

const inspectLength = 5

// String describes the scanner's position with a few bytes of context on
// either side of the cursor, e.g. #<StringScanner 1/11 "t" @ "est s...">.
func (s *Scanner) String() string {
	switch {
	case !s.ready:
		return "#<StringScanner (uninitialized)>"
	case s.pos >= len(s.buf):
		return "#<StringScanner fin>"
	case s.pos == 0:
		return fmt.Sprintf("#<StringScanner %d/%d @ %s>", s.pos, len(s.buf), s.inspectAfter())
	}
	return fmt.Sprintf("#<StringScanner %d/%d %s @ %s>", s.pos, len(s.buf), s.inspectBefore(), s.inspectAfter())
}

func (s *Scanner) inspectBefore() string {
	if s.pos > inspectLength {
		return strconv.Quote("..." + string(s.buf[s.pos-inspectLength:s.pos]))
	}
	return strconv.Quote(string(s.buf[:s.pos]))
}

func (s *Scanner) inspectAfter() string {
	rest := s.buf[s.pos:]
	if len(rest) > inspectLength {
		return strconv.Quote(string(rest[:inspectLength]) + "...")
	}
	return strconv.Quote(string(rest))
}
