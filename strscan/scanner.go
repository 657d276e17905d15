package strscan

import (
	"bytes"
	"fmt"
)

// Option configures a Scanner created by New or NewBytes.
type Option func(*Scanner)

// WithFixedAnchor makes \A and ^ keep their meaning relative to the whole
// buffer instead of the cursor.
func WithFixedAnchor() Option {
	return func(s *Scanner) {
		s.fixed = true
	}
}

// WithEncoding tags the buffer with enc instead of UTF8.
func WithEncoding(enc Encoding) Option {
	return func(s *Scanner) {
		s.enc = enc
	}
}

// Scanner scans a buffer with a byte cursor. The zero value is an
// uninitialized scanner; bind a buffer with SetString or SetBytes before use.
type Scanner struct {
	buf   []byte
	enc   Encoding
	ready bool
	fixed bool
	pos   int
	last  match
	undo  *snapshot
	ascii int8 // 0 unknown, 1 buf is ASCII only, -1 it is not
	view  *view
}

// match is the outcome of the last attempt. regs holds absolute offset
// pairs, group 0 first; -1 marks a group that did not participate.
type match struct {
	ok    bool
	regs  []int
	names []string
	regex bool
}

type snapshot struct {
	pos  int
	last match
}

// New creates a scanner over UTF-8 text with the cursor at 0.
func New(text string, opts ...Option) *Scanner {
	s := &Scanner{buf: []byte(text), ready: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewBytes creates a scanner over a copy of b, tagged with enc.
func NewBytes(b []byte, enc Encoding, opts ...Option) *Scanner {
	s := &Scanner{buf: bytes.Clone(b), enc: enc, ready: true}
	if s.buf == nil {
		s.buf = []byte{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scanner) ensure() error {
	if !s.ready {
		return ErrUninitialized
	}
	return nil
}

// begin records the state to restore on Unscan and clears the match.
func (s *Scanner) begin() {
	s.undo = &snapshot{pos: s.pos, last: s.last}
	s.last = match{}
}

func (s *Scanner) commit(regs []int, names []string, regex, advance bool) {
	s.last = match{ok: true, regs: regs, names: names, regex: regex}
	if advance {
		s.pos = regs[1]
	}
}

func (s *Scanner) clear() {
	s.last = match{}
	s.undo = nil
}

func (s *Scanner) bufASCII() bool {
	if s.ascii == 0 {
		s.ascii = -1
		if asciiOnly(s.buf) {
			s.ascii = 1
		}
	}
	return s.ascii == 1
}

func (s *Scanner) textView() *view {
	if s.view == nil {
		s.view = newView(s.buf, s.enc)
	}
	return s.view
}

// FixedAnchor reports whether the scanner was created WithFixedAnchor.
func (s *Scanner) FixedAnchor() bool { return s.fixed }

// Encoding returns the encoding the buffer is tagged with.
func (s *Scanner) Encoding() Encoding { return s.enc }

// Clone returns an independent copy of the scanner, buffer included.
func (s *Scanner) Clone() *Scanner {
	c := *s
	c.buf = bytes.Clone(s.buf)
	if s.undo != nil {
		undo := *s.undo
		c.undo = &undo
	}
	c.view = nil
	return &c
}

// SetString replaces the buffer with UTF-8 text, moves the cursor to 0, and
// clears the match state.
func (s *Scanner) SetString(text string) {
	s.SetBytes([]byte(text), UTF8)
}

// SetBytes replaces the buffer with a copy of b in enc, moves the cursor to
// 0, and clears the match state.
func (s *Scanner) SetBytes(b []byte, enc Encoding) {
	s.buf = bytes.Clone(b)
	if s.buf == nil {
		s.buf = []byte{}
	}
	s.enc = enc
	s.ready = true
	s.pos = 0
	s.ascii = 0
	s.view = nil
	s.clear()
}

// Concat appends UTF-8 text to the buffer. The cursor and the match state
// are left alone.
func (s *Scanner) Concat(text string) error {
	return s.ConcatBytes([]byte(text), UTF8)
}

// ConcatBytes appends b, encoded in enc, to the buffer. The bytes must be
// compatible with the buffer's encoding, else ErrIncompatibleEncoding is
// returned and the buffer is unchanged. An empty or ASCII-only buffer takes
// on enc when b holds non-ASCII text.
func (s *Scanner) ConcatBytes(b []byte, enc Encoding) error {
	if err := s.ensure(); err != nil {
		return err
	}
	bufASCII := s.bufASCII()
	if !compatible(s.enc, bufASCII, len(s.buf) == 0, enc, b) {
		return fmt.Errorf("%w: cannot append %s text to %s buffer", ErrIncompatibleEncoding, enc, s.enc)
	}
	textASCII := asciiOnly(b)
	if s.enc != enc && (len(s.buf) == 0 || (bufASCII && !textASCII)) && len(b) > 0 {
		s.enc = enc
	}
	s.buf = append(s.buf, b...)
	if bufASCII && !textASCII {
		s.ascii = -1
	}
	s.view = nil
	return nil
}

// Text returns the whole buffer.
func (s *Scanner) Text() (string, error) {
	if err := s.ensure(); err != nil {
		return "", err
	}
	return string(s.buf), nil
}

// Bytes returns a copy of the whole buffer.
func (s *Scanner) Bytes() ([]byte, error) {
	if err := s.ensure(); err != nil {
		return nil, err
	}
	return bytes.Clone(s.buf), nil
}

// Pos returns the cursor as a byte offset.
func (s *Scanner) Pos() (int, error) {
	if err := s.ensure(); err != nil {
		return 0, err
	}
	return s.pos, nil
}

// SetPos moves the cursor to byte offset n. Negative offsets count from the
// end of the buffer.
func (s *Scanner) SetPos(n int) error {
	if err := s.ensure(); err != nil {
		return err
	}
	if n < 0 {
		n += len(s.buf)
	}
	if n < 0 || n > len(s.buf) {
		return fmt.Errorf("%w: position %d in %d bytes", ErrOutOfRange, n, len(s.buf))
	}
	s.pos = n
	return nil
}

// Charpos returns the number of characters before the cursor.
func (s *Scanner) Charpos() (int, error) {
	if err := s.ensure(); err != nil {
		return 0, err
	}
	return s.enc.countChars(s.buf[:s.pos]), nil
}

// EOS reports whether the cursor is at the end of the buffer.
func (s *Scanner) EOS() (bool, error) {
	if err := s.ensure(); err != nil {
		return false, err
	}
	return s.pos >= len(s.buf), nil
}

// BOL reports whether the cursor is at the beginning of a line.
func (s *Scanner) BOL() (bool, error) {
	if err := s.ensure(); err != nil {
		return false, err
	}
	return s.pos == 0 || s.buf[s.pos-1] == '\n', nil
}

// Rest returns the buffer from the cursor to the end.
func (s *Scanner) Rest() (string, error) {
	if err := s.ensure(); err != nil {
		return "", err
	}
	return string(s.buf[s.pos:]), nil
}

// RestSize returns the number of bytes after the cursor.
func (s *Scanner) RestSize() (int, error) {
	if err := s.ensure(); err != nil {
		return 0, err
	}
	return len(s.buf) - s.pos, nil
}

// Peek returns up to n bytes after the cursor without consuming them.
func (s *Scanner) Peek(n int) (string, error) {
	if err := s.ensure(); err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("%w: negative peek length %d", ErrInvalidArgument, n)
	}
	end := len(s.buf)
	if n < end-s.pos {
		end = s.pos + n
	}
	return string(s.buf[s.pos:end]), nil
}

// PeekByte returns the byte at the cursor without consuming it.
func (s *Scanner) PeekByte() (byte, bool, error) {
	if err := s.ensure(); err != nil {
		return 0, false, err
	}
	if s.pos >= len(s.buf) {
		return 0, false, nil
	}
	return s.buf[s.pos], true, nil
}

// Getch consumes one character in the buffer's encoding.
func (s *Scanner) Getch() (string, bool, error) {
	if err := s.ensure(); err != nil {
		return "", false, err
	}
	return s.consume(s.enc.charLen(s.buf[s.pos:]))
}

// GetByte consumes one byte and returns it as a string.
func (s *Scanner) GetByte() (string, bool, error) {
	if err := s.ensure(); err != nil {
		return "", false, err
	}
	return s.consume(min(1, len(s.buf)-s.pos))
}

// ScanByte consumes one byte and returns its value.
func (s *Scanner) ScanByte() (byte, bool, error) {
	if err := s.ensure(); err != nil {
		return 0, false, err
	}
	if _, ok, _ := s.consume(min(1, len(s.buf)-s.pos)); !ok {
		return 0, false, nil
	}
	return s.buf[s.pos-1], true, nil
}

func (s *Scanner) consume(n int) (string, bool, error) {
	s.begin()
	if n <= 0 {
		return "", false, nil
	}
	start := s.pos
	s.commit([]int{start, start + n}, nil, false, true)
	return string(s.buf[start:s.pos]), true, nil
}

// Terminate moves the cursor to the end of the buffer and clears the match.
func (s *Scanner) Terminate() error {
	if err := s.ensure(); err != nil {
		return err
	}
	s.pos = len(s.buf)
	s.clear()
	return nil
}

// Reset moves the cursor to the start of the buffer and clears the match.
func (s *Scanner) Reset() error {
	if err := s.ensure(); err != nil {
		return err
	}
	s.pos = 0
	s.clear()
	return nil
}

// Unscan restores the cursor and match state held before the last
// successful attempt. It fails with ErrNothingToUnscan when the last attempt
// did not match or the state was already restored.
func (s *Scanner) Unscan() error {
	if err := s.ensure(); err != nil {
		return err
	}
	if !s.last.ok || s.undo == nil {
		return ErrNothingToUnscan
	}
	s.pos, s.last = s.undo.pos, s.undo.last
	s.undo = nil
	return nil
}
