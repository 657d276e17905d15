package strscan

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"
)

// Pattern is what a Scanner matches against its buffer: a Literal or a
// *Regexp.
type Pattern interface {
	fmt.Stringer
	pattern()
}

// Literal is a pattern that matches its bytes exactly.
type Literal struct {
	text []byte
	enc  Encoding
}

// Lit returns a UTF-8 literal pattern.
func Lit(s string) Literal {
	return Literal{text: []byte(s), enc: UTF8}
}

// EncodedLit returns a literal pattern over raw bytes in enc.
func EncodedLit(b []byte, enc Encoding) Literal {
	return Literal{text: bytes.Clone(b), enc: enc}
}

// EncodeLit transcodes UTF-8 text into enc and returns it as a literal.
func EncodeLit(s string, enc Encoding) (Literal, error) {
	b, err := Encode(s, enc)
	if err != nil {
		return Literal{}, err
	}
	return Literal{text: b, enc: enc}, nil
}

func (l Literal) pattern() {}

func (l Literal) String() string { return strconv.Quote(string(l.text)) }

// Encoding returns the encoding the literal's bytes are in.
func (l Literal) Encoding() Encoding { return l.enc }

// Len returns the length of the literal in bytes.
func (l Literal) Len() int { return len(l.text) }

func (l Literal) exec(text []byte, pos int, search bool) []int {
	rest := text[pos:]
	if !search {
		if bytes.HasPrefix(rest, l.text) {
			return []int{pos, pos + len(l.text)}
		}
		return nil
	}
	i := bytes.Index(rest, l.text)
	if i < 0 {
		return nil
	}
	return []int{pos + i, pos + i + len(l.text)}
}

// Regexp is a compiled regular expression usable as a Pattern. It is safe
// for concurrent use by multiple scanners.
type Regexp struct {
	expr    string
	longest bool
	re      *regexp.Regexp
	head    *regexp.Regexp // \A(?:re)
	headCtx *regexp.Regexp // \A(?s:.)(?:re), one character of leading context
	findCtx *regexp.Regexp // \A(?s:.)(?s:.*?)(re)
	names   []string
}

// Compile parses a regular expression in the syntax of the regexp package.
// ^ and $ match at line boundaries.
func Compile(expr string) (*Regexp, error) {
	re, err := regexp.Compile("(?m)" + expr)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, err)
	}
	r, err := derive(re, false)
	if err != nil {
		return nil, err
	}
	r.expr = expr
	return r, nil
}

// CompileLongest is like Compile but prefers the longest match at a
// position, as Regexp.Longest does in the regexp package.
func CompileLongest(expr string) (*Regexp, error) {
	re, err := regexp.Compile("(?m)" + expr)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, err)
	}
	r, err := derive(re, true)
	if err != nil {
		return nil, err
	}
	r.expr = expr
	return r, nil
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
func MustCompile(expr string) *Regexp {
	r, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return r
}

// FromRegexp wraps re without changing its flags, so ^ and $ keep their
// regexp package defaults unless re enables (?m) itself.
func FromRegexp(re *regexp.Regexp) (*Regexp, error) {
	return derive(re, false)
}

func derive(re *regexp.Regexp, longest bool) (*Regexp, error) {
	src := re.String()
	r := &Regexp{expr: src, longest: longest, names: re.SubexpNames()}

	var err error
	if r.re, err = compileVariant(src, longest); err != nil {
		return nil, err
	}
	if r.head, err = compileVariant(`\A(?:`+src+`)`, longest); err != nil {
		return nil, err
	}
	if r.headCtx, err = compileVariant(`\A(?s:.)(?:`+src+`)`, longest); err != nil {
		return nil, err
	}
	// The search variant decides the match position, so it stays
	// leftmost-first; exec re-anchors longest patterns at that position.
	if r.findCtx, err = compileVariant(`\A(?s:.)(?s:.*?)(`+src+`)`, false); err != nil {
		return nil, err
	}
	return r, nil
}

func compileVariant(expr string, longest bool) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, err)
	}
	if longest {
		re.Longest()
	}
	return re, nil
}

func (r *Regexp) pattern() {}

func (r *Regexp) String() string { return "/" + r.expr + "/" }

// NumSubexp returns the number of parenthesized subexpressions.
func (r *Regexp) NumSubexp() int { return len(r.names) - 1 }

// SubexpNames returns the names of the parenthesized subexpressions; index 0
// is the whole match and always "".
func (r *Regexp) SubexpNames() []string { return r.names }

// exec returns absolute register offsets for a match at pos (or, when
// search is set, at the first position at or after pos), or nil.
func (r *Regexp) exec(text []byte, pos int, search, fixed bool) []int {
	if !search {
		return r.at(text, pos, fixed)
	}
	if fixed && pos > 0 {
		subject, base := withContext(text, pos)
		loc := r.findCtx.FindSubmatchIndex(subject)
		if loc == nil {
			return nil
		}
		loc = offset(loc[2:], base)
		if r.longest {
			return r.at(text, loc[0], fixed)
		}
		return loc
	}
	return offset(r.re.FindSubmatchIndex(text[pos:]), pos)
}

func (r *Regexp) at(text []byte, pos int, fixed bool) []int {
	if fixed && pos > 0 {
		subject, base := withContext(text, pos)
		loc := offset(r.headCtx.FindSubmatchIndex(subject), base)
		if loc != nil {
			// group 0 spans the context character too
			loc[0] = pos
		}
		return loc
	}
	return offset(r.head.FindSubmatchIndex(text[pos:]), pos)
}

// withContext returns text from pos preceded by exactly one character, and
// the offset of that subject in text. A cursor inside a multi-byte
// character gets an invalid byte as context, which is neither a line break
// nor a word character.
func withContext(text []byte, pos int) ([]byte, int) {
	if k := contextLen(text, pos); k > 0 {
		return text[pos-k:], pos - k
	}
	subject := make([]byte, 0, len(text)-pos+1)
	subject = append(subject, 0xff)
	return append(subject, text[pos:]...), pos - 1
}

// contextLen returns the width of the character ending at pos, or 0 when
// pos does not sit on a character boundary.
func contextLen(text []byte, pos int) int {
	_, k := utf8.DecodeLastRune(text[:pos])
	if _, n := utf8.DecodeRune(text[pos-k:]); n != k {
		return 0
	}
	return k
}

func offset(loc []int, delta int) []int {
	if loc == nil {
		return nil
	}
	out := make([]int, len(loc))
	for i, v := range loc {
		if v < 0 {
			out[i] = -1
			continue
		}
		out[i] = v + delta
	}
	return out
}
