// Package ebnflex provides lexical scanning based on EBNF grammars.
package ebnflex

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/strscan/strscan"
	"github.com/rivo/uniseg"
	"github.com/tliron/commonlog"
	"golang.org/x/exp/ebnf"
)

const (
	KindEOF   = "EOF"
	KindError = "ERROR"
)

var log = commonlog.GetLogger("strscan.lexer")

// Position represents a location in source code. Column counts grapheme
// clusters from the start of the line.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a lexical token with its position.
type Token struct {
	Kind     string
	Literal  string
	Position Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Position, t.Kind, t.Literal)
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithEncoding lexes input that is in enc rather than UTF-8. Literals are
// returned as UTF-8.
func WithEncoding(enc strscan.Encoding) Option {
	return func(l *Lexer) {
		l.enc = enc
	}
}

// WithSkipKinds is SetSkipKinds as an option.
func WithSkipKinds(kinds ...string) Option {
	return func(l *Lexer) {
		l.SetSkipKinds(kinds...)
	}
}

// Lexer tokenizes input based on compiled grammar rules.
type Lexer struct {
	rules     *Rules
	input     []byte
	scanner   *strscan.Scanner
	enc       strscan.Encoding
	filename  string
	line      int
	lineStart int
	skip      map[string]bool
}

// NewLexer creates a lexer for the given rules and input.
func NewLexer(rules *Rules, input []byte, filename string, opts ...Option) (*Lexer, error) {
	l := &Lexer{
		rules:    rules,
		input:    input,
		filename: filename,
		line:     1,
		skip:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	if !l.enc.ASCIICompatible() {
		return nil, fmt.Errorf("%w: cannot lex %s input", strscan.ErrIncompatibleEncoding, l.enc)
	}
	l.scanner = strscan.NewBytes(input, l.enc)
	return l, nil
}

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	grammar, err := ebnf.Parse(filename, f)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}

	return grammar, nil
}

// SetSkipKinds sets which token kinds Tokenize leaves out.
func (l *Lexer) SetSkipKinds(kinds ...string) {
	l.skip = make(map[string]bool, len(kinds))
	for _, kind := range kinds {
		l.skip[kind] = true
	}
}

// Position returns the current position in the input.
func (l *Lexer) Position() Position {
	pos, _ := l.scanner.Pos()
	return Position{
		Filename: l.filename,
		Offset:   pos,
		Line:     l.line,
		Column:   1 + l.columns(pos),
	}
}

func (l *Lexer) columns(pos int) int {
	return uniseg.GraphemeClusterCount(l.literal(string(l.input[l.lineStart:pos])))
}

// advance accounts for consumed raw bytes ending at offset end.
func (l *Lexer) advance(consumed string, end int) {
	l.line += bytes.Count([]byte(consumed), []byte{'\n'})
	if i := bytes.LastIndexByte([]byte(consumed), '\n'); i >= 0 {
		l.lineStart = end - len(consumed) + i + 1
	}
}

func (l *Lexer) literal(raw string) string {
	if l.enc == strscan.UTF8 || l.enc == strscan.Binary {
		return raw
	}
	text, err := strscan.Decode([]byte(raw), l.enc)
	if err != nil {
		return raw
	}
	return text
}

// NextToken returns the next token from the input. Every rule is tried at
// the cursor and the longest match wins; on a tie the kind that sorts first
// wins. Input no rule matches comes back one character at a time as ERROR
// tokens. At the end of input it returns an EOF token and io.EOF.
func (l *Lexer) NextToken() (Token, error) {
	if eos, _ := l.scanner.EOS(); eos {
		return Token{Kind: KindEOF, Position: l.Position()}, io.EOF
	}

	start := l.Position()
	best, bestLen := -1, 0
	for i, r := range l.rules.rules {
		n, ok, err := l.scanner.Match(r.re)
		if err != nil {
			return Token{}, fmt.Errorf("%s: match %s: %w", start, r.kind, err)
		}
		if ok && n > bestLen {
			best, bestLen = i, n
		}
	}

	if best < 0 {
		ch, _, err := l.scanner.Getch()
		if err != nil {
			return Token{}, err
		}
		l.advance(ch, start.Offset+len(ch))
		log.Debugf("%s: no token matches %q", start, ch)
		return Token{
			Kind:     KindError,
			Literal:  l.literal(ch),
			Position: start,
		}, nil
	}

	kind := l.rules.rules[best].kind
	lit, _, err := l.scanner.Scan(l.rules.rules[best].re)
	if err != nil {
		return Token{}, fmt.Errorf("%s: scan %s: %w", start, kind, err)
	}
	l.advance(lit, start.Offset+len(lit))

	return Token{
		Kind:     kind,
		Literal:  l.literal(lit),
		Position: start,
	}, nil
}

// Tokenize reads all tokens from input, leaving out skipped kinds. The last
// token is EOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err == io.EOF {
			tokens = append(tokens, tok)
			break
		}
		if err != nil {
			return tokens, err
		}
		if l.skip[tok.Kind] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}
