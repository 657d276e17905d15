package ebnflex

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/strscan/strscan"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/exp/ebnf"
)

const testGrammar = `
Ident   = letter { letter | digit } .
Number  = digit { digit } .
Space   = " " { " " } .
Newline = "\n" .
Arrow   = "->" .
Minus   = "-" .
Keyword = "let" | "in" .

letter = "a" … "z" | "A" … "Z" | "_" .
digit  = "0" … "9" .
`

func parseGrammar(t *testing.T, src string) ebnf.Grammar {
	t.Helper()
	grammar, err := ebnf.Parse("test.ebnf", strings.NewReader(src))
	if err != nil {
		t.Fatalf("ebnf.Parse() error: %v", err)
	}
	return grammar
}

func newTestLexer(t *testing.T, input string, opts ...Option) *Lexer {
	t.Helper()
	rules, err := CompileRules(parseGrammar(t, testGrammar))
	if err != nil {
		t.Fatalf("CompileRules() error: %v", err)
	}
	l, err := NewLexer(rules, []byte(input), "", opts...)
	if err != nil {
		t.Fatalf("NewLexer() error: %v", err)
	}
	return l
}

// summary renders tokens as "line:col Kind literal" for compact comparison.
func summary(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.String()
	}
	return out
}

func TestCompileRules(t *testing.T) {
	rules, err := CompileRules(parseGrammar(t, testGrammar))
	if err != nil {
		t.Fatalf("CompileRules() error: %v", err)
	}
	want := []string{"Arrow", "Ident", "Keyword", "Minus", "Newline", "Number", "Space"}
	if diff := cmp.Diff(want, rules.Kinds()); diff != "" {
		t.Errorf("Kinds() mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		kind string
		want string
	}{
		{"Arrow", `->`},
		{"Newline", `\x{a}`},
		{"Keyword", `(?:let|in)`},
		{"Number", `(?:(?:[\x{30}-\x{39}]))(?:(?:(?:[\x{30}-\x{39}]))*)`},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got, ok := rules.Expr(tt.kind)
			if !ok {
				t.Fatalf("Expr(%s) not found", tt.kind)
			}
			if got != tt.want {
				t.Errorf("Expr(%s) = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestCompileRulesErrors(t *testing.T) {
	tests := []struct {
		name    string
		grammar string
		want    error
	}{
		{"recursive", `Paren = "(" [ Paren ] ")" .`, ErrRecursive},
		{"indirect", "Tok = inner .\ninner = \"x\" [ Tok ] .", ErrRecursive},
		{"undefined", `Tok = missing .`, ErrUndefined},
		{"no tokens", `expr = "x" .`, ErrNoTokens},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileRules(parseGrammar(t, tt.grammar))
			if !errors.Is(err, tt.want) {
				t.Errorf("CompileRules() error = %v, want %v", err, tt.want)
			}
		})
	}

	_, err := CompileRules(parseGrammar(t, `Tok = "ab" … "z" .`))
	if err == nil || !strings.Contains(err.Error(), "single character") {
		t.Errorf("CompileRules() error = %v, want range bound error", err)
	}
}

func TestCompileRulesReportsEveryRule(t *testing.T) {
	_, err := CompileRules(parseGrammar(t, "Good = \"x\" .\nLoop = [ Loop ] .\nLost = missing ."))
	if err == nil {
		t.Fatal("CompileRules() succeeded")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("CompileRules() error %T does not hold a list", err)
	}
	var got []string
	for _, e := range joined.Unwrap() {
		var re *RuleError
		if !errors.As(e, &re) {
			t.Fatalf("error %v is not a *RuleError", e)
		}
		got = append(got, re.Pos.String()+" "+re.Name)
	}
	want := []string{"test.ebnf:2:1 Loop", "test.ebnf:3:1 Lost"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rule errors mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(err, ErrRecursive) || !errors.Is(err, ErrUndefined) {
		t.Errorf("CompileRules() error = %v, want ErrRecursive and ErrUndefined", err)
	}
}

func TestTokenize(t *testing.T) {
	l := newTestLexer(t, "foo -> 42\nbar -x")
	tokens, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	want := []string{
		`1:1 Ident "foo"`,
		`1:4 Space " "`,
		`1:5 Arrow "->"`,
		`1:7 Space " "`,
		`1:8 Number "42"`,
		`1:10 Newline "\n"`,
		`2:1 Ident "bar"`,
		`2:4 Space " "`,
		`2:5 Minus "-"`,
		`2:6 Ident "x"`,
		`2:7 EOF ""`,
	}
	if diff := cmp.Diff(want, summary(tokens)); diff != "" {
		t.Errorf("Tokenize() mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeTieBreak(t *testing.T) {
	tokens, err := newTestLexer(t, "let lets in", WithSkipKinds("Space")).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	want := []string{
		`1:1 Ident "let"`,
		`1:5 Ident "lets"`,
		`1:10 Ident "in"`,
		`1:12 EOF ""`,
	}
	if diff := cmp.Diff(want, summary(tokens)); diff != "" {
		t.Errorf("Tokenize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNextTokenErrors(t *testing.T) {
	l := newTestLexer(t, "a$éb")
	var got []string
	for {
		tok, err := l.NextToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("NextToken() error: %v", err)
		}
		got = append(got, tok.String())
	}
	want := []string{
		`1:1 Ident "a"`,
		`1:2 ERROR "$"`,
		`1:3 ERROR "é"`,
		`1:4 Ident "b"`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NextToken() mismatch (-want +got):\n%s", diff)
	}

	tok, err := l.NextToken()
	if err != io.EOF || tok.Kind != KindEOF {
		t.Errorf("NextToken() at end = %v, %v, want EOF", tok, err)
	}
}

func TestColumnsCountGraphemes(t *testing.T) {
	l := newTestLexer(t, "\U0001F1E9\U0001F1EAx\r\ny")
	tokens, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	want := []string{
		"1:1 ERROR \"\U0001F1E9\"",
		"1:2 ERROR \"\U0001F1EA\"",
		`1:2 Ident "x"`,
		`1:3 ERROR "\r"`,
		`1:4 Newline "\n"`,
		`2:1 Ident "y"`,
		`2:2 EOF ""`,
	}
	if diff := cmp.Diff(want, summary(tokens)); diff != "" {
		t.Errorf("Tokenize() mismatch (-want +got):\n%s", diff)
	}
}

func TestLexEncodedInput(t *testing.T) {
	input, err := strscan.Encode("ab あ1", strscan.EUCJP)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	rules, err := CompileRules(parseGrammar(t, testGrammar))
	if err != nil {
		t.Fatalf("CompileRules() error: %v", err)
	}
	l, err := NewLexer(rules, input, "euc.txt", WithEncoding(strscan.EUCJP))
	if err != nil {
		t.Fatalf("NewLexer() error: %v", err)
	}
	tokens, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	want := []string{
		`euc.txt:1:1 Ident "ab"`,
		`euc.txt:1:3 Space " "`,
		`euc.txt:1:4 ERROR "あ"`,
		`euc.txt:1:5 Number "1"`,
		`euc.txt:1:6 EOF ""`,
	}
	if diff := cmp.Diff(want, summary(tokens)); diff != "" {
		t.Errorf("Tokenize() mismatch (-want +got):\n%s", diff)
	}
	if tokens[3].Position.Offset != 5 {
		t.Errorf("Number offset = %d, want 5", tokens[3].Position.Offset)
	}

	if _, err := NewLexer(rules, nil, "", WithEncoding(strscan.UTF16LE)); !errors.Is(err, strscan.ErrIncompatibleEncoding) {
		t.Errorf("NewLexer(UTF-16) error = %v, want ErrIncompatibleEncoding", err)
	}
}

func TestLoadGrammar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.ebnf")
	if err := os.WriteFile(path, []byte(testGrammar), 0o644); err != nil {
		t.Fatal(err)
	}
	grammar, err := LoadGrammar(path)
	if err != nil {
		t.Fatalf("LoadGrammar() error: %v", err)
	}
	if _, ok := grammar["Ident"]; !ok {
		t.Error("LoadGrammar() lost the Ident production")
	}

	if _, err := LoadGrammar(filepath.Join(t.TempDir(), "missing.ebnf")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadGrammar(missing) error = %v, want os.ErrNotExist", err)
	}
}
