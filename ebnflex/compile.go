package ebnflex

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"text/scanner"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/strscan/strscan"
	"golang.org/x/exp/ebnf"
)

var (
	ErrRecursive = errors.New("ebnflex: recursive token production")
	ErrUndefined = errors.New("ebnflex: undefined production")
	ErrNoTokens  = errors.New("ebnflex: grammar has no token productions")
)

// RuleError reports a token production that could not be compiled.
type RuleError struct {
	Name string
	Pos  scanner.Position
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: token %s: %v", e.Pos, e.Name, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }

type rule struct {
	kind string
	expr string
	re   *strscan.Regexp
}

// Rules holds the token productions of a grammar compiled to regular
// expressions, ordered by name.
type Rules struct {
	rules []rule
}

// IsToken reports whether a production name denotes a token: its first
// letter is uppercase.
func IsToken(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

// CompileRules compiles every token production of grammar. Productions they
// reference are inlined, so a token production may not refer to itself.
// Every production that fails is reported as a *RuleError; the errors are
// joined in name order.
func CompileRules(grammar ebnf.Grammar) (*Rules, error) {
	var names []string
	for name, prod := range grammar {
		if IsToken(name) && prod.Expr != nil {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, ErrNoTokens
	}
	sort.Strings(names)

	r := &Rules{rules: make([]rule, 0, len(names))}
	var errs []error
	for _, name := range names {
		prod := grammar[name]
		c := compiler{grammar: grammar, visiting: map[string]bool{name: true}}
		var b strings.Builder
		err := c.expr(&b, prod.Expr)
		var re *strscan.Regexp
		if err == nil {
			re, err = strscan.CompileLongest(b.String())
		}
		if err != nil {
			errs = append(errs, &RuleError{Name: name, Pos: prod.Pos(), Err: err})
			continue
		}
		r.rules = append(r.rules, rule{kind: name, expr: b.String(), re: re})
		log.Debugf("token %s = %s", name, re)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return r, nil
}

// Kinds returns the token kinds in the order they are tried.
func (r *Rules) Kinds() []string {
	kinds := make([]string, len(r.rules))
	for i, rule := range r.rules {
		kinds[i] = rule.kind
	}
	return kinds
}

// Expr returns the regular expression compiled for kind.
func (r *Rules) Expr(kind string) (string, bool) {
	for _, rule := range r.rules {
		if rule.kind == kind {
			return rule.expr, true
		}
	}
	return "", false
}

type compiler struct {
	grammar  ebnf.Grammar
	visiting map[string]bool
}

func (c *compiler) expr(b *strings.Builder, expr ebnf.Expression) error {
	switch e := expr.(type) {
	case nil:
		return nil

	case *ebnf.Token:
		for _, r := range e.String {
			if unicode.IsPrint(r) {
				b.WriteString(regexp.QuoteMeta(string(r)))
				continue
			}
			fmt.Fprintf(b, `\x{%x}`, r)
		}

	case *ebnf.Range:
		lo, err := rangeBound(e.Begin)
		if err != nil {
			return err
		}
		hi, err := rangeBound(e.End)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, `[\x{%x}-\x{%x}]`, lo, hi)

	case ebnf.Sequence:
		for _, item := range e {
			b.WriteString("(?:")
			if err := c.expr(b, item); err != nil {
				return err
			}
			b.WriteString(")")
		}

	case ebnf.Alternative:
		b.WriteString("(?:")
		for i, alt := range e {
			if i > 0 {
				b.WriteString("|")
			}
			if err := c.expr(b, alt); err != nil {
				return err
			}
		}
		b.WriteString(")")

	case *ebnf.Repetition:
		return c.wrap(b, e.Body, ")*")

	case *ebnf.Option:
		return c.wrap(b, e.Body, ")?")

	case *ebnf.Group:
		return c.wrap(b, e.Body, ")")

	case *ebnf.Name:
		if c.visiting[e.String] {
			return fmt.Errorf("%w: %s", ErrRecursive, e.String)
		}
		prod, ok := c.grammar[e.String]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUndefined, e.String)
		}
		c.visiting[e.String] = true
		defer delete(c.visiting, e.String)
		return c.wrap(b, prod.Expr, ")")

	case *ebnf.Bad:
		return fmt.Errorf("%s: %s", e.Pos(), e.Error)

	default:
		return fmt.Errorf("unsupported expression %T", expr)
	}
	return nil
}

func (c *compiler) wrap(b *strings.Builder, body ebnf.Expression, closing string) error {
	b.WriteString("(?:")
	if err := c.expr(b, body); err != nil {
		return err
	}
	b.WriteString(closing)
	return nil
}

func rangeBound(tok *ebnf.Token) (rune, error) {
	r, n := utf8.DecodeRuneInString(tok.String)
	if n == 0 || n != len(tok.String) {
		return 0, fmt.Errorf("range bound %q is not a single character", tok.String)
	}
	return r, nil
}
