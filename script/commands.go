package script

import (
	"errors"
	"fmt"

	"github.com/dhamidi/strscan/strscan"
)

type param uint8

const (
	pPattern param = iota // regexp or string literal
	pInt
	pString
	pKey // integer index or :name
	pBool
)

func (p param) String() string {
	switch p {
	case pPattern:
		return "pattern"
	case pInt:
		return "integer"
	case pString:
		return "string"
	case pKey:
		return "index or :name"
	}
	return "boolean"
}

func (p param) accepts(kind ArgKind) bool {
	switch p {
	case pPattern:
		return kind == ArgRegexp || kind == ArgString
	case pInt:
		return kind == ArgInt
	case pString:
		return kind == ArgString
	case pKey:
		return kind == ArgInt || kind == ArgName
	}
	return kind == ArgBool
}

type definition struct {
	params   []param
	optional int  // trailing params that may be left out
	variadic bool // the last param repeats
	run      func(sc *strscan.Scanner, args []Arg) (any, error)
}

var errArity = errors.New("wrong number of arguments")

func (d *definition) check(args []Arg) error {
	lo, hi := len(d.params)-d.optional, len(d.params)
	if d.variadic {
		hi = -1
	}
	if len(args) < lo || (hi >= 0 && len(args) > hi) {
		return fmt.Errorf("%w (given %d, expected %s)", errArity, len(args), d.arity())
	}
	for i, arg := range args {
		p := d.params[min(i, len(d.params)-1)]
		if !p.accepts(arg.Kind) {
			return fmt.Errorf("argument %d: expected %s", i+1, p)
		}
	}
	return nil
}

func (d *definition) arity() string {
	lo, hi := len(d.params)-d.optional, len(d.params)
	switch {
	case d.variadic:
		return fmt.Sprintf("%d+", lo)
	case lo == hi:
		return fmt.Sprint(lo)
	}
	return fmt.Sprintf("%d..%d", lo, hi)
}

func (a Arg) pattern() strscan.Pattern {
	if a.Kind == ArgRegexp {
		return a.Regexp
	}
	return strscan.Lit(a.Text)
}

func (a Arg) key() strscan.Key {
	if a.Kind == ArgName {
		return strscan.Name(a.Text)
	}
	return strscan.Index(a.Int)
}

// orNil turns a failed attempt into a nil result.
func orNil[T any](v T, ok bool, err error) (any, error) {
	if err != nil || !ok {
		return nil, err
	}
	return v, nil
}

// self is the result of commands that return the scanner itself.
func self(sc *strscan.Scanner, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func attempt(f func(*strscan.Scanner, strscan.Pattern) (string, bool, error)) *definition {
	return &definition{
		params: []param{pPattern},
		run: func(sc *strscan.Scanner, args []Arg) (any, error) {
			v, ok, err := f(sc, args[0].pattern())
			return orNil(v, ok, err)
		},
	}
}

func measure(f func(*strscan.Scanner, strscan.Pattern) (int, bool, error)) *definition {
	return &definition{
		params: []param{pPattern},
		run: func(sc *strscan.Scanner, args []Arg) (any, error) {
			n, ok, err := f(sc, args[0].pattern())
			return orNil(n, ok, err)
		},
	}
}

func full(f func(*strscan.Scanner, strscan.Pattern, bool) (string, bool, error)) *definition {
	return &definition{
		params: []param{pPattern, pBool},
		run: func(sc *strscan.Scanner, args []Arg) (any, error) {
			v, ok, err := f(sc, args[0].pattern(), args[1].Bool)
			return orNil(v, ok, err)
		},
	}
}

func query[T any](f func(*strscan.Scanner) (T, error)) *definition {
	return &definition{
		run: func(sc *strscan.Scanner, _ []Arg) (any, error) {
			v, err := f(sc)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

func maybe[T any](f func(*strscan.Scanner) (T, bool, error)) *definition {
	return &definition{
		run: func(sc *strscan.Scanner, _ []Arg) (any, error) {
			v, ok, err := f(sc)
			return orNil(v, ok, err)
		},
	}
}

func mutate(f func(*strscan.Scanner) error) *definition {
	return &definition{
		run: func(sc *strscan.Scanner, _ []Arg) (any, error) {
			return self(sc, f(sc))
		},
	}
}

var commands = map[string]*definition{
	"scan":        attempt((*strscan.Scanner).Scan),
	"check":       attempt((*strscan.Scanner).Check),
	"scan_until":  attempt((*strscan.Scanner).ScanUntil),
	"check_until": attempt((*strscan.Scanner).CheckUntil),
	"skip":        measure((*strscan.Scanner).Skip),
	"match?":      measure((*strscan.Scanner).Match),
	"skip_until":  measure((*strscan.Scanner).SkipUntil),
	"exist?":      measure((*strscan.Scanner).Exist),
	"scan_full":   full((*strscan.Scanner).ScanFull),
	"search_full": full((*strscan.Scanner).SearchFull),

	"getch":     maybe((*strscan.Scanner).Getch),
	"get_byte":  maybe((*strscan.Scanner).GetByte),
	"scan_byte": maybe((*strscan.Scanner).ScanByte),
	"peek_byte": maybe((*strscan.Scanner).PeekByte),
	"peek": {
		params: []param{pInt},
		run: func(sc *strscan.Scanner, args []Arg) (any, error) {
			return sc.Peek(args[0].Int)
		},
	},
	"scan_integer": {
		params:   []param{pInt},
		optional: 1,
		run: func(sc *strscan.Scanner, args []Arg) (any, error) {
			base := 10
			if len(args) > 0 {
				base = args[0].Int
			}
			v, ok, err := sc.ScanInteger(base)
			return orNil(v, ok, err)
		},
	},

	"pos":     query((*strscan.Scanner).Pos),
	"charpos": query((*strscan.Scanner).Charpos),
	"pos=": {
		params: []param{pInt},
		run: func(sc *strscan.Scanner, args []Arg) (any, error) {
			if err := sc.SetPos(args[0].Int); err != nil {
				return nil, err
			}
			return sc.Pos()
		},
	},
	"eos?":           query((*strscan.Scanner).EOS),
	"bol?":           query((*strscan.Scanner).BOL),
	"rest":           query((*strscan.Scanner).Rest),
	"rest_size":      query((*strscan.Scanner).RestSize),
	"string":         query((*strscan.Scanner).Text),
	"matched?":       query((*strscan.Scanner).IsMatched),
	"size":           query(size),
	"captures":       query((*strscan.Scanner).Captures),
	"named_captures": query((*strscan.Scanner).NamedCaptures),
	"fixed_anchor?": query(func(sc *strscan.Scanner) (bool, error) {
		return sc.FixedAnchor(), nil
	}),
	"inspect": query(func(sc *strscan.Scanner) (*strscan.Scanner, error) {
		return sc, nil
	}),

	"matched":      maybe((*strscan.Scanner).Matched),
	"matched_size": maybe((*strscan.Scanner).MatchedSize),
	"pre_match":    maybe((*strscan.Scanner).PreMatch),
	"post_match":   maybe((*strscan.Scanner).PostMatch),
	"[]": {
		params: []param{pKey},
		run: func(sc *strscan.Scanner, args []Arg) (any, error) {
			return sc.Group(args[0].key())
		},
	},
	"values_at": {
		params:   []param{pKey},
		optional: 1,
		variadic: true,
		run: func(sc *strscan.Scanner, args []Arg) (any, error) {
			keys := make([]strscan.Key, len(args))
			for i, arg := range args {
				keys[i] = arg.key()
			}
			caps, err := sc.ValuesAt(keys...)
			if err != nil || caps == nil {
				return nil, err
			}
			return caps, nil
		},
	},

	"unscan":    mutate((*strscan.Scanner).Unscan),
	"terminate": mutate((*strscan.Scanner).Terminate),
	"reset":     mutate((*strscan.Scanner).Reset),
	"concat": {
		params: []param{pString},
		run: func(sc *strscan.Scanner, args []Arg) (any, error) {
			return self(sc, sc.Concat(args[0].Text))
		},
	},
	"string=": {
		params: []param{pString},
		run: func(sc *strscan.Scanner, args []Arg) (any, error) {
			sc.SetString(args[0].Text)
			return args[0].Text, nil
		},
	},
}

func init() {
	aliases := map[string]string{
		"pointer":            "pos",
		"pointer=":           "pos=",
		"beginning_of_line?": "bol?",
		"eos":                "eos?",
		"bol":                "bol?",
		"exist":              "exist?",
		"clear":              "terminate",
	}
	for alias, name := range aliases {
		commands[alias] = commands[name]
	}
}

// size is nil rather than 0 when nothing is matched.
func size(sc *strscan.Scanner) (any, error) {
	ok, err := sc.IsMatched()
	if err != nil || !ok {
		return nil, err
	}
	return sc.Size()
}
