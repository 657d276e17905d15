package script

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/dhamidi/strscan/strscan"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("strscan.script")

// RunOption configures Run.
type RunOption func(*runner)

// WithStopOnError makes Run return at the first command that fails instead
// of reporting the error and going on.
func WithStopOnError() RunOption {
	return func(r *runner) {
		r.stopOnError = true
	}
}

type runner struct {
	stopOnError bool
}

// CommandError is returned by Run under WithStopOnError.
type CommandError struct {
	Line    int
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Run executes the script against sc and writes one line per command to w:
// "line: command => result", or "line: command !! error" when the command
// fails. The context is checked before each command.
func (s *Script) Run(ctx context.Context, sc *strscan.Scanner, w io.Writer, opts ...RunOption) error {
	var r runner
	for _, opt := range opts {
		opt(&r)
	}

	for _, cmd := range s.Commands {
		if err := ctx.Err(); err != nil {
			return err
		}

		v, err := cmd.Exec(sc)
		if err != nil {
			log.Debugf("line %d: %s: %s", cmd.Line, cmd.Source, err)
			if _, werr := fmt.Fprintf(w, "%d: %s !! %v\n", cmd.Line, cmd.Source, err); werr != nil {
				return werr
			}
			if r.stopOnError {
				return &CommandError{Line: cmd.Line, Command: cmd.Source, Err: err}
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%d: %s => %s\n", cmd.Line, cmd.Source, Inspect(v)); err != nil {
			return err
		}
	}
	return nil
}

// Exec runs a single command and returns its result.
func (c Command) Exec(sc *strscan.Scanner) (any, error) {
	if c.def == nil {
		def, ok := commands[c.Name]
		if !ok {
			return nil, fmt.Errorf("unknown command %s", c.Name)
		}
		if err := def.check(c.Args); err != nil {
			return nil, err
		}
		c.def = def
	}
	return c.def.run(sc, c.Args)
}

// Inspect formats a command result: strings quoted, nil for no result.
func Inspect(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case byte:
		return strconv.Itoa(int(v))
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case *big.Int:
		return v.String()
	case strscan.Capture:
		if !v.Matched {
			return "nil"
		}
		return strconv.Quote(v.Text)
	case []strscan.Capture:
		if v == nil {
			return "nil"
		}
		parts := make([]string, len(v))
		for i, c := range v {
			parts[i] = Inspect(c)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]strscan.Capture:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = strconv.Quote(name) + "=>" + Inspect(v[name])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}
