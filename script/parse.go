// Package script runs small line-oriented programs against a scanner, one
// scanner operation per line:
//
//	scan /\w+/      # regular expression
//	skip " "        # literal
//	[1]             # capture access
//	pos = 0
//
// Every command's result is printed next to it, which makes scripts handy
// for exploring how patterns behave.
package script

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/strscan/strscan"
)

// ArgKind tells what an argument was written as.
type ArgKind uint8

const (
	ArgRegexp ArgKind = iota
	ArgString
	ArgInt
	ArgName
	ArgBool
)

// Arg is one argument of a command.
type Arg struct {
	Kind   ArgKind
	Text   string // source text, or the unquoted string for ArgString
	Int    int
	Bool   bool
	Regexp *strscan.Regexp
}

// Command is one parsed line.
type Command struct {
	Line   int
	Name   string
	Args   []Arg
	Source string

	def *definition
}

// Script is a parsed script, one command per non-blank line.
type Script struct {
	Commands []Command
}

// SyntaxError reports a line that could not be parsed.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Msg)
}

var (
	reBlank   = strscan.MustCompile(`[ \t]+`)
	reComment = strscan.MustCompile(`#[^\n]*`)
	reNewline = strscan.MustCompile(`\r?\n`)
	reLineEnd = strscan.MustCompile(`#|\r?\n`)
	reIdent   = strscan.MustCompile(`[a-z_]+[?!]?`)
	reAssign  = strscan.MustCompile(`=`)
	reOpen    = strscan.MustCompile(`\[[ \t]*`)
	reClose   = strscan.MustCompile(`[ \t]*\]`)
	reRegexp  = strscan.MustCompile(`/((?:[^/\\\n]|\\.)*)/([im]*)`)
	reString  = strscan.MustCompile(`"(?:[^"\\\n]|\\.)*"`)
	reSymbol  = strscan.MustCompile(`:(\w+)`)
	reBool    = strscan.MustCompile(`(?:true|false)\b`)
	reLine    = strscan.MustCompile(`[^\n]*`)
)

type parser struct {
	src       string
	sc        *strscan.Scanner
	line      int
	lineStart int
}

// Parse reads a script. Unknown commands and wrong arguments are reported
// here rather than when the script runs.
func Parse(r io.Reader) (*Script, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	p := &parser{src: string(src), sc: strscan.New(string(src)), line: 1}

	s := &Script{}
	for !p.eos() {
		cmd, ok, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		if ok {
			s.Commands = append(s.Commands, cmd)
		}
	}
	return s, nil
}

func (p *parser) eos() bool {
	eos, _ := p.sc.EOS()
	return eos
}

func (p *parser) pos() int {
	pos, _ := p.sc.Pos()
	return pos
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{
		Line:   p.line,
		Column: p.pos() - p.lineStart + 1,
		Msg:    fmt.Sprintf(format, args...),
	}
}

func (p *parser) skipBlank() {
	p.sc.Skip(reBlank)
}

func (p *parser) atLineEnd() bool {
	if p.eos() {
		return true
	}
	_, ok, _ := p.sc.Match(reLineEnd)
	return ok
}

func (p *parser) parseLine() (Command, bool, error) {
	p.skipBlank()
	var cmd Command
	ok := false
	if !p.atLineEnd() {
		start := p.pos()
		var err error
		if cmd, err = p.parseCommand(); err != nil {
			return Command{}, false, err
		}
		cmd.Line = p.line
		cmd.Source = strings.TrimSpace(p.src[start:p.pos()])
		ok = true
		p.skipBlank()
	}
	if !p.atLineEnd() {
		rest, _, _ := p.sc.Check(reLine)
		return Command{}, false, p.errorf("unexpected %q", rest)
	}
	p.sc.Skip(reComment)
	if _, nl, _ := p.sc.Skip(reNewline); nl {
		p.line++
		p.lineStart = p.pos()
	}
	return cmd, ok, nil
}

func (p *parser) parseCommand() (Command, error) {
	if _, ok, _ := p.sc.Skip(reOpen); ok {
		arg, err := p.parseArg()
		if err != nil {
			return Command{}, err
		}
		if _, ok, _ := p.sc.Skip(reClose); !ok {
			return Command{}, p.errorf("expected ]")
		}
		return p.bind(Command{Name: "[]", Args: []Arg{arg}})
	}

	name, ok, _ := p.sc.Scan(reIdent)
	if !ok {
		return Command{}, p.errorf("expected a command")
	}
	cmd := Command{Name: name}
	p.skipBlank()
	if _, ok, _ := p.sc.Skip(reAssign); ok {
		cmd.Name += "="
		p.skipBlank()
	}
	for !p.atLineEnd() {
		arg, err := p.parseArg()
		if err != nil {
			return Command{}, err
		}
		cmd.Args = append(cmd.Args, arg)
		p.skipBlank()
	}
	return p.bind(cmd)
}

func (p *parser) parseArg() (Arg, error) {
	if text, ok, _ := p.sc.Scan(reRegexp); ok {
		body, _ := p.sc.Group(strscan.Index(1))
		flags, _ := p.sc.Group(strscan.Index(2))
		expr := body.Text
		if flags.Text != "" {
			expr = "(?" + strings.ReplaceAll(flags.Text, "m", "s") + ")" + expr
		}
		re, err := strscan.Compile(expr)
		if err != nil {
			return Arg{}, p.errorf("%v", err)
		}
		return Arg{Kind: ArgRegexp, Text: text, Regexp: re}, nil
	}

	if text, ok, _ := p.sc.Scan(reString); ok {
		s, err := strconv.Unquote(text)
		if err != nil {
			return Arg{}, p.errorf("bad string %s", text)
		}
		return Arg{Kind: ArgString, Text: s}, nil
	}

	if _, ok, _ := p.sc.Scan(reSymbol); ok {
		name, _ := p.sc.Group(strscan.Index(1))
		return Arg{Kind: ArgName, Text: name.Text}, nil
	}

	n, ok, err := p.sc.ScanInt(10)
	if err != nil {
		return Arg{}, p.errorf("%v", err)
	}
	if ok {
		text, _, _ := p.sc.Matched()
		return Arg{Kind: ArgInt, Text: text, Int: int(n)}, nil
	}

	if text, ok, _ := p.sc.Scan(reBool); ok {
		return Arg{Kind: ArgBool, Text: text, Bool: text == "true"}, nil
	}

	rest, _, _ := p.sc.Check(reLine)
	return Arg{}, p.errorf("expected an argument, found %q", rest)
}

// bind looks up the command and checks its arguments.
func (p *parser) bind(cmd Command) (Command, error) {
	def, ok := commands[cmd.Name]
	if !ok {
		return Command{}, p.errorf("unknown command %s", cmd.Name)
	}
	if err := def.check(cmd.Args); err != nil {
		return Command{}, p.errorf("%s: %v", cmd.Name, err)
	}
	cmd.def = def
	return cmd, nil
}
