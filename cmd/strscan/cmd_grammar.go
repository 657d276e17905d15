package main

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/dhamidi/strscan/ebnflex"
	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "grammar",
		Short:         "EBNF grammar tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarTokensCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse a grammar, verify it, and compile its token productions",
		Long: `Check reports every problem in the grammar file on its own line as
"file:line:col: message": syntax errors first, then (with --start) unused
or undefined productions, then token productions that cannot be compiled
to a regular expression.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			w := cmd.OutOrStdout()

			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open grammar: %w", err)
			}
			defer f.Close()

			grammar, err := ebnf.Parse(filename, f)
			if err != nil {
				return report(w, filename, problems(err))
			}

			var found []error
			if startProduction != "" {
				if err := ebnf.Verify(grammar, startProduction); err != nil {
					found = append(found, problems(err)...)
				}
			}
			rules, err := ebnflex.CompileRules(grammar)
			if err != nil {
				found = append(found, problems(err)...)
			}
			if len(found) > 0 {
				return report(w, filename, found)
			}

			kinds := rules.Kinds()
			fmt.Fprintf(w, "%s: %d token productions: %s\n", filename, len(kinds), strings.Join(kinds, ", "))
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax and tokens)")

	return cmd
}

func newGrammarTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the regular expression compiled for each token production",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := ebnflex.LoadGrammar(args[0])
			if err != nil {
				return err
			}
			rules, err := ebnflex.CompileRules(grammar)
			if err != nil {
				return err
			}
			for _, kind := range rules.Kinds() {
				expr, _ := rules.Expr(kind)
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", kind, expr)
			}
			return nil
		},
	}
}

// problems flattens an error from the ebnf package or from CompileRules into
// one error per problem.
func problems(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, problems(e)...)
		}
		return out
	}
	// ebnf returns its error list as an unexported []error type.
	if v := reflect.ValueOf(err); v.Kind() == reflect.Slice {
		out := make([]error, 0, v.Len())
		for i := range v.Len() {
			if e, ok := v.Index(i).Interface().(error); ok {
				out = append(out, e)
			}
		}
		return out
	}
	return []error{err}
}

func report(w io.Writer, filename string, errs []error) error {
	for _, err := range errs {
		fmt.Fprintln(w, err)
	}
	return fmt.Errorf("%s: %d problems", filename, len(errs))
}
