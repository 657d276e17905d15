package main

import (
	"fmt"

	"github.com/dhamidi/strscan/ebnflex"
	"github.com/dhamidi/strscan/strscan"
	"github.com/spf13/cobra"
)

func newLexCmd(a *app) *cobra.Command {
	var (
		skip     []string
		encoding string
	)

	cmd := &cobra.Command{
		Use:   "lex <grammar> <input>",
		Short: "Tokenize input with the token productions of an EBNF grammar",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := ebnflex.LoadGrammar(args[0])
			if err != nil {
				return err
			}
			rules, err := ebnflex.CompileRules(grammar)
			if err != nil {
				return err
			}

			input, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}

			enc, err := a.cfg.ScannerEncoding()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("encoding") {
				if enc, err = strscan.LookupEncoding(encoding); err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("skip") {
				skip = a.cfg.Lex.Skip
			}

			filename := args[1]
			if filename == "-" {
				filename = "<stdin>"
			}
			lexer, err := ebnflex.NewLexer(rules, input, filename,
				ebnflex.WithEncoding(enc),
				ebnflex.WithSkipKinds(skip...),
			)
			if err != nil {
				return err
			}

			tokens, err := lexer.Tokenize()
			if err != nil {
				return err
			}
			errors := 0
			for _, tok := range tokens {
				if tok.Kind == ebnflex.KindError {
					errors++
				}
				fmt.Fprintln(cmd.OutOrStdout(), tok)
			}
			if errors > 0 {
				return fmt.Errorf("%d unrecognized characters", errors)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&skip, "skip", nil, "token kinds to leave out of the output")
	cmd.Flags().StringVarP(&encoding, "encoding", "e", "UTF-8", "encoding of the input")

	return cmd
}
