package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/strscan/script"
	"github.com/dhamidi/strscan/strscan"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		text        string
		encoding    string
		fixedAnchor bool
		stopOnError bool
	)

	cmd := &cobra.Command{
		Use:   "run <script> [input]",
		Short: "Run a scanner script over input text",
		Long: `Run executes a script, one scanner operation per line, against the
contents of the input file (or --text, or standard input when the input
is "-") and prints each command's result.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			defer f.Close()

			s, err := script.Parse(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			input := []byte(text)
			if len(args) == 2 {
				if input, err = readInput(cmd, args[1]); err != nil {
					return err
				}
			}

			opts, err := a.cfg.ScannerOptions()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("encoding") {
				enc, err := strscan.LookupEncoding(encoding)
				if err != nil {
					return err
				}
				opts = append(opts, strscan.WithEncoding(enc))
			}
			if fixedAnchor {
				opts = append(opts, strscan.WithFixedAnchor())
			}
			sc := strscan.NewBytes(input, strscan.UTF8, opts...)

			var runOpts []script.RunOption
			if stopOnError || a.cfg.Run.StopOnError {
				runOpts = append(runOpts, script.WithStopOnError())
			}
			log.Infof("running %s: %d commands over %d bytes", args[0], len(s.Commands), len(input))
			return s.Run(cmd.Context(), sc, cmd.OutOrStdout(), runOpts...)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "input text when no input file is given")
	cmd.Flags().StringVarP(&encoding, "encoding", "e", "UTF-8", "encoding of the input")
	cmd.Flags().BoolVar(&fixedAnchor, "fixed-anchor", false, "anchor \\A and ^ to the start of the input instead of the cursor")
	cmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "stop at the first failing command")

	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}
