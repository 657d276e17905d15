package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dhamidi/strscan/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var version = "0.1.0"

var log = commonlog.GetLogger("strscan")

// app carries what the persistent flags and the config file decide.
type app struct {
	configPath string
	verbose    int
	cfg        *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "strscan",
		Short:         "Scan, explore, and tokenize text with a cursor scanner",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "log more (repeat for debug output)")

	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newLexCmd(a))
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	verbosity := cfg.Verbosity
	if cmd.Flags().Changed("verbose") {
		verbosity = a.verbose
	}
	commonlog.Configure(verbosity, cfg.LogPath())
	log.Debugf("config loaded: fixed_anchor=%t encoding=%s", cfg.FixedAnchor, cfg.Encoding)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "strscan %s\n", version)
			return nil
		},
	}
}
