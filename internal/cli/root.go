// Package cli wires the funcplotter pipeline to a cobra command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zaituny/FuncPlotter/internal/config"
	"github.com/Zaituny/FuncPlotter/internal/logger"
)

// errRejected marks a request whose diagnostics were already printed.
var errRejected = errors.New("input rejected")

// Execute runs the CLI on os.Args and exits 1 on failure.
func Execute() {
	if err := Run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// Run executes the command tree with args and the given output streams.
func Run(args []string, stdout, stderr io.Writer) error {
	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	// PersistentPostRun is skipped when RunE fails, so the log is closed here.
	if a.cleanup != nil {
		if cerr := a.cleanup(); err == nil {
			err = cerr
		}
	}
	if err != nil && !errors.Is(err, errRejected) {
		fmt.Fprintln(stderr, DefaultTheme().Error.Render("Error: "+err.Error()))
	}
	return err
}

type app struct {
	configPath string
	debug      bool
	cfg        config.Config
	cleanup    func() error
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "funcplotter",
		Short:         "Validate and sample expressions for 2D plotting",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.debug {
				cfg.Log.Debug = true
			}
			a.cfg = cfg

			// Logging is best effort: a read-only directory must not block plotting.
			cleanup, lerr := logger.Setup(logger.Config{Dir: cfg.Log.Dir, Debug: cfg.Log.Debug})
			if lerr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), DefaultTheme().Faint.Render("logging disabled: "+lerr.Error()))
			}
			a.cleanup = cleanup
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./"+config.FileName+" if present)")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging to the log directory")

	cmd.AddCommand(plotCmd(a), validateCmd(a), syntaxCmd())
	return cmd
}
