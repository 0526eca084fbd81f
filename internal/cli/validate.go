package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	funcplotter "github.com/Zaituny/FuncPlotter"
	"github.com/Zaituny/FuncPlotter/internal/logger"
)

func validateCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate EXPR",
		Short: "Check an expression without sampling it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var diags funcplotter.Diagnostics
			v := funcplotter.Validate(args[0], &diags)
			log := logger.L()

			th := DefaultTheme()
			for _, d := range diags {
				fmt.Fprintln(cmd.ErrOrStderr(), th.Dialog(d))
			}
			if !v.Valid {
				log.Info("validate.reject", "text", args[0], "diagnostics", len(diags))
				return errRejected
			}
			vars := funcplotter.Variables(v.Expr)
			log.Info("validate.ok", "text", args[0], "vars", len(vars))
			fmt.Fprintf(cmd.OutOrStdout(), "OK %s %s\n", v.Expr.String(), vars)
			return nil
		},
	}
}
