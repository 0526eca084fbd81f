package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	funcplotter "github.com/Zaituny/FuncPlotter"
)

func syntaxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "syntax",
		Short: "Show the accepted expression syntax with examples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), DefaultTheme().Dialog(funcplotter.Help()))
			return nil
		},
	}
}
