package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"

	funcplotter "github.com/Zaituny/FuncPlotter"
	"github.com/Zaituny/FuncPlotter/internal/config"
	"github.com/Zaituny/FuncPlotter/internal/logger"
	"github.com/Zaituny/FuncPlotter/internal/render"
)

func plotCmd(a *app) *cobra.Command {
	var start, end float64
	var format string
	var pngPath string
	var points bool

	c := &cobra.Command{
		Use:   "plot EXPR",
		Short: "Sample an expression over a range and print or draw it",
		Long: "Sample an expression over [start, end].\n\n" +
			"One variable: 2051 points of y = f(x).\n" +
			"Two variables: the expression is read as f(x, y) = 0 and solved for the\n" +
			"alphabetically second variable at 101 values of the first.\n" +
			"No variables: a horizontal line.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := a.cfg.Range
			if cmd.Flags().Changed("start") {
				r.Start = start
			}
			if cmd.Flags().Changed("end") {
				r.End = end
			}
			if cmd.Flags().Changed("format") {
				a.cfg.Format = format
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}

			p := funcplotter.New(funcplotter.WithLogger(logger.L()))
			resp := p.Plot(funcplotter.Request{Text: args[0], Range: r})

			th := DefaultTheme()
			for _, d := range resp.Diagnostics {
				fmt.Fprintln(cmd.ErrOrStderr(), th.Dialog(d))
			}

			out := cmd.OutOrStdout()
			switch a.cfg.Format {
			case config.FormatJSON:
				enc := json.NewEncoder(out)
				if err := enc.Encode(resp); err != nil {
					return fmt.Errorf("plot: encode: %w", err)
				}
			default:
				printSummary(out, th, resp, points)
			}

			if !resp.Drawable() {
				return errRejected
			}
			if pngPath != "" {
				if err := writePNG(pngPath, resp, a.cfg.Chart); err != nil {
					return err
				}
				logger.L().Info("render.png", "path", pngPath)
			}
			return nil
		},
	}

	c.Flags().Float64Var(&start, "start", 0, "start of range (default from config, -10)")
	c.Flags().Float64Var(&end, "end", 0, "end of range (default from config, 10)")
	c.Flags().StringVar(&format, "format", config.FormatPretty, "output format: pretty|json")
	c.Flags().StringVar(&pngPath, "png", "", "also draw the plot to this PNG file")
	c.Flags().BoolVar(&points, "points", false, "print every sample point in pretty mode")
	return c
}

func printSummary(w io.Writer, th Theme, resp funcplotter.Response, points bool) {
	if !resp.Drawable() {
		fmt.Fprintln(w, th.Faint.Render(fmt.Sprintf("nothing to plot (valid=%t, range_valid=%t)", resp.Valid, resp.RangeValid)))
		return
	}
	fmt.Fprintln(w, th.Title.Render(resp.Expr.String()))
	fmt.Fprintf(w, "variables: %s\n", resp.Vars)
	fmt.Fprintf(w, "axes:      %s (horizontal), %s (vertical)\n", resp.Axes.XLabel, resp.Axes.YLabel)
	if resp.Axes.Clamped {
		lo, hi := resp.Axes.Bounds()
		fmt.Fprintf(w, "viewport:  [%g, %g] × [%g, %g]\n", lo, hi, lo, hi)
	} else {
		fmt.Fprintln(w, "viewport:  auto")
	}
	gaps := 0
	for _, y := range resp.Y {
		if math.IsNaN(y) {
			gaps++
		}
	}
	fmt.Fprintf(w, "points:    %d (%d undefined)\n", len(resp.X), gaps)
	if points {
		for i := range resp.X {
			fmt.Fprintf(w, "%g\t%g\n", resp.X[i], resp.Y[i])
		}
	}
}

func writePNG(path string, resp funcplotter.Response, size config.Chart) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("plot: %w", cerr)
		}
	}()
	if err := render.PNG(f, resp, render.Options{Width: size.Width, Height: size.Height}); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	return nil
}
