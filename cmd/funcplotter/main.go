// cmd/funcplotter/main.go — command-line front end for funcplotter
//
// Usage:
//   funcplotter plot "x^2 - 1"
//   funcplotter plot --start -2 --end 2 --png out.png "sqrt(x)"
//   funcplotter plot --format json "y - x^3"
//   funcplotter validate "x + y + z"
//   funcplotter syntax
package main

import "github.com/Zaituny/FuncPlotter/internal/cli"

func main() {
	cli.Execute()
}
