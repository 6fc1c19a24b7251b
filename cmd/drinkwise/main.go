// Package main is the single-binary entrypoint for DrinkWise.
package main

import "github.com/drinkwise/drinkwise/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
