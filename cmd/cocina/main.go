// Package main is the single-binary entrypoint for cocina, the
// gamification engine behind the recipe and meal-planning app.
package main

import "github.com/takato23/cocina/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
