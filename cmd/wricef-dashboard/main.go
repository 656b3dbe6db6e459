package main

import (
	"log/slog"
	"os"

	"wricefviz/internal/app"
)

// Set at build time via -ldflags.
var (
	version   = "dev"
	buildTime = ""
)

func main() {
	a, err := app.NewApplication(version, buildTime)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := a.Run(); err != nil {
		a.Logger.Error("Application failed", "error", err)
		os.Exit(1)
	}
}
