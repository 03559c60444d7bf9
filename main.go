package main

import (
	"log/slog"
	"os"

	"github.com/dev-shimada/cloud-proxy/internal/cli"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := cli.Execute(); err != nil {
		slog.Error("cloud-proxy failed", "error", err)
		os.Exit(1)
	}
}
