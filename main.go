package main

import (
	"context"
	"log/slog"
	"os"

	"codesensei/packages/cli"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
