package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"hyperliquid-journal/internal/cli"
	"hyperliquid-journal/internal/config"
)

func main() {
	// Optional; env overrides only apply when the file exists.
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := cli.Execute(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
