package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/paperrank/internal/adapters/driving/cli"
)

func main() {
	// Provider API keys may live in a local .env file.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
