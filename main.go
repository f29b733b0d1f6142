// Package main provides the entry point for the blogjson tool.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/yourusername/blogjson/internal/cli"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cli.Execute()
}
