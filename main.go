package main

import (
	"log"

	"github.com/joho/godotenv"

	"healthtrack-server/internal/cli"
)

func main() {
	// Load environment variables; a missing .env is fine outside development.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cli.Execute()
}
