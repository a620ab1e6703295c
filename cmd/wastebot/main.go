package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine; real deployments configure via environment.
	_ = godotenv.Load()

	Execute()
}
