package main

import (
	"log"

	"github.com/joho/godotenv"

	"fishwatch/internal/app"
)

func main() {
	// Optional .env overrides; absence is fine.
	godotenv.Load()

	application, err := app.New()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
