package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"postureserver/internal/app"
)

func main() {
	// A missing .env just means every setting falls back to its default.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	application, err := app.NewApp()
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
}
