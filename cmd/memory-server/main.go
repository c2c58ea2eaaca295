package main

import (
	"log"

	"github.com/princehaifan/quran-memory-system/internal/builder"
)

// Serves the study plan web page and JSON API.
// Pass -env=prod to read .env.prod instead of .env.local.
func main() {
	app, err := builder.Build()
	if err != nil {
		log.Fatalf("build memory server: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("memory server: %v", err)
	}
}
