package main

import (
	"log"

	"habitlog-service/internal/app"
)

func main() {
	notifier, err := app.NewNotifier()
	if err != nil {
		log.Fatalf("Failed to create notifier: %v", err)
	}

	if err := notifier.Run(); err != nil {
		log.Fatalf("Notifier error: %v", err)
	}
}
