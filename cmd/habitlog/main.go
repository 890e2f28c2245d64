package main

import (
	"log"

	_ "habitlog-service/docs" // Import generated docs
	"habitlog-service/internal/app"
)

// @title HabitLog API
// @version 1.0
// @description Photo-verified habit logging with streaks and leaderboards

// @contact.name API Support
// @contact.email support@habitlog.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Create and initialize the application
	application, err := app.New()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Run the application
	if err := application.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}
