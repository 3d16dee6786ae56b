package main

import (
	"log"

	"github.com/curbline/parking-backend-go/internal/api"
	"github.com/curbline/parking-backend-go/internal/config"
)

func main() {
	cfg := config.Load()

	router := api.SetupRouter(cfg)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
