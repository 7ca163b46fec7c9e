package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/antifraudworks/schemefinder/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	srv := server.NewServer()
	defer srv.Session.Close()

	r := srv.SetupRouter()

	port := srv.Config.Server.Port
	log.Printf("Starting server on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
