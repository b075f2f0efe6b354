package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-normal-raytracer/pkg/config"
	"github.com/df07/go-normal-raytracer/web/server"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Printf("Error loading configuration: %v", err)
		os.Exit(1)
	}

	// Parse command line flags
	flag.IntVar(&cfg.Port, "port", cfg.Port, "Port to serve on")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Render workers per request (0 = CPU count)")
	flag.Parse()

	webServer, err := server.NewServer(cfg)
	if err != nil {
		log.Printf("Error creating server: %v", err)
		os.Exit(1)
	}

	log.Printf("Normal-Visualization Raytracer Web Server")
	log.Printf("Try http://localhost:%d/api/render?scene=default", cfg.Port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
