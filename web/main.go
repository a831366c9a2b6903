package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-weekend-raytracer/pkg/config"
	"github.com/df07/go-weekend-raytracer/pkg/publish"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/web/server"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Printf("Error loading configuration: %v", err)
		os.Exit(1)
	}

	// Parse command line flags
	flag.StringVar(&cfg.ServerAddress, "addr", cfg.ServerAddress, "Address to serve on")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Render goroutines per request (0 = one per CPU)")
	flag.DurationVar(&cfg.RenderTimeout, "timeout", cfg.RenderTimeout, "Maximum time for a single render")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Printf("Invalid configuration: %v", err)
		os.Exit(1)
	}

	var publisher *publish.S3Publisher
	if cfg.S3.Enabled() {
		publisher, err = publish.NewS3Publisher(cfg.S3, renderer.NewDefaultLogger())
		if err != nil {
			log.Printf("Error configuring S3: %v", err)
			os.Exit(1)
		}
		log.Printf("Publishing renders to s3://%s/%s", cfg.S3.Bucket, cfg.S3.Prefix)
	}

	webServer := server.NewServer(cfg, publisher)

	log.Printf("Weekend Raytracer Web Server")
	log.Printf("Try http://localhost%s/api/render?scene=default", cfg.ServerAddress)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
