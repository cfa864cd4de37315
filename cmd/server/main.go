package main

import (
	"log"
	"os"

	"github.com/vtkl/grant-radar/internal/api"
	"github.com/vtkl/grant-radar/internal/evaluator"
	"github.com/vtkl/grant-radar/internal/profile"
	"github.com/vtkl/grant-radar/internal/scoring"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	p := profile.Default()
	if path := os.Getenv("PROFILE_PATH"); path != "" {
		loaded, err := profile.Load(path)
		if err != nil {
			log.Fatalf("Failed to load entity profile: %v", err)
		}
		p = loaded
	}

	weights := scoring.DefaultWeights()
	if path := os.Getenv("WEIGHTS_PATH"); path != "" {
		loaded, err := scoring.LoadWeights(path)
		if err != nil {
			log.Fatalf("Failed to load scoring weights: %v", err)
		}
		weights = loaded
	}

	srv := api.NewServer(evaluator.New(p, weights))
	log.Printf("Server starting on port %s (profile %s, weights %s)...", port, p.Version, weights.Version)
	if err := srv.Start(port); err != nil {
		log.Fatal(err)
	}
}
