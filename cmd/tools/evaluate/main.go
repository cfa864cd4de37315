package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/vtkl/grant-radar/internal/evaluator"
	"github.com/vtkl/grant-radar/internal/models"
	"github.com/vtkl/grant-radar/internal/profile"
	"github.com/vtkl/grant-radar/internal/report"
	"github.com/vtkl/grant-radar/internal/scoring"
)

func main() {
	inputPath := flag.String("input", "", "Path to a JSON file containing an array of opportunities")
	profilePath := flag.String("profile", "", "Optional YAML entity profile (defaults to the built-in profile)")
	weightsPath := flag.String("weights", "", "Optional JSON/YAML scoring weights (defaults to the standard preset)")
	showReports := flag.Bool("reports", false, "Print a full report for each GO/SHAPE verdict")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("Please provide an input file using -input flag")
	}

	p := profile.Default()
	if *profilePath != "" {
		loaded, err := profile.Load(*profilePath)
		if err != nil {
			log.Fatalf("Failed to load entity profile: %v", err)
		}
		p = loaded
	}

	weights := scoring.DefaultWeights()
	if *weightsPath != "" {
		loaded, err := scoring.LoadWeights(*weightsPath)
		if err != nil {
			log.Fatalf("Failed to load scoring weights: %v", err)
		}
		weights = loaded
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read input file: %v", err)
	}
	var opps []models.Opportunity
	if err := json.Unmarshal(data, &opps); err != nil {
		log.Fatalf("Failed to parse input file: %v", err)
	}

	ev := evaluator.New(p, weights)
	results, summary, err := ev.EvaluateBatch(context.Background(), opps, time.Now().UTC())
	if err != nil {
		log.Fatalf("Evaluation failed: %v", err)
	}

	report.RenderTable(os.Stdout, results, summary)

	if *showReports {
		for _, r := range results {
			if r.Scoring.Verdict != models.VerdictGo && r.Scoring.Verdict != models.VerdictShape {
				continue
			}
			report.Render(os.Stdout, report.Generate(r))
		}
	}
}
