package evaluator

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/vtkl/grant-radar/internal/eligibility"
	"github.com/vtkl/grant-radar/internal/ingest"
	"github.com/vtkl/grant-radar/internal/models"
	"github.com/vtkl/grant-radar/internal/profile"
	"github.com/vtkl/grant-radar/internal/scoring"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

// Evaluation pairs one opportunity with its eligibility and scoring output.
type Evaluation struct {
	Opportunity models.Opportunity       `json:"opportunity"`
	Eligibility models.EligibilityResult `json:"eligibility"`
	Scoring     models.ScoringResult     `json:"scoring"`
}

// RunSummary describes one batch evaluation run.
type RunSummary struct {
	RunID         string                 `json:"run_id"`
	Evaluated     int                    `json:"evaluated"`
	Rejected      int                    `json:"rejected"`
	VerdictCounts map[models.Verdict]int `json:"verdict_counts"`
	StartedAt     time.Time              `json:"started_at"`
	Duration      time.Duration          `json:"duration"`
}

// Evaluator runs the eligibility filter and scoring engine over opportunity
// records. Profile and weights are immutable after construction, so one
// Evaluator is safe for concurrent use.
type Evaluator struct {
	Profile     profile.EntityProfile
	Weights     scoring.ScoringWeights
	Concurrency int
}

func New(p profile.EntityProfile, w scoring.ScoringWeights) *Evaluator {
	return &Evaluator{
		Profile:     p,
		Weights:     w,
		Concurrency: defaultConcurrency,
	}
}

// Evaluate validates, normalizes, and evaluates a single opportunity.
func (e *Evaluator) Evaluate(opp models.Opportunity, now time.Time) (Evaluation, error) {
	if err := ingest.Validate(opp); err != nil {
		return Evaluation{}, err
	}

	normalized := ingest.Normalize(opp)
	elig := eligibility.Assess(normalized, e.Profile, now)
	score := scoring.Score(normalized, elig, e.Profile, e.Weights, now)

	return Evaluation{
		Opportunity: normalized,
		Eligibility: elig,
		Scoring:     score,
	}, nil
}

// EvaluateBatch evaluates a slice of opportunities concurrently. Evaluation
// is a pure map, so each item is independent; output order matches input
// order regardless of completion order. Records failing boundary validation
// are counted as rejected, not fatal.
func (e *Evaluator) EvaluateBatch(ctx context.Context, opps []models.Opportunity, now time.Time) ([]Evaluation, RunSummary, error) {
	start := time.Now()
	summary := RunSummary{
		RunID:         uuid.NewString(),
		VerdictCounts: map[models.Verdict]int{},
		StartedAt:     start.UTC(),
	}

	results := make([]*Evaluation, len(opps))
	rejected := make([]bool, len(opps))

	g, ctx := errgroup.WithContext(ctx)
	concurrency := e.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	g.SetLimit(concurrency)

	for i, opp := range opps {
		i, opp := i, opp
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ev, err := e.Evaluate(opp, now)
			if err != nil {
				log.Printf("Rejected opportunity at boundary: %v", err)
				rejected[i] = true
				return nil
			}
			results[i] = &ev
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, summary, err
	}

	out := make([]Evaluation, 0, len(opps))
	for i, r := range results {
		if rejected[i] || r == nil {
			summary.Rejected++
			continue
		}
		out = append(out, *r)
		summary.Evaluated++
		summary.VerdictCounts[r.Scoring.Verdict]++
	}
	summary.Duration = time.Since(start)

	log.Printf("Evaluation run %s: %d evaluated, %d rejected in %s",
		summary.RunID, summary.Evaluated, summary.Rejected, summary.Duration.Round(time.Millisecond))
	return out, summary, nil
}
