package evaluator

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vtkl/grant-radar/internal/models"
	"github.com/vtkl/grant-radar/internal/profile"
	"github.com/vtkl/grant-radar/internal/scoring"
)

func testEvaluator() *Evaluator {
	return New(profile.Default(), scoring.DefaultWeights())
}

func sampleOpportunity(id string) models.Opportunity {
	deadline := time.Date(2026, 6, 15, 17, 0, 0, 0, time.UTC)
	return models.Opportunity{
		Source:              "sam_gov",
		SourceOpportunityID: id,
		Title:               "AI Workflow Support",
		Agency:              "Department of Defense",
		Description:         "Machine learning and data governance for mission systems.",
		NAICSCodes:          []string{"541511"},
		ResponseDeadline:    &deadline,
	}
}

func TestEvaluate_RejectsMissingIdentity(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_, err := testEvaluator().Evaluate(models.Opportunity{Title: "No identity"}, now)
	if err == nil {
		t.Fatal("expected boundary rejection for missing identity fields")
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ev := testEvaluator()

	first, err := ev.Evaluate(sampleOpportunity("A-1"), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ev.Evaluate(sampleOpportunity("A-1"), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different evaluations:\n%+v\n%+v", first, second)
	}
}

func TestEvaluate_CarriesIdentityThrough(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	result, err := testEvaluator().Evaluate(sampleOpportunity("A-1"), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Eligibility.SourceOpportunityID != "A-1" || result.Scoring.SourceOpportunityID != "A-1" {
		t.Fatalf("identity not carried through: elig=%s scoring=%s",
			result.Eligibility.SourceOpportunityID, result.Scoring.SourceOpportunityID)
	}
}

// NHO-set-aside IT services opportunity squarely inside the profile's
// capability and capacity bands, with an 8(a) variant flipping it to a
// hard disqualification.
func strongFitOpportunity() models.Opportunity {
	deadline := time.Date(2026, 6, 1, 17, 0, 0, 0, time.UTC)
	minAward, maxAward := 500_000.0, 2_000_000.0
	return models.Opportunity{
		Source:              "sam_gov",
		SourceOpportunityID: "HI-IT-2026-01",
		Title:               "Enterprise Data Platform Services",
		Agency:              "Department of Defense",
		Description: "Machine learning, data governance, and workflow orchestration " +
			"services supporting AI workflows on a multi-year IDIQ vehicle.",
		NAICSCodes:       []string{"541511"},
		SetAsideType:     "NHO Set-Aside",
		AwardAmountMin:   &minAward,
		AwardAmountMax:   &maxAward,
		ResponseDeadline: &deadline,
	}
}

func TestEvaluate_StrongFitScenarioIsGo(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	result, err := testEvaluator().Evaluate(strongFitOpportunity(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Eligibility.IsEligible {
		t.Fatalf("expected eligible, got blockers=%v warnings=%v",
			result.Eligibility.Blockers, result.Eligibility.Warnings)
	}
	if result.Eligibility.ParticipationPath != models.PathPrime {
		t.Fatalf("expected prime path, got %s", result.Eligibility.ParticipationPath)
	}
	nhoAsset := false
	for _, a := range result.Eligibility.Assets {
		if strings.Contains(a, "NHO") {
			nhoAsset = true
		}
	}
	if !nhoAsset {
		t.Fatalf("expected NHO asset, got %v", result.Eligibility.Assets)
	}
	if result.Scoring.CompositeScore < 80 {
		t.Fatalf("expected composite >= 80, got %v", result.Scoring.CompositeScore)
	}
	if result.Scoring.Verdict != models.VerdictGo {
		t.Fatalf("expected GO, got %s (composite %v)", result.Scoring.Verdict, result.Scoring.CompositeScore)
	}
}

func TestEvaluate_EightAVariantIsNoGo(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	opp := strongFitOpportunity()
	opp.SetAsideType = "8(a) Set-Aside"

	result, err := testEvaluator().Evaluate(opp, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Eligibility.IsEligible {
		t.Fatal("expected ineligible for 8(a) set-aside")
	}
	if len(result.Eligibility.Blockers) == 0 {
		t.Fatalf("expected blockers, got warnings=%v", result.Eligibility.Warnings)
	}
	if result.Eligibility.ParticipationPath != models.PathNone {
		t.Fatalf("expected none path, got %s", result.Eligibility.ParticipationPath)
	}
	if result.Scoring.Eligibility.Score != 0 {
		t.Fatalf("expected zero eligibility dimension, got %v", result.Scoring.Eligibility.Score)
	}
	if result.Scoring.Verdict != models.VerdictNoGo {
		t.Fatalf("expected NO-GO, got %s (composite %v)", result.Scoring.Verdict, result.Scoring.CompositeScore)
	}
	if result.Scoring.CompositeScore >= 40 {
		t.Fatalf("blocked opportunity should score below the MONITOR band, got %v", result.Scoring.CompositeScore)
	}
}

func TestEvaluateBatch_PreservesOrderAndCountsRejects(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	opps := []models.Opportunity{
		sampleOpportunity("A-1"),
		{Title: "missing identity"},
		sampleOpportunity("A-3"),
		sampleOpportunity("A-2"),
	}

	results, summary, err := testEvaluator().EvaluateBatch(context.Background(), opps, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Evaluated != 3 || summary.Rejected != 1 {
		t.Fatalf("expected 3 evaluated / 1 rejected, got %d / %d", summary.Evaluated, summary.Rejected)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	wantOrder := []string{"A-1", "A-3", "A-2"}
	for i, want := range wantOrder {
		if results[i].Opportunity.SourceOpportunityID != want {
			t.Fatalf("result %d: expected %s, got %s", i, want, results[i].Opportunity.SourceOpportunityID)
		}
	}
	if summary.RunID == "" {
		t.Fatal("expected a run ID")
	}
}

func TestEvaluateBatch_VerdictCounts(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	opps := []models.Opportunity{sampleOpportunity("A-1"), sampleOpportunity("A-2")}

	results, summary, err := testEvaluator().EvaluateBatch(context.Background(), opps, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total := 0
	for _, n := range summary.VerdictCounts {
		total += n
	}
	if total != len(results) {
		t.Fatalf("verdict counts sum to %d, expected %d", total, len(results))
	}
}

func TestEvaluateBatch_CancelledContext(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := testEvaluator().EvaluateBatch(ctx, []models.Opportunity{sampleOpportunity("A-1")}, now)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
