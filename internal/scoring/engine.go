package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/vtkl/grant-radar/internal/models"
	"github.com/vtkl/grant-radar/internal/profile"
	"github.com/vtkl/grant-radar/internal/semantic"
)

// ScoringMethod identifies the deterministic rule-based engine on the wire.
const ScoringMethod = "rule_based_v1"

// Eligibility dimension: clean base, per-warning penalty, per-asset bonus.
const (
	eligibilityBase = 90.0
	warningPenalty  = 10.0
	assetBonus      = 15.0
)

// Strategic value: base plus a fixed increment per detected signal.
const (
	strategicBase      = 40.0
	strategicIncrement = 20.0
)

// Text-derived dimensions are multiplied by ineligibilityFactor when the
// opportunity is ineligible, so blocked opportunities never score anywhere
// near the MONITOR threshold.
const ineligibilityFactor = 0.2

// neutralFinancialScore applies when award amounts are absent.
const neutralFinancialScore = 50.0

const maxCitations = 3

// multiYearSignals indicate long-horizon contract vehicles.
var multiYearSignals = []string{
	"multi-year", "multiyear", "idiq", "indefinite delivery",
	"option year", "base plus option",
}

// followOnSignals indicate likely follow-on work beyond the initial award.
var followOnSignals = []string{
	"phase ii", "phase 2", "follow-on", "recompete",
}

// highValueAgencies are agencies VTKL treats as strategic relationships.
var highValueAgencies = []string{
	"department of defense", "defense", "darpa", "indopacom",
	"indo-pacific command", "national science foundation", "nsf",
	"department of energy", "nih", "health and human services",
	"department of homeland security",
}

// Score computes the five dimension scores, the weighted composite, and the
// verdict. Pure function of its inputs: the same opportunity, eligibility
// result, profile, weights, and clock produce an identical ScoringResult.
func Score(opp models.Opportunity, elig models.EligibilityResult, p profile.EntityProfile, weights ScoringWeights, now time.Time) models.ScoringResult {
	text := opportunityText(opp)

	missionFit := scoreText(text, semantic.FocusAreas(), "no mission-fit signals found in opportunity text")
	technical := scoreText(text, semantic.TechnicalCapabilities(), "no technical-capability signals found in opportunity text")
	eligibility := scoreEligibility(elig)
	financial := scoreFinancial(opp, p.FinancialCapacity)
	strategic := scoreStrategic(opp, text)

	if !elig.IsEligible {
		missionFit = penalize(missionFit)
		technical = penalize(technical)
		financial = penalize(financial)
		strategic = penalize(strategic)
	}

	composite := missionFit.Score*weights.MissionFit +
		eligibility.Score*weights.Eligibility +
		technical.Score*weights.TechnicalAlignment +
		financial.Score*weights.FinancialViability +
		strategic.Score*weights.StrategicValue

	composite = clamp(composite, 0, 100)

	return models.ScoringResult{
		Source:                opp.Source,
		SourceOpportunityID:   opp.SourceOpportunityID,
		MissionFit:            missionFit,
		Eligibility:           eligibility,
		TechnicalAlignment:    technical,
		FinancialViability:    financial,
		StrategicValue:        strategic,
		CompositeScore:        composite,
		Verdict:               VerdictFor(composite),
		ScoringWeightsVersion: weights.Version,
		ScoringMethod:         ScoringMethod,
		ScoredAt:              now.UTC(),
	}
}

// VerdictFor maps a composite score to a verdict. Thresholds are closed on
// the lower bound: 80.0 is GO, 79.999 is SHAPE.
func VerdictFor(composite float64) models.Verdict {
	switch {
	case composite >= 80:
		return models.VerdictGo
	case composite >= 60:
		return models.VerdictShape
	case composite >= 40:
		return models.VerdictMonitor
	default:
		return models.VerdictNoGo
	}
}

func opportunityText(opp models.Opportunity) string {
	parts := make([]string, 0, 3)
	if opp.Title != "" {
		parts = append(parts, opp.Title)
	}
	if combined := opp.CombinedText(); combined != "" {
		parts = append(parts, combined)
	}
	return strings.Join(parts, " ")
}

func scoreText(text string, phrases []string, emptyCitation string) models.DimensionScore {
	score, citations := semantic.ScoreAlignment(text, phrases)
	if len(citations) == 0 {
		citations = []string{emptyCitation}
	}
	return models.DimensionScore{Score: score, EvidenceCitations: citations}
}

// scoreEligibility derives the eligibility dimension from the filter output
// instead of recomputing constraints. Any hard blocker zeroes the dimension.
func scoreEligibility(elig models.EligibilityResult) models.DimensionScore {
	if len(elig.Blockers) > 0 {
		return models.DimensionScore{
			Score:             0,
			EvidenceCitations: capCitations(elig.Blockers),
		}
	}

	score := eligibilityBase - warningPenalty*float64(len(elig.Warnings))
	if score < 0 {
		score = 0
	}
	score += assetBonus * float64(len(elig.Assets))
	score = clamp(score, 0, 100)

	citations := make([]string, 0, maxCitations)
	citations = append(citations, fmt.Sprintf("Path: %s", elig.ParticipationPath))
	citations = append(citations, elig.Assets...)
	for _, w := range elig.Warnings {
		citations = append(citations, "Eligible with warning: "+w)
	}
	if len(citations) == 1 {
		citations = append(citations, "all constraints met")
	}

	return models.DimensionScore{Score: score, EvidenceCitations: capCitations(citations)}
}

// scoreFinancial scores the award range against the profile's comfortable
// range: full credit inside the ideal band, linear decay toward the hard
// floor and ceiling, zero outside them, neutral midpoint when unknown.
func scoreFinancial(opp models.Opportunity, fc profile.FinancialCapacity) models.DimensionScore {
	amount, ok := representativeAward(opp)
	if !ok {
		return models.DimensionScore{
			Score:             neutralFinancialScore,
			EvidenceCitations: []string{"award amount unspecified; viability cannot be determined"},
		}
	}

	var score float64
	var band string
	switch {
	case amount <= fc.MinAward || amount >= fc.MaxAward:
		score = 0
		band = fmt.Sprintf("outside capacity %s-%s", usd(fc.MinAward), usd(fc.MaxAward))
	case amount >= fc.IdealMin && amount <= fc.IdealMax:
		score = 100
		band = fmt.Sprintf("within ideal range %s-%s", usd(fc.IdealMin), usd(fc.IdealMax))
	case amount < fc.IdealMin:
		score = 100 * (amount - fc.MinAward) / (fc.IdealMin - fc.MinAward)
		band = fmt.Sprintf("below ideal range %s-%s", usd(fc.IdealMin), usd(fc.IdealMax))
	default:
		score = 100 * (fc.MaxAward - amount) / (fc.MaxAward - fc.IdealMax)
		band = fmt.Sprintf("above ideal range %s-%s", usd(fc.IdealMin), usd(fc.IdealMax))
	}

	return models.DimensionScore{
		Score:             clamp(score, 0, 100),
		EvidenceCitations: []string{fmt.Sprintf("award amount %s %s", usd(amount), band)},
	}
}

// representativeAward picks a single amount for band scoring: the midpoint
// when both bounds exist, otherwise whichever bound is present.
func representativeAward(opp models.Opportunity) (float64, bool) {
	switch {
	case opp.AwardAmountMin != nil && opp.AwardAmountMax != nil:
		return (*opp.AwardAmountMin + *opp.AwardAmountMax) / 2, true
	case opp.AwardAmountMax != nil:
		return *opp.AwardAmountMax, true
	case opp.AwardAmountMin != nil:
		return *opp.AwardAmountMin, true
	default:
		return 0, false
	}
}

func scoreStrategic(opp models.Opportunity, text string) models.DimensionScore {
	textLower := strings.ToLower(text + " " + opp.OpportunityType)
	agencyLower := strings.ToLower(opp.Agency)

	score := strategicBase
	var citations []string

	if hit, signal := containsAny(textLower, multiYearSignals); hit {
		score += strategicIncrement
		citations = append(citations, fmt.Sprintf("multi-year vehicle indicator: %q", signal))
	}
	if hit, signal := containsAny(textLower, followOnSignals); hit {
		score += strategicIncrement
		citations = append(citations, fmt.Sprintf("follow-on potential indicator: %q", signal))
	}
	if agencyLower != "" {
		if hit, _ := containsAny(agencyLower, highValueAgencies); hit {
			score += strategicIncrement
			citations = append(citations, fmt.Sprintf("high-value agency: %s", opp.Agency))
		}
	}

	if len(citations) == 0 {
		citations = []string{"no strategic signals detected"}
	}

	return models.DimensionScore{
		Score:             clamp(score, 0, 100),
		EvidenceCitations: capCitations(citations),
	}
}

func penalize(d models.DimensionScore) models.DimensionScore {
	return models.DimensionScore{
		Score:             d.Score * ineligibilityFactor,
		EvidenceCitations: d.EvidenceCitations,
	}
}

func containsAny(haystack string, needles []string) (bool, string) {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true, n
		}
	}
	return false, ""
}

func capCitations(citations []string) []string {
	if len(citations) > maxCitations {
		return citations[:maxCitations]
	}
	return citations
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// usd formats a dollar amount with thousands separators.
func usd(amount float64) string {
	s := fmt.Sprintf("%.0f", amount)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String()
	if neg {
		out = "-" + out
	}
	return out
}
