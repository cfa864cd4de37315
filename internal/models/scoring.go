package models

import "time"

// Verdict is the categorical pursue/no-pursue recommendation.
type Verdict string

const (
	VerdictGo      Verdict = "GO"
	VerdictShape   Verdict = "SHAPE"
	VerdictMonitor Verdict = "MONITOR"
	VerdictNoGo    Verdict = "NO-GO"
)

// DimensionScore is a single 0-100 dimension score with up to three
// literal evidence snippets.
type DimensionScore struct {
	Score             float64  `json:"score"`
	EvidenceCitations []string `json:"evidence_citations"`
}

// ScoringResult is the output of the five-dimension weighted scoring engine.
// CompositeScore is the weighted sum of the dimension scores under the
// weights version recorded in ScoringWeightsVersion.
type ScoringResult struct {
	Source                string         `json:"source"`
	SourceOpportunityID   string         `json:"source_opportunity_id"`
	MissionFit            DimensionScore `json:"mission_fit"`
	Eligibility           DimensionScore `json:"eligibility"`
	TechnicalAlignment    DimensionScore `json:"technical_alignment"`
	FinancialViability    DimensionScore `json:"financial_viability"`
	StrategicValue        DimensionScore `json:"strategic_value"`
	CompositeScore        float64        `json:"composite_score"`
	Verdict               Verdict        `json:"verdict"`
	ScoringWeightsVersion string         `json:"scoring_weights_version"`
	ScoringMethod         string         `json:"scoring_method"`
	ScoredAt              time.Time      `json:"scored_at"`
}
