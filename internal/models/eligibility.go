package models

import "time"

// ParticipationPath is the contractual role VTKL would take on an
// opportunity. Part of the wire contract; values must not drift.
type ParticipationPath string

const (
	PathPrime      ParticipationPath = "prime"
	PathSubawardee ParticipationPath = "subawardee"
	PathNone       ParticipationPath = "none"
)

// ConstraintCheck is the outcome of a single eligibility constraint.
type ConstraintCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// EligibilityResult is the output of the six-constraint eligibility filter.
//
// Invariants: IsEligible is true only when all six checks passed, and
// ParticipationPath is PathNone exactly when IsEligible is false.
type EligibilityResult struct {
	Source              string            `json:"source"`
	SourceOpportunityID string            `json:"source_opportunity_id"`
	IsEligible          bool              `json:"is_eligible"`
	ParticipationPath   ParticipationPath `json:"participation_path"`
	Checks              []ConstraintCheck `json:"checks"`
	Blockers            []string          `json:"blockers"`
	Assets              []string          `json:"assets"`
	Warnings            []string          `json:"warnings"`
	EvaluatedAt         time.Time         `json:"evaluated_at"`
	ProfileVersion      string            `json:"profile_version"`
}

// Check returns the named constraint check, if present.
func (r EligibilityResult) Check(name string) (ConstraintCheck, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return ConstraintCheck{}, false
}
