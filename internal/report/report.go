package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/vtkl/grant-radar/internal/evaluator"
	"github.com/vtkl/grant-radar/internal/ingest"
	"github.com/vtkl/grant-radar/internal/models"
)

// Phase is one step in the pursuit roadmap for actionable verdicts.
type Phase struct {
	Number            int    `json:"number"`
	Description       string `json:"description"`
	Owner             string `json:"owner"`
	EstimatedDuration string `json:"estimated_duration"`
}

// Report is the human-facing verdict summary for one opportunity.
// GO/SHAPE verdicts get the full five sections; MONITOR/NO-GO get the
// abbreviated verdict card and risk assessment.
type Report struct {
	Source              string         `json:"source"`
	SourceOpportunityID string         `json:"source_opportunity_id"`
	Title               string         `json:"title"`
	Verdict             models.Verdict `json:"verdict"`
	CompositeScore      float64        `json:"composite_score"`
	Rationale           string         `json:"rationale"`
	ExecutiveSummary    string         `json:"executive_summary"`
	RiskAssessment      string         `json:"risk_assessment"`
	Roadmap             []Phase        `json:"roadmap,omitempty"`
}

// Generate builds a verdict report from one evaluation.
func Generate(ev evaluator.Evaluation) Report {
	r := Report{
		Source:              ev.Opportunity.Source,
		SourceOpportunityID: ev.Opportunity.SourceOpportunityID,
		Title:               ev.Opportunity.Title,
		Verdict:             ev.Scoring.Verdict,
		CompositeScore:      ev.Scoring.CompositeScore,
		Rationale:           buildRationale(ev.Scoring, ev.Eligibility),
		ExecutiveSummary:    buildExecutiveSummary(ev.Scoring, ev.Eligibility),
		RiskAssessment:      buildRiskAssessment(ev.Eligibility),
	}

	if r.Verdict == models.VerdictGo || r.Verdict == models.VerdictShape {
		r.Roadmap = buildRoadmap(r.Verdict)
	}
	return r
}

func buildRationale(scoring models.ScoringResult, elig models.EligibilityResult) string {
	var parts []string

	dimensions := []struct {
		name string
		dim  models.DimensionScore
	}{
		{"Mission fit", scoring.MissionFit},
		{"Technical alignment", scoring.TechnicalAlignment},
		{"Financial viability", scoring.FinancialViability},
		{"Strategic value", scoring.StrategicValue},
	}
	for _, d := range dimensions {
		if d.dim.Score < 70 {
			continue
		}
		evidence := "n/a"
		if len(d.dim.EvidenceCitations) > 0 {
			evidence = d.dim.EvidenceCitations[0]
		}
		parts = append(parts, fmt.Sprintf("%s: %.0f/100 - %s", d.name, d.dim.Score, evidence))
	}

	if len(elig.Blockers) > 0 {
		parts = append(parts, "Eligibility blockers: "+strings.Join(elig.Blockers, "; "))
	}

	if len(parts) == 0 {
		return "No significant findings."
	}
	return strings.Join(parts, ". ")
}

func buildExecutiveSummary(scoring models.ScoringResult, elig models.EligibilityResult) string {
	sentences := make([]string, 0, 3)

	missionEvidence := "federal opportunity"
	if len(scoring.MissionFit.EvidenceCitations) > 0 {
		missionEvidence = scoring.MissionFit.EvidenceCitations[0]
	}
	sentences = append(sentences, fmt.Sprintf("This opportunity centers on: %s.", ingest.TruncateText(missionEvidence, 160)))

	techEvidence := "relevant technical capabilities"
	if len(scoring.TechnicalAlignment.EvidenceCitations) > 0 {
		techEvidence = scoring.TechnicalAlignment.EvidenceCitations[0]
	}
	sentences = append(sentences, fmt.Sprintf("VTKL alignment: %s.", ingest.TruncateText(techEvidence, 160)))

	switch {
	case elig.IsEligible:
		sentences = append(sentences, fmt.Sprintf(
			"Eligible via %s path with composite score %.0f/100.",
			elig.ParticipationPath, scoring.CompositeScore))
	case len(elig.Blockers) > 0:
		sentences = append(sentences, "Not pursuable: "+elig.Blockers[0]+".")
	default:
		sentences = append(sentences, fmt.Sprintf(
			"Scores %.0f/100 and does not meet the pursuit threshold.", scoring.CompositeScore))
	}

	return strings.Join(sentences, " ")
}

func buildRiskAssessment(elig models.EligibilityResult) string {
	var sections []string

	if len(elig.Blockers) > 0 {
		sections = append(sections, "Blockers: "+strings.Join(elig.Blockers, "; "))
	}
	if len(elig.Warnings) > 0 {
		sections = append(sections, "Warnings: "+strings.Join(elig.Warnings, "; "))
	} else {
		sections = append(sections, "Warnings: none identified")
	}

	return strings.Join(sections, ". ") + "."
}

func buildRoadmap(verdict models.Verdict) []Phase {
	phases := []Phase{
		{
			Number:            1,
			Description:       "Complete eligibility verification and teaming partner outreach",
			Owner:             "human",
			EstimatedDuration: "1-2 weeks",
		},
	}

	if verdict == models.VerdictGo {
		phases = append(phases, Phase{
			Number:            2,
			Description:       "Develop proposal narrative and technical approach",
			Owner:             "human",
			EstimatedDuration: "2-4 weeks",
		})
	} else {
		phases = append(phases, Phase{
			Number:            2,
			Description:       "Address eligibility gaps and refine approach",
			Owner:             "human",
			EstimatedDuration: "3-6 weeks",
		})
	}

	phases = append(phases, Phase{
		Number:            3,
		Description:       "Final review, pricing, and submission via SAM.gov/Grants.gov",
		Owner:             "automated",
		EstimatedDuration: "3-5 days",
	})
	return phases
}

// RenderTable writes a verdict table for a batch of evaluations.
func RenderTable(w io.Writer, evaluations []evaluator.Evaluation, summary evaluator.RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Source", "Opportunity", "Title", "Eligible", "Path", "Composite", "Verdict"})

	for _, ev := range evaluations {
		t.AppendRow(table.Row{
			ev.Opportunity.Source,
			ev.Opportunity.SourceOpportunityID,
			ingest.TruncateText(ev.Opportunity.Title, 40),
			ev.Eligibility.IsEligible,
			ev.Eligibility.ParticipationPath,
			fmt.Sprintf("%.1f", ev.Scoring.CompositeScore),
			ev.Scoring.Verdict,
		})
	}

	t.AppendFooter(table.Row{"", "", "", "", "", "run", summary.RunID})
	t.Render()
}

// Render writes a full report as plain text.
func Render(w io.Writer, r Report) {
	fmt.Fprintf(w, "%s [%s/%s]: %s (%.1f/100)\n", r.Title, r.Source, r.SourceOpportunityID, r.Verdict, r.CompositeScore)
	fmt.Fprintf(w, "Summary: %s\n", r.ExecutiveSummary)
	fmt.Fprintf(w, "Rationale: %s\n", r.Rationale)
	fmt.Fprintf(w, "Risk: %s\n", r.RiskAssessment)
	for _, phase := range r.Roadmap {
		fmt.Fprintf(w, "  Phase %d (%s, %s): %s\n", phase.Number, phase.Owner, phase.EstimatedDuration, phase.Description)
	}
}
