package timeline

import (
	"sort"
	"time"
)

// Feasibility classifies whether the preparation window is workable.
type Feasibility string

const (
	Feasible   Feasibility = "feasible"
	Tight      Feasibility = "tight"
	Infeasible Feasibility = "infeasible"
)

// MilestoneOffset names a preparation milestone and how many days before
// the submission deadline it must land.
type MilestoneOffset struct {
	Name               string
	Owner              string // "human" or "automated"
	DaysBeforeDeadline int
}

// LeadTimeConfig is the per-opportunity-type milestone table.
type LeadTimeConfig struct {
	OpportunityType string
	Milestones      []MilestoneOffset
}

// TotalLeadDays is the longest milestone offset, i.e. the full preparation
// window the timeline needs.
func (c LeadTimeConfig) TotalLeadDays() int {
	total := 0
	for _, m := range c.Milestones {
		if m.DaysBeforeDeadline > total {
			total = m.DaysBeforeDeadline
		}
	}
	return total
}

// Milestone is a calculated point on the preparation timeline.
type Milestone struct {
	Name               string    `json:"name"`
	Date               time.Time `json:"date"`
	Owner              string    `json:"owner"`
	DaysBeforeDeadline int       `json:"days_before_deadline"`
	IsPastDue          bool      `json:"is_past_due"`
}

// Roadmap is the complete backward timeline for one opportunity.
type Roadmap struct {
	Source              string      `json:"source"`
	SourceOpportunityID string      `json:"source_opportunity_id"`
	OpportunityType     string      `json:"opportunity_type"`
	SubmissionDeadline  time.Time   `json:"submission_deadline"`
	Milestones          []Milestone `json:"milestones"`
	TotalLeadDays       int         `json:"total_lead_days"`
	DaysRemaining       int         `json:"days_remaining"`
	Feasibility         Feasibility `json:"feasibility"`
}

func leadTimes(offsets ...int) []MilestoneOffset {
	names := []struct {
		name  string
		owner string
	}{
		{"go/no-go decision", "human"},
		{"partner outreach", "human"},
		{"draft narrative", "human"},
		{"human review", "human"},
		{"budget and compliance", "human"},
		{"final package", "automated"},
	}
	ms := make([]MilestoneOffset, len(names))
	for i, n := range names {
		ms[i] = MilestoneOffset{Name: n.name, Owner: n.owner, DaysBeforeDeadline: offsets[i]}
	}
	return ms
}

var configs = map[string]LeadTimeConfig{
	"federal":       {OpportunityType: "federal", Milestones: leadTimes(60, 50, 30, 20, 10, 3)},
	"state":         {OpportunityType: "state", Milestones: leadTimes(45, 35, 25, 15, 7, 2)},
	"private":       {OpportunityType: "private", Milestones: leadTimes(30, 21, 14, 10, 5, 2)},
	"sbir_phase_i":  {OpportunityType: "sbir_phase_i", Milestones: leadTimes(45, 35, 25, 15, 7, 3)},
	"sbir_phase_ii": {OpportunityType: "sbir_phase_ii", Milestones: leadTimes(75, 60, 40, 25, 14, 3)},
}

// ConfigFor returns the lead-time table for an opportunity type, falling
// back to federal for unknown types.
func ConfigFor(opportunityType string) LeadTimeConfig {
	if c, ok := configs[opportunityType]; ok {
		return c
	}
	return configs["federal"]
}

// OpportunityTypes lists the supported lead-time tables.
func OpportunityTypes() []string {
	types := make([]string, 0, len(configs))
	for t := range configs {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Calculate builds the backward timeline from the submission deadline.
// Milestones come back earliest-first. The reference date is "now" for
// past-due and feasibility purposes; callers pass it explicitly so the
// calculation stays deterministic.
func Calculate(source, sourceOpportunityID string, deadline time.Time, opportunityType string, reference time.Time) Roadmap {
	config := ConfigFor(opportunityType)

	milestones := make([]Milestone, 0, len(config.Milestones))
	for _, offset := range config.Milestones {
		date := deadline.AddDate(0, 0, -offset.DaysBeforeDeadline)
		milestones = append(milestones, Milestone{
			Name:               offset.Name,
			Date:               date,
			Owner:              offset.Owner,
			DaysBeforeDeadline: offset.DaysBeforeDeadline,
			IsPastDue:          date.Before(reference),
		})
	}
	sort.Slice(milestones, func(i, j int) bool { return milestones[i].Date.Before(milestones[j].Date) })

	totalLead := config.TotalLeadDays()
	daysRemaining := int(deadline.Sub(reference).Hours() / 24)

	feasibility := Infeasible
	switch {
	case daysRemaining >= totalLead:
		feasibility = Feasible
	case float64(daysRemaining) >= float64(totalLead)*0.5:
		feasibility = Tight
	}

	return Roadmap{
		Source:              source,
		SourceOpportunityID: sourceOpportunityID,
		OpportunityType:     config.OpportunityType,
		SubmissionDeadline:  deadline,
		Milestones:          milestones,
		TotalLeadDays:       totalLead,
		DaysRemaining:       daysRemaining,
		Feasibility:         feasibility,
	}
}
