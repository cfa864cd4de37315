package models

import (
	"time"
)

// Opportunity is the normalized grant/contract posting produced by the
// external ingestion collaborator. Any non-identity field may be empty or
// nil; the evaluation core tolerates missing data.
type Opportunity struct {
	Source              string     `json:"source"`
	SourceOpportunityID string     `json:"source_opportunity_id"`
	Title               string     `json:"title"`
	Agency              string     `json:"agency"`
	OpportunityNumber   string     `json:"opportunity_number"`
	Description         string     `json:"description"`
	RawText             string     `json:"raw_text"`
	NAICSCodes          []string   `json:"naics_codes"`
	SetAsideType        string     `json:"set_aside_type"`
	OpportunityType     string     `json:"opportunity_type"`
	SecurityRequirement string     `json:"security_requirement"`
	AwardAmountMin      *float64   `json:"award_amount_min"`
	AwardAmountMax      *float64   `json:"award_amount_max"`
	PostedDate          *time.Time `json:"posted_date"`
	ResponseDeadline    *time.Time `json:"response_deadline"`
	SourceURL           string     `json:"source_url"`
}

// CombinedText joins description and raw text for keyword matching.
func (o Opportunity) CombinedText() string {
	if o.Description == "" {
		return o.RawText
	}
	if o.RawText == "" {
		return o.Description
	}
	return o.Description + " " + o.RawText
}
