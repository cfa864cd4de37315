package eligibility

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vtkl/grant-radar/internal/models"
	"github.com/vtkl/grant-radar/internal/profile"
)

// Constraint check names. Part of the result contract.
const (
	CheckEntityType     = "entity_type"
	CheckSAM            = "sam_registration"
	CheckNAICS          = "naics_match"
	CheckSecurity       = "security_posture"
	CheckLocation       = "location"
	CheckCertifications = "certifications"
)

// naicsMatchKind grades the NAICS intersection for the path decision.
type naicsMatchKind int

const (
	naicsNone naicsMatchKind = iota
	naicsUnconstrained
	naicsOptional
	naicsPrimary
)

// Assess runs the six constraint checks against the profile and classifies
// the findings into blockers, assets, and warnings. Pure function; missing
// opportunity fields default to a pass, never an error.
func Assess(opp models.Opportunity, p profile.EntityProfile, now time.Time) models.EligibilityResult {
	entityCheck := checkEntityType(opp, p)
	samCheck := checkSAMRegistration(opp, p)
	naicsCheck, matchKind := checkNAICSMatch(opp, p)
	securityCheck := checkSecurityPosture(opp, p)
	locationCheck, nhoAsset := checkLocation(opp, p)
	certCheck, hardBlocker := checkCertifications(opp, p)

	checks := []models.ConstraintCheck{
		entityCheck,
		samCheck,
		naicsCheck,
		securityCheck,
		locationCheck,
		certCheck,
	}

	isEligible := true
	var blockers, warnings []string
	for _, check := range checks {
		if check.Passed {
			continue
		}
		isEligible = false
		finding := check.Name + ": " + check.Detail
		if check.Name == CheckCertifications && hardBlocker {
			blockers = append(blockers, finding)
		} else {
			warnings = append(warnings, finding)
		}
	}

	var assets []string
	if nhoAsset {
		assets = append(assets, "NHO (Native Hawaiian Organization) set-aside eligible")
	}
	if matchKind == naicsPrimary || matchKind == naicsOptional {
		assets = append(assets, "NAICS code alignment with VTKL capabilities")
	}

	// Soft capacity warning: award ceiling above what VTKL can execute.
	if opp.AwardAmountMax != nil && *opp.AwardAmountMax > p.FinancialCapacity.MaxAward {
		warnings = append(warnings, fmt.Sprintf(
			"award amount ($%.0f) exceeds capacity ($%.0f)",
			*opp.AwardAmountMax, p.FinancialCapacity.MaxAward))
	}

	return models.EligibilityResult{
		Source:              opp.Source,
		SourceOpportunityID: opp.SourceOpportunityID,
		IsEligible:          isEligible,
		ParticipationPath:   decidePath(isEligible, matchKind, len(warnings)),
		Checks:              checks,
		Blockers:            blockers,
		Assets:              assets,
		Warnings:            warnings,
		EvaluatedAt:         now.UTC(),
		ProfileVersion:      p.Version,
	}
}

// decidePath picks the participation path. Eligible results never take
// PathNone: a weak or unconstrained NAICS signal means subawardee, the
// conservative reading.
func decidePath(isEligible bool, matchKind naicsMatchKind, warningCount int) models.ParticipationPath {
	if !isEligible {
		return models.PathNone
	}
	if matchKind == naicsPrimary && warningCount == 0 {
		return models.PathPrime
	}
	return models.PathSubawardee
}

// entityRestrictions are phrases that restrict the opportunity to an entity
// type incompatible with a for-profit corporation.
var entityRestrictions = map[string][]string{
	"non-profit": {
		"non-profit only", "nonprofit only", "501(c)(3) required",
		"charitable organization",
	},
	"academic": {
		"university only", "academic institution required", "r1 institution",
	},
	"government": {
		"government entity only", "federal agency", "state agency only",
	},
}

func checkEntityType(opp models.Opportunity, p profile.EntityProfile) models.ConstraintCheck {
	textLower := strings.ToLower(opp.CombinedText())

	kinds := make([]string, 0, len(entityRestrictions))
	for kind := range entityRestrictions {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)

	for _, kind := range kinds {
		for _, phrase := range entityRestrictions[kind] {
			if strings.Contains(textLower, phrase) {
				return models.ConstraintCheck{
					Name:   CheckEntityType,
					Passed: false,
					Detail: fmt.Sprintf("opportunity restricted to %s entities; profile is %s", kind, p.EntityType),
				}
			}
		}
	}

	return models.ConstraintCheck{
		Name:   CheckEntityType,
		Passed: true,
		Detail: "no entity type restriction (for-profit compatible)",
	}
}

func checkSAMRegistration(opp models.Opportunity, p profile.EntityProfile) models.ConstraintCheck {
	if !strings.EqualFold(p.SAM.Status, "active") {
		return models.ConstraintCheck{
			Name:   CheckSAM,
			Passed: false,
			Detail: fmt.Sprintf("SAM registration status is %q, not active", p.SAM.Status),
		}
	}

	if opp.ResponseDeadline == nil {
		// No deadline: currency through the deadline cannot be a blocker.
		return models.ConstraintCheck{
			Name:   CheckSAM,
			Passed: true,
			Detail: fmt.Sprintf("active through %s (entity %s)", p.SAM.ExpiryDate.Format("2006-01-02"), p.SAM.EntityID),
		}
	}

	if opp.ResponseDeadline.After(p.SAM.ExpiryDate) {
		return models.ConstraintCheck{
			Name:   CheckSAM,
			Passed: false,
			Detail: fmt.Sprintf("SAM expires %s before deadline %s",
				p.SAM.ExpiryDate.Format("2006-01-02"), opp.ResponseDeadline.Format("2006-01-02")),
		}
	}

	return models.ConstraintCheck{
		Name:   CheckSAM,
		Passed: true,
		Detail: fmt.Sprintf("active through %s (entity %s)", p.SAM.ExpiryDate.Format("2006-01-02"), p.SAM.EntityID),
	}
}

func checkNAICSMatch(opp models.Opportunity, p profile.EntityProfile) (models.ConstraintCheck, naicsMatchKind) {
	if len(opp.NAICSCodes) == 0 {
		return models.ConstraintCheck{
			Name:   CheckNAICS,
			Passed: true,
			Detail: "no NAICS restriction specified",
		}, naicsUnconstrained
	}

	var primaryMatches, optionalMatches []string
	for _, code := range opp.NAICSCodes {
		if containsCode(p.NAICSPrimary, code) {
			primaryMatches = append(primaryMatches, code)
		} else if containsCode(p.NAICSOptional, code) {
			optionalMatches = append(optionalMatches, code)
		}
	}

	if len(primaryMatches) > 0 {
		return models.ConstraintCheck{
			Name:   CheckNAICS,
			Passed: true,
			Detail: "primary NAICS match: " + strings.Join(primaryMatches, ", "),
		}, naicsPrimary
	}
	if len(optionalMatches) > 0 {
		return models.ConstraintCheck{
			Name:   CheckNAICS,
			Passed: true,
			Detail: "optional NAICS match: " + strings.Join(optionalMatches, ", "),
		}, naicsOptional
	}

	shown := opp.NAICSCodes
	if len(shown) > 3 {
		shown = shown[:3]
	}
	return models.ConstraintCheck{
		Name:   CheckNAICS,
		Passed: false,
		Detail: "required NAICS " + strings.Join(shown, ", ") + " not in profile",
	}, naicsNone
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// securityTierRank orders security tiers so "strictly above" is comparable.
var securityTierRank = map[string]int{
	"IL2": 2, "IL3": 3, "IL4": 4, "IL5": 5, "IL6": 6,
	"SECRET": 7, "TS": 8, "TS/SCI": 9,
}

func checkSecurityPosture(opp models.Opportunity, p profile.EntityProfile) models.ConstraintCheck {
	required, source := requiredSecurityTier(opp)
	if required == "" {
		return models.ConstraintCheck{
			Name:   CheckSecurity,
			Passed: true,
			Detail: "no security posture requirement specified",
		}
	}

	highest := 0
	highestTier := ""
	for _, tier := range p.SecurityTiers {
		if rank := securityTierRank[strings.ToUpper(tier)]; rank > highest {
			highest = rank
			highestTier = strings.ToUpper(tier)
		}
	}

	if securityTierRank[required] > highest {
		return models.ConstraintCheck{
			Name:   CheckSecurity,
			Passed: false,
			Detail: fmt.Sprintf("requires %s (%s); profile supports up to %s", required, source, highestTier),
		}
	}

	return models.ConstraintCheck{
		Name:   CheckSecurity,
		Passed: true,
		Detail: fmt.Sprintf("requires %s; within supported tiers", required),
	}
}

// requiredSecurityTier resolves the opportunity's security requirement from
// the structured field first, then from free-text markers.
func requiredSecurityTier(opp models.Opportunity) (tier, source string) {
	if req := strings.ToUpper(strings.TrimSpace(opp.SecurityRequirement)); req != "" {
		if _, ok := securityTierRank[req]; ok {
			return req, "security_requirement field"
		}
	}

	textUpper := strings.ToUpper(opp.CombinedText())
	switch {
	case strings.Contains(textUpper, "TS/SCI"):
		return "TS/SCI", "opportunity text"
	case strings.Contains(textUpper, "TOP SECRET") || strings.Contains(textUpper, "TS CLEARANCE"):
		return "TS", "opportunity text"
	case strings.Contains(textUpper, "IL6") || strings.Contains(textUpper, "IMPACT LEVEL 6"):
		return "IL6", "opportunity text"
	case strings.Contains(textUpper, "IL5") || strings.Contains(textUpper, "IMPACT LEVEL 5"):
		return "IL5", "opportunity text"
	case strings.Contains(textUpper, "IL4"):
		return "IL4", "opportunity text"
	case strings.Contains(textUpper, "IL3"):
		return "IL3", "opportunity text"
	case strings.Contains(textUpper, "IL2"):
		return "IL2", "opportunity text"
	}
	return "", ""
}

// stateExclusions are phrases that geographically exclude the profile's
// home state, keyed by state code.
var stateExclusions = map[string][]string{
	"HI": {
		"excluding hawaii", "hawaii not eligible", "continental us only",
		"conus only",
	},
}

func checkLocation(opp models.Opportunity, p profile.EntityProfile) (models.ConstraintCheck, bool) {
	textLower := strings.ToLower(opp.CombinedText())

	for _, phrase := range stateExclusions[strings.ToUpper(p.Location.State)] {
		if strings.Contains(textLower, phrase) {
			return models.ConstraintCheck{
				Name:   CheckLocation,
				Passed: false,
				Detail: fmt.Sprintf("opportunity excludes %s (%q)", p.Location.State, phrase),
			}, false
		}
	}

	if isNHOSetAside(opp) && p.Location.NHOEligible {
		return models.ConstraintCheck{
			Name:   CheckLocation,
			Passed: true,
			Detail: "NHO set-aside with NHO-eligible profile (favorable)",
		}, true
	}

	return models.ConstraintCheck{
		Name:   CheckLocation,
		Passed: true,
		Detail: fmt.Sprintf("%s-based, geographically eligible", p.Location.State),
	}, false
}

func isNHOSetAside(opp models.Opportunity) bool {
	setAside := strings.ToLower(opp.SetAsideType)
	if strings.Contains(setAside, "nho") || strings.Contains(setAside, "native hawaiian") {
		return true
	}

	textLower := strings.ToLower(opp.CombinedText())
	for _, phrase := range []string{"native hawaiian organization", "nho set-aside", "nho-owned"} {
		if strings.Contains(textLower, phrase) {
			return true
		}
	}
	return false
}

// Certification requirement markers. 8(a) and HUBZone are the hard-blocker
// set: an unmet requirement there disqualifies outright.
var (
	eightAMarkers = []string{
		"8(a) only", "8a only", "sba 8(a)", "requires 8(a)", "must be 8(a) certified",
	}
	hubzoneMarkers = []string{
		"hubzone only", "hubzone required", "must be hubzone certified",
	}
)

func checkCertifications(opp models.Opportunity, p profile.EntityProfile) (models.ConstraintCheck, bool) {
	setAside := strings.ToLower(opp.SetAsideType)
	textLower := strings.ToLower(opp.CombinedText())

	requires8a := strings.Contains(setAside, "8(a)") || strings.Contains(setAside, "8a") ||
		containsAnyPhrase(textLower, eightAMarkers)
	requiresHubzone := strings.Contains(setAside, "hubzone") ||
		containsAnyPhrase(textLower, hubzoneMarkers)

	if requires8a && !p.HasCertification("8(a)") {
		return models.ConstraintCheck{
			Name:   CheckCertifications,
			Passed: false,
			Detail: "requires 8(a) certification (not held)",
		}, true
	}
	if requiresHubzone && !p.HasCertification("hubzone") {
		return models.ConstraintCheck{
			Name:   CheckCertifications,
			Passed: false,
			Detail: "requires HUBZone certification (not held)",
		}, true
	}

	requiresSDVOSB := strings.Contains(setAside, "sdvosb") || strings.Contains(textLower, "service-disabled veteran")
	requiresWOSB := strings.Contains(setAside, "wosb") || strings.Contains(textLower, "women-owned small business")

	if requiresSDVOSB && !p.HasCertification("sdvosb") {
		return models.ConstraintCheck{
			Name:   CheckCertifications,
			Passed: false,
			Detail: "requires SDVOSB certification (not held)",
		}, false
	}
	if requiresWOSB && !p.HasCertification("wosb") {
		return models.ConstraintCheck{
			Name:   CheckCertifications,
			Passed: false,
			Detail: "requires WOSB certification (not held)",
		}, false
	}

	if strings.Contains(setAside, "small business") || strings.Contains(textLower, "small business set-aside") {
		return models.ConstraintCheck{
			Name:   CheckCertifications,
			Passed: true,
			Detail: "small business set-aside (profile qualifies)",
		}, false
	}

	return models.ConstraintCheck{
		Name:   CheckCertifications,
		Passed: true,
		Detail: "no certification requirement",
	}, false
}

func containsAnyPhrase(haystack string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(haystack, phrase) {
			return true
		}
	}
	return false
}
