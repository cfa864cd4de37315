package profile

import (
	"os"
	"time"

	"github.com/vtkl/grant-radar/internal/models"
	"gopkg.in/yaml.v3"
)

// SAMRegistration describes the entity's SAM.gov registration.
type SAMRegistration struct {
	EntityID   string    `yaml:"entity_id"`
	CAGECode   string    `yaml:"cage_code"`
	Status     string    `yaml:"status"` // "active" or anything else
	ExpiryDate time.Time `yaml:"expiry_date"`
}

// Location is the entity's home state/city plus location-derived set-aside
// eligibility (NHO for Hawaii-based entities).
type Location struct {
	State       string `yaml:"state"`
	City        string `yaml:"city"`
	NHOEligible bool   `yaml:"nho_eligible"`
}

// FinancialCapacity is the comfortable award range. IdealMin..IdealMax is
// the sub-band that scores full financial-viability credit; MinAward and
// MaxAward are the hard floor/ceiling where credit decays to zero.
type FinancialCapacity struct {
	MinAward float64 `yaml:"min_award"`
	MaxAward float64 `yaml:"max_award"`
	IdealMin float64 `yaml:"ideal_min"`
	IdealMax float64 `yaml:"ideal_max"`
}

// EntityProfile is the static VTKL configuration consulted by the
// eligibility filter and scoring engine. Treat as immutable after load.
type EntityProfile struct {
	Version           string            `yaml:"version"`
	EntityType        string            `yaml:"entity_type"`
	SAM               SAMRegistration   `yaml:"sam_registration"`
	NAICSPrimary      []string          `yaml:"naics_primary"`
	NAICSOptional     []string          `yaml:"naics_optional"`
	SecurityTiers     []string          `yaml:"security_tiers"`
	Location          Location          `yaml:"location"`
	Certifications    map[string]bool   `yaml:"certifications"`
	FinancialCapacity FinancialCapacity `yaml:"financial_capacity"`
}

// Default returns the built-in VTKL profile.
func Default() EntityProfile {
	return EntityProfile{
		Version:    "1.0",
		EntityType: "for-profit_corporation",
		SAM: SAMRegistration{
			EntityID:   "ML49GKWHGCX6",
			CAGECode:   "16RM8",
			Status:     "active",
			ExpiryDate: time.Date(2026, 11, 11, 0, 0, 0, 0, time.UTC),
		},
		NAICSPrimary:  []string{"541511", "541512", "541990"},
		NAICSOptional: []string{"541715", "518210"},
		SecurityTiers: []string{"IL2", "IL3", "IL4"},
		Location: Location{
			State:       "HI",
			City:        "Honolulu",
			NHOEligible: true,
		},
		Certifications: map[string]bool{
			"8(a)":    false,
			"hubzone": false,
			"sdvosb":  false,
			"wosb":    false,
		},
		FinancialCapacity: FinancialCapacity{
			MinAward: 100_000,
			MaxAward: 5_000_000,
			IdealMin: 500_000,
			IdealMax: 2_000_000,
		},
	}
}

// Load reads an EntityProfile from a YAML file. Environment variables in the
// file content (e.g. ${SAM_ENTITY_ID}) are expanded before parsing.
func Load(path string) (EntityProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EntityProfile{}, err
	}

	expanded := os.ExpandEnv(string(data))

	var p EntityProfile
	if err := yaml.Unmarshal([]byte(expanded), &p); err != nil {
		return EntityProfile{}, models.NewConfigurationError("profile %s: %v", path, err)
	}

	if err := p.Validate(); err != nil {
		return EntityProfile{}, err
	}
	return p, nil
}

// Validate rejects malformed profiles. Missing optional fields are fine;
// the checks below are the ones evaluation cannot proceed without.
func (p EntityProfile) Validate() error {
	if p.EntityType == "" {
		return models.NewConfigurationError("profile: entity_type is required")
	}
	if p.Version == "" {
		return models.NewConfigurationError("profile: version is required")
	}
	if len(p.NAICSPrimary) == 0 {
		return models.NewConfigurationError("profile: at least one primary NAICS code is required")
	}
	if p.SAM.ExpiryDate.IsZero() {
		return models.NewConfigurationError("profile: sam_registration.expiry_date is required")
	}
	fc := p.FinancialCapacity
	if fc.MinAward < 0 || fc.MaxAward < fc.MinAward {
		return models.NewConfigurationError("profile: financial_capacity range is invalid (min=%.0f max=%.0f)", fc.MinAward, fc.MaxAward)
	}
	if fc.IdealMin < fc.MinAward || fc.IdealMax > fc.MaxAward || fc.IdealMax < fc.IdealMin {
		return models.NewConfigurationError("profile: ideal band %.0f-%.0f must sit inside %.0f-%.0f", fc.IdealMin, fc.IdealMax, fc.MinAward, fc.MaxAward)
	}
	return nil
}

// HasCertification reports whether the profile holds the named
// certification. Lookup is tolerant of the common spelling variants.
func (p EntityProfile) HasCertification(name string) bool {
	if held, ok := p.Certifications[name]; ok {
		return held
	}
	switch name {
	case "8a":
		return p.Certifications["8(a)"]
	case "8(a)":
		return p.Certifications["8a"]
	case "HUBZone", "HUBZONE":
		return p.Certifications["hubzone"]
	}
	return false
}
