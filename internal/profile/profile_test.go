package profile

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault_Validates(t *testing.T) {
	p := Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("built-in profile must validate: %v", err)
	}
	if p.SAM.ExpiryDate != time.Date(2026, 11, 11, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected SAM expiry: %v", p.SAM.ExpiryDate)
	}
	if !p.Location.NHOEligible {
		t.Fatal("expected NHO-eligible profile")
	}
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_SAM_ENTITY_ID", "ENV123456789")

	content := `
version: "2.0"
entity_type: for-profit_corporation
sam_registration:
  entity_id: ${TEST_SAM_ENTITY_ID}
  cage_code: 16RM8
  status: active
  expiry_date: 2026-11-11T00:00:00Z
naics_primary: ["541511"]
financial_capacity:
  min_award: 100000
  max_award: 5000000
  ideal_min: 500000
  ideal_max: 2000000
`
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.SAM.EntityID != "ENV123456789" {
		t.Fatalf("expected env expansion, got %s", p.SAM.EntityID)
	}
	if p.Version != "2.0" {
		t.Fatalf("expected version 2.0, got %s", p.Version)
	}
}

func TestLoad_RejectsInvalidProfile(t *testing.T) {
	content := "version: \"1.0\"\nentity_type: \"\"\n"
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected missing entity_type to be rejected")
	}
}

func TestValidate_IdealBandOutsideRange(t *testing.T) {
	p := Default()
	p.FinancialCapacity.IdealMax = 10_000_000

	if err := p.Validate(); err == nil {
		t.Fatal("expected ideal band outside hard range to be rejected")
	}
}

func TestHasCertification_Variants(t *testing.T) {
	p := Default()
	p.Certifications["8(a)"] = true
	p.Certifications["hubzone"] = true

	for _, name := range []string{"8(a)", "8a", "hubzone", "HUBZone", "HUBZONE"} {
		if !p.HasCertification(name) {
			t.Fatalf("expected HasCertification(%q) to be true", name)
		}
	}
	if p.HasCertification("sdvosb") {
		t.Fatal("sdvosb should not be held")
	}
	if p.HasCertification("unknown") {
		t.Fatal("unknown certification should not be held")
	}
}
