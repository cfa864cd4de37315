package scoring

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vtkl/grant-radar/internal/models"
)

func TestNewWeights_Valid(t *testing.T) {
	w, err := NewWeights(0.25, 0.25, 0.20, 0.15, 0.15, "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Version != "test" {
		t.Fatalf("expected version test, got %s", w.Version)
	}
}

func TestNewWeights_SumBelowOneRejected(t *testing.T) {
	_, err := NewWeights(0.25, 0.25, 0.20, 0.15, 0.14, "bad")
	if err == nil {
		t.Fatal("expected error for weights summing to 0.99")
	}
	var cfgErr *models.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %T", err)
	}
}

func TestNewWeights_NegativeRejected(t *testing.T) {
	_, err := NewWeights(-0.1, 0.4, 0.3, 0.2, 0.2, "bad")
	if err == nil {
		t.Fatal("expected error for negative weight")
	}
}

func TestNewWeights_WithinTolerance(t *testing.T) {
	if _, err := NewWeights(0.2501, 0.25, 0.20, 0.15, 0.15, "ok"); err != nil {
		t.Fatalf("0.0001 deviation should be within tolerance: %v", err)
	}
}

func TestPresets_AllValidate(t *testing.T) {
	for name, w := range Presets() {
		if err := w.Validate(); err != nil {
			t.Fatalf("preset %s is invalid: %v", name, err)
		}
		if w.Version == "" {
			t.Fatalf("preset %s has no version", name)
		}
	}
}

func TestLoadWeights_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	content := `{"mission_fit":0.4,"eligibility":0.2,"technical_alignment":0.2,"financial_viability":0.1,"strategic_value":0.1,"version":"file_1.0"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := LoadWeights(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.MissionFit != 0.4 || w.Version != "file_1.0" {
		t.Fatalf("unexpected weights: %+v", w)
	}
}

func TestLoadWeights_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	content := "mission_fit: 0.2\neligibility: 0.2\ntechnical_alignment: 0.2\nfinancial_viability: 0.2\nstrategic_value: 0.2\nversion: yaml_1.0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := LoadWeights(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Version != "yaml_1.0" {
		t.Fatalf("unexpected version: %s", w.Version)
	}
}

func TestLoadWeights_NonSummingFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	content := `{"mission_fit":0.9,"eligibility":0.9,"technical_alignment":0.2,"financial_viability":0.1,"strategic_value":0.1,"version":"bad"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadWeights(path); err == nil {
		t.Fatal("expected non-summing weights file to be rejected")
	}
}

func TestLoadWeights_MalformedFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadWeights(path); err == nil {
		t.Fatal("expected malformed weights file to be rejected")
	}
}

func TestLoadWeights_UnsupportedExtensionRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.toml")
	if err := os.WriteFile(path, []byte("mission_fit = 0.2"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadWeights(path); err == nil {
		t.Fatal("expected unsupported format to be rejected")
	}
}
