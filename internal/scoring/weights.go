package scoring

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/vtkl/grant-radar/internal/models"
	"gopkg.in/yaml.v3"
)

// sumTolerance is the allowed deviation from 1.0 when validating weights.
const sumTolerance = 0.001

// ScoringWeights holds the five dimension weights. Construct through
// NewWeights or LoadWeights; a validated instance is immutable by
// convention and safe to share across goroutines.
type ScoringWeights struct {
	MissionFit         float64 `json:"mission_fit" yaml:"mission_fit"`
	Eligibility        float64 `json:"eligibility" yaml:"eligibility"`
	TechnicalAlignment float64 `json:"technical_alignment" yaml:"technical_alignment"`
	FinancialViability float64 `json:"financial_viability" yaml:"financial_viability"`
	StrategicValue     float64 `json:"strategic_value" yaml:"strategic_value"`
	Version            string  `json:"version" yaml:"version"`
}

// NewWeights validates and returns a weight set. Weights must be
// non-negative and sum to 1.0 within tolerance; invalid sets are rejected,
// never normalized.
func NewWeights(missionFit, eligibility, technicalAlignment, financialViability, strategicValue float64, version string) (ScoringWeights, error) {
	w := ScoringWeights{
		MissionFit:         missionFit,
		Eligibility:        eligibility,
		TechnicalAlignment: technicalAlignment,
		FinancialViability: financialViability,
		StrategicValue:     strategicValue,
		Version:            version,
	}
	if err := w.Validate(); err != nil {
		return ScoringWeights{}, err
	}
	return w, nil
}

// Validate enforces the non-negativity and sum-to-1.0 invariants.
func (w ScoringWeights) Validate() error {
	for _, entry := range []struct {
		name  string
		value float64
	}{
		{"mission_fit", w.MissionFit},
		{"eligibility", w.Eligibility},
		{"technical_alignment", w.TechnicalAlignment},
		{"financial_viability", w.FinancialViability},
		{"strategic_value", w.StrategicValue},
	} {
		if entry.value < 0 || entry.value > 1 {
			return models.NewConfigurationError("weight %s must be between 0 and 1, got %v", entry.name, entry.value)
		}
	}

	sum := w.MissionFit + w.Eligibility + w.TechnicalAlignment + w.FinancialViability + w.StrategicValue
	if math.Abs(sum-1.0) > sumTolerance {
		return models.NewConfigurationError(
			"weights must sum to 1.0, got %.3f (mf=%v e=%v ta=%v fv=%v sv=%v)",
			sum, w.MissionFit, w.Eligibility, w.TechnicalAlignment, w.FinancialViability, w.StrategicValue)
	}
	return nil
}

// DefaultWeights is the standard 25/25/20/15/15 preset.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		MissionFit:         0.25,
		Eligibility:        0.25,
		TechnicalAlignment: 0.20,
		FinancialViability: 0.15,
		StrategicValue:     0.15,
		Version:            "1.0",
	}
}

// EqualWeights weighs every dimension the same.
func EqualWeights() ScoringWeights {
	return ScoringWeights{
		MissionFit:         0.20,
		Eligibility:        0.20,
		TechnicalAlignment: 0.20,
		FinancialViability: 0.20,
		StrategicValue:     0.20,
		Version:            "equal_1.0",
	}
}

// EligibilityFocusedWeights doubles down on the eligibility dimension.
func EligibilityFocusedWeights() ScoringWeights {
	return ScoringWeights{
		MissionFit:         0.20,
		Eligibility:        0.40,
		TechnicalAlignment: 0.15,
		FinancialViability: 0.15,
		StrategicValue:     0.10,
		Version:            "eligibility_focused_1.0",
	}
}

// MissionFocusedWeights prioritizes mission alignment.
func MissionFocusedWeights() ScoringWeights {
	return ScoringWeights{
		MissionFit:         0.40,
		Eligibility:        0.20,
		TechnicalAlignment: 0.20,
		FinancialViability: 0.10,
		StrategicValue:     0.10,
		Version:            "mission_focused_1.0",
	}
}

// Presets maps preset names to weight sets, for config files and the API.
func Presets() map[string]ScoringWeights {
	return map[string]ScoringWeights{
		"default":             DefaultWeights(),
		"equal":               EqualWeights(),
		"eligibility_focused": EligibilityFocusedWeights(),
		"mission_focused":     MissionFocusedWeights(),
	}
}

// LoadWeights reads a weight set from a JSON or YAML file and applies the
// same validation as NewWeights. Malformed or non-summing files are
// rejected, not defaulted.
func LoadWeights(path string) (ScoringWeights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ScoringWeights{}, err
	}

	var w ScoringWeights
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &w); err != nil {
			return ScoringWeights{}, models.NewConfigurationError("weights %s: %v", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &w); err != nil {
			return ScoringWeights{}, models.NewConfigurationError("weights %s: %v", path, err)
		}
	default:
		return ScoringWeights{}, models.NewConfigurationError("weights %s: unsupported format %q (use .json, .yaml, or .yml)", path, filepath.Ext(path))
	}

	if err := w.Validate(); err != nil {
		return ScoringWeights{}, err
	}
	return w, nil
}
