package fraud

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// documentTypeOrdinal maps document categories to the fixed numeric encoding
// used as the first element of the model feature vector.
var documentTypeOrdinal = map[DocumentType]float64{
	TypeMedicalReport: 1.0,
	TypePrescription:  0.8,
	TypeInvoice:       0.6,
	TypeLabResult:     0.7,
	TypeOther:         0.5,
}

// vectorSize is the doc-type ordinal plus the 17 named features
const vectorSize = 18

// Model is a trained fraud classifier artifact: a fitted standard scaler and
// logistic-regression weights over the fixed feature vector. It is loaded
// once at startup and shared read-only across requests.
type Model struct {
	Means   []float64 `json:"means"`
	Scales  []float64 `json:"scales"`
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// LoadModel reads a model artifact from disk. A missing file is a normal
// condition (rule-based scoring applies) and is reported as os.ErrNotExist.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", path, err)
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", path, err)
	}

	return &m, nil
}

func (m *Model) validate() error {
	if len(m.Means) != vectorSize || len(m.Scales) != vectorSize || len(m.Weights) != vectorSize {
		return fmt.Errorf("expected %d-element scaler and weights, got means=%d scales=%d weights=%d",
			vectorSize, len(m.Means), len(m.Scales), len(m.Weights))
	}
	for i, s := range m.Scales {
		if s == 0 {
			return fmt.Errorf("zero scale at index %d", i)
		}
	}
	return nil
}

// FeatureVector encodes a feature record into the fixed-order numeric vector:
// document-type ordinal first, then the 17 features with booleans as 0/1.
func FeatureVector(f DocumentFeatures) []float64 {
	ordinal, ok := documentTypeOrdinal[f.DocumentType]
	if !ok {
		ordinal = documentTypeOrdinal[TypeOther]
	}

	return []float64{
		ordinal,
		float64(f.TextLength),
		float64(f.WordCount),
		boolToFloat(f.HasDates),
		boolToFloat(f.HasAmounts),
		boolToFloat(f.HasPhoneNumbers),
		boolToFloat(f.HasEmail),
		float64(f.MedicalTermCount),
		float64(f.PrescriptionTermCount),
		float64(f.InvoiceTermCount),
		f.DateConsistency,
		f.AmountConsistency,
		boolToFloat(f.HasSignature),
		boolToFloat(f.HasStamp),
		boolToFloat(f.HasDoctorName),
		boolToFloat(f.HasHospitalName),
		boolToFloat(f.HasPolicyNumber),
		boolToFloat(f.HasClaimNumber),
	}
}

// PredictLegitProbability scales the vector and returns the probability of
// the legit class.
func (m *Model) PredictLegitProbability(vector []float64) (float64, error) {
	if len(vector) != vectorSize {
		return 0, fmt.Errorf("expected %d-element feature vector, got %d", vectorSize, len(vector))
	}
	if len(m.Means) != len(vector) || len(m.Scales) != len(vector) || len(m.Weights) != len(vector) {
		return 0, fmt.Errorf("model shape mismatch: means=%d scales=%d weights=%d for %d-element vector",
			len(m.Means), len(m.Scales), len(m.Weights), len(vector))
	}

	z := m.Bias
	for i, v := range vector {
		scaled := (v - m.Means[i]) / m.Scales[i]
		z += m.Weights[i] * scaled
	}

	return 1.0 / (1.0 + math.Exp(-z)), nil
}

func boolToFloat(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
