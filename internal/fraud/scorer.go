package fraud

import (
	"github.com/medguard/claim-portal/pkg/logger"
	"go.uber.org/zap"
)

// neutralScore is returned when there is no evidence either way
const neutralScore = 50.0

// Scorer produces a legitimacy percentage in [0,100] for a set of document
// feature records. With a trained model it runs classifier inference over the
// aggregate; without one, or whenever inference fails, it falls back to
// rule-based scoring. Score never returns an error: the fraud workflow must
// always produce a number.
type Scorer struct {
	model *Model
}

// NewScorer creates a scorer. model may be nil, selecting rule-based scoring.
func NewScorer(model *Model) *Scorer {
	return &Scorer{model: model}
}

// NewScorerFromPath loads the model artifact at path if it exists. A missing
// or unreadable artifact degrades to rule-based scoring.
func NewScorerFromPath(path string) *Scorer {
	model, err := LoadModel(path)
	if err != nil {
		logger.Info("No trained fraud model available, using rule-based scoring",
			zap.String("path", path),
			zap.Error(err),
		)
		return &Scorer{}
	}

	logger.Info("Loaded fraud model", zap.String("path", path))
	return &Scorer{model: model}
}

// HasModel reports whether a trained model is loaded
func (s *Scorer) HasModel() bool {
	return s.model != nil
}

// Score returns the legitimacy percentage for the given documents
func (s *Scorer) Score(docs []DocumentFeatures) float64 {
	if len(docs) == 0 {
		return neutralScore
	}

	if s.model == nil {
		return s.ruleBasedScore(docs)
	}

	agg := AggregateFeatures(docs)
	probability, err := s.model.PredictLegitProbability(FeatureVector(agg))
	if err != nil {
		logger.Warn("Model inference failed, falling back to rule-based scoring", zap.Error(err))
		return s.ruleBasedScore(docs)
	}

	return clamp(probability*100, 0, 100)
}

// ruleBasedScore walks each document and accumulates fixed increments for
// trust signals and penalties for suspicion signals, starting from neutral.
func (s *Scorer) ruleBasedScore(docs []DocumentFeatures) float64 {
	score := neutralScore

	// Positive indicators
	for _, doc := range docs {
		if doc.HasSignature {
			score += 5
		}
		if doc.HasStamp {
			score += 5
		}
		if doc.HasDoctorName {
			score += 5
		}
		if doc.HasHospitalName {
			score += 5
		}
		if doc.HasPolicyNumber {
			score += 3
		}
		if doc.HasClaimNumber {
			score += 3
		}
		if doc.MedicalTermCount > 3 {
			score += 5
		}
		if doc.TextLength > 500 {
			score += 3
		}
	}

	// Negative indicators
	for _, doc := range docs {
		if doc.TextLength < 50 {
			score -= 10 // very short documents are suspicious
		}
		if !doc.HasDates {
			score -= 5
		}
		if !doc.HasAmounts && doc.DocumentType == TypeInvoice {
			score -= 10
		}
		if doc.DateConsistency < 0.5 {
			score -= 10
		}
		if doc.AmountConsistency < 0.5 {
			score -= 10
		}
	}

	return clamp(score, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
