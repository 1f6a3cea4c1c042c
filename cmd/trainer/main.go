package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/medguard/claim-portal/internal/extract"
	"github.com/medguard/claim-portal/internal/fraud"
	"github.com/medguard/claim-portal/pkg/logger"
)

const (
	learningRate = 0.1
	epochs       = 2000
)

func main() {
	dataDir := flag.String("data", "training-data", "directory of PDF documents to train on")
	outPath := flag.String("out", "models/fraud_model.json", "path for the model artifact")
	docType := flag.String("type", "medical_report", "document type assigned to the training PDFs")
	flag.Parse()

	if err := logger.Init("development"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Get().Sync()

	if err := run(*dataDir, *outPath, fraud.DocumentType(*docType)); err != nil {
		logger.Get().Fatal("Training failed", zap.Error(err))
	}
}

func run(dataDir, outPath string, docType fraud.DocumentType) error {
	vectors, labels, err := collectTrainingData(dataDir, docType)
	if err != nil {
		return err
	}
	if len(vectors) == 0 {
		return fmt.Errorf("no usable PDF documents in %s", dataDir)
	}

	legit := 0
	for _, y := range labels {
		if y == 1 {
			legit++
		}
	}
	logger.Info("Training data collected",
		zap.Int("documents", len(vectors)),
		zap.Int("legit", legit),
		zap.Int("fraud", len(vectors)-legit))

	model := fit(vectors, labels)

	accuracy := evaluate(model, vectors, labels)
	logger.Info("Model fitted", zap.Float64("train_accuracy", accuracy))

	if err := writeArtifact(model, outPath); err != nil {
		return err
	}
	logger.Info("Model artifact written", zap.String("path", outPath))

	return nil
}

// collectTrainingData extracts a feature vector and heuristic label from
// every readable PDF under dataDir
func collectTrainingData(dataDir string, docType fraud.DocumentType) ([][]float64, []float64, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	extractor := extract.NewExtractor()

	var vectors [][]float64
	var labels []float64

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".pdf") {
			continue
		}

		path := filepath.Join(dataDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping unreadable file", zap.String("file", path), zap.Error(err))
			continue
		}

		text := extractor.Extract(data, "application/pdf", entry.Name())
		features := fraud.ExtractFeatures(text, docType)

		label := inferLabel(features)
		vectors = append(vectors, fraud.FeatureVector(features))
		labels = append(labels, label)

		logger.Info("Processed document",
			zap.String("file", entry.Name()),
			zap.Int("word_count", features.WordCount),
			zap.Bool("legit", label == 1))
	}

	return vectors, labels, nil
}

// inferLabel scores a document's features heuristically; documents are not
// hand-labeled, so strong authenticity markers stand in for the legit class
func inferLabel(f fraud.DocumentFeatures) float64 {
	score := 0

	if f.HasSignature {
		score += 2
	}
	if f.HasStamp {
		score += 2
	}
	if f.HasDoctorName {
		score += 2
	}
	if f.HasHospitalName {
		score += 2
	}
	if f.MedicalTermCount > 5 {
		score += 2
	}
	if f.TextLength > 500 {
		score++
	}
	if f.HasDates {
		score++
	}
	if f.HasAmounts {
		score++
	}

	if f.TextLength < 100 {
		score -= 3
	}
	if !f.HasDates {
		score -= 2
	}
	if f.DateConsistency < 0.5 {
		score -= 2
	}

	if score >= 3 {
		return 1
	}
	return 0
}

// fit standardizes the vectors and trains logistic regression by batch
// gradient descent
func fit(vectors [][]float64, labels []float64) *fraud.Model {
	n := len(vectors)
	dim := len(vectors[0])

	means := make([]float64, dim)
	scales := make([]float64, dim)

	for j := 0; j < dim; j++ {
		sum := 0.0
		for i := 0; i < n; i++ {
			sum += vectors[i][j]
		}
		means[j] = sum / float64(n)

		variance := 0.0
		for i := 0; i < n; i++ {
			d := vectors[i][j] - means[j]
			variance += d * d
		}
		scales[j] = math.Sqrt(variance / float64(n))
		if scales[j] == 0 {
			// constant feature, leave it centered but unscaled
			scales[j] = 1
		}
	}

	scaled := make([][]float64, n)
	for i := 0; i < n; i++ {
		scaled[i] = make([]float64, dim)
		for j := 0; j < dim; j++ {
			scaled[i][j] = (vectors[i][j] - means[j]) / scales[j]
		}
	}

	weights := make([]float64, dim)
	bias := 0.0

	for epoch := 0; epoch < epochs; epoch++ {
		gradW := make([]float64, dim)
		gradB := 0.0

		for i := 0; i < n; i++ {
			z := bias
			for j := 0; j < dim; j++ {
				z += weights[j] * scaled[i][j]
			}
			p := 1.0 / (1.0 + math.Exp(-z))
			err := p - labels[i]

			for j := 0; j < dim; j++ {
				gradW[j] += err * scaled[i][j]
			}
			gradB += err
		}

		for j := 0; j < dim; j++ {
			weights[j] -= learningRate * gradW[j] / float64(n)
		}
		bias -= learningRate * gradB / float64(n)
	}

	return &fraud.Model{
		Means:   means,
		Scales:  scales,
		Weights: weights,
		Bias:    bias,
	}
}

func evaluate(model *fraud.Model, vectors [][]float64, labels []float64) float64 {
	correct := 0
	for i, v := range vectors {
		p, err := model.PredictLegitProbability(v)
		if err != nil {
			continue
		}
		predicted := 0.0
		if p >= 0.5 {
			predicted = 1.0
		}
		if predicted == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(vectors))
}

func writeArtifact(model *fraud.Model, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model artifact: %w", err)
	}

	return nil
}
