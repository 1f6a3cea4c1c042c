package fraud

// DocumentType categorizes an uploaded claim document
type DocumentType string

const (
	TypeMedicalReport DocumentType = "medical_report"
	TypePrescription  DocumentType = "prescription"
	TypeInvoice       DocumentType = "invoice"
	TypeLabResult     DocumentType = "lab_result"
	TypeOther         DocumentType = "other"

	// TypeMixed marks an aggregate built from several documents
	TypeMixed DocumentType = "mixed"
)

// RiskLevel buckets a legitimacy percentage
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// DocumentFeatures is the fixed-schema signal record extracted from one
// document's text. It is computed once at upload time and never mutated;
// the same schema doubles as the aggregate record (DocumentType "mixed").
type DocumentFeatures struct {
	DocumentType DocumentType `json:"document_type"`

	TextLength int `json:"text_length"`
	WordCount  int `json:"word_count"`

	HasDates        bool `json:"has_dates"`
	HasAmounts      bool `json:"has_amounts"`
	HasPhoneNumbers bool `json:"has_phone_numbers"`
	HasEmail        bool `json:"has_email"`
	HasSignature    bool `json:"has_signature"`
	HasStamp        bool `json:"has_stamp"`
	HasDoctorName   bool `json:"has_doctor_name"`
	HasHospitalName bool `json:"has_hospital_name"`
	HasPolicyNumber bool `json:"has_policy_number"`
	HasClaimNumber  bool `json:"has_claim_number"`

	// Keyword-hit counts from fixed vocabularies, one per distinct term found
	MedicalTermCount      int `json:"has_medical_terms"`
	PrescriptionTermCount int `json:"has_prescription_terms"`
	InvoiceTermCount      int `json:"has_invoice_terms"`

	// In [0,1]; 1.0 when fewer than two matches exist to compare
	DateConsistency   float64 `json:"date_consistency"`
	AmountConsistency float64 `json:"amount_consistency"`
}

// AnalysisResult is the per-claim fraud analysis output
type AnalysisResult struct {
	FraudScore      float64   `json:"fraud_score"`
	LegitPercentage float64   `json:"legit_percentage"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Indicators      []string  `json:"indicators"`
	Recommendations []string  `json:"recommendations"`
	Confidence      float64   `json:"confidence"`
}

// RiskLevelFor derives the risk bucket from a legitimacy percentage.
// The legit-percentage thresholds are canonical: >=70 low, >=40 medium,
// below that high.
func RiskLevelFor(legitPercentage float64) RiskLevel {
	switch {
	case legitPercentage >= 70:
		return RiskLow
	case legitPercentage >= 40:
		return RiskMedium
	default:
		return RiskHigh
	}
}
