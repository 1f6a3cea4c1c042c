package fraud

import (
	"regexp"
	"strings"
)

var (
	datePattern   = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}`)
	amountPattern = regexp.MustCompile(`(?i)\$\d+\.?\d*|Rs\.?\s*\d+`)
	phonePattern  = regexp.MustCompile(`\d{3}[-.]?\d{3}[-.]?\d{4}`)
	emailPattern  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	signaturePattern = regexp.MustCompile(`(?i)signature|signed|authorized`)
	stampPattern     = regexp.MustCompile(`(?i)stamp|seal|official`)
	doctorPattern    = regexp.MustCompile(`(?i)Dr\.|Doctor|Physician|MD|MBBS`)
	hospitalPattern  = regexp.MustCompile(`(?i)Hospital|Clinic|Medical Center|Healthcare`)
	policyPattern    = regexp.MustCompile(`(?i)Policy|POL-|Policy No|Policy Number`)
	claimPattern     = regexp.MustCompile(`(?i)Claim|CLM-|Claim No|Claim Number`)
)

var medicalTerms = []string{
	"diagnosis", "treatment", "symptom", "disease", "condition",
	"medication", "prescription", "dosage", "therapy", "surgery",
	"procedure", "examination", "test", "result", "patient",
}

var prescriptionTerms = []string{
	"prescription", "rx", "medication", "drug", "tablet", "capsule",
	"dosage", "frequency", "duration", "pharmacy", "pharmacist",
}

var invoiceTerms = []string{
	"invoice", "bill", "receipt", "amount", "total", "charge",
	"payment", "due", "balance", "tax", "discount", "subtotal",
}

// placeholderConsistency is returned when two or more dates/amounts exist.
// A chronological/numeric check could sharpen this; the insufficient-evidence
// default of 1.0 must stay as is.
const placeholderConsistency = 0.8

// ExtractFeatures computes the feature record for one document's extracted
// text. Pure function of its inputs.
func ExtractFeatures(text string, docType DocumentType) DocumentFeatures {
	return DocumentFeatures{
		DocumentType: docType,

		TextLength: len(text),
		WordCount:  countWords(text),

		HasDates:        datePattern.MatchString(text),
		HasAmounts:      amountPattern.MatchString(text),
		HasPhoneNumbers: phonePattern.MatchString(text),
		HasEmail:        emailPattern.MatchString(text),
		HasSignature:    signaturePattern.MatchString(text),
		HasStamp:        stampPattern.MatchString(text),
		HasDoctorName:   doctorPattern.MatchString(text),
		HasHospitalName: hospitalPattern.MatchString(text),
		HasPolicyNumber: policyPattern.MatchString(text),
		HasClaimNumber:  claimPattern.MatchString(text),

		MedicalTermCount:      countTerms(text, medicalTerms),
		PrescriptionTermCount: countTerms(text, prescriptionTerms),
		InvoiceTermCount:      countTerms(text, invoiceTerms),

		DateConsistency:   consistencyScore(datePattern.FindAllString(text, -1)),
		AmountConsistency: consistencyScore(amountPattern.FindAllString(text, -1)),
	}
}

func countWords(text string) int {
	return len(strings.Fields(text))
}

// countTerms counts distinct vocabulary terms present anywhere in the text,
// one increment per term regardless of how often it occurs.
func countTerms(text string, terms []string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, term := range terms {
		if strings.Contains(lower, term) {
			count++
		}
	}
	return count
}

// consistencyScore returns 1.0 with fewer than two matches (insufficient
// evidence, assume consistent) and the fixed placeholder otherwise.
func consistencyScore(matches []string) float64 {
	if len(matches) < 2 {
		return 1.0
	}
	return placeholderConsistency
}
