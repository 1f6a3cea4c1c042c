package fraud

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleMedicalReport = `City General Hospital
Patient: John Smith
Date: 12/03/2024
Policy Number: POL-2024-001

Diagnosis: acute appendicitis. Treatment: emergency surgery performed by
Dr. Adams. Prescription issued with dosage instructions. Follow-up
examination scheduled for 19/03/2024.

Total charges: $4500.50
Contact: billing@citygeneral.example or 555-123-4567

Signed and stamped by the attending physician.`

func TestExtractFeatures_MedicalReport(t *testing.T) {
	f := ExtractFeatures(sampleMedicalReport, TypeMedicalReport)

	assert.Equal(t, TypeMedicalReport, f.DocumentType)
	assert.Equal(t, len(sampleMedicalReport), f.TextLength)
	assert.Equal(t, len(strings.Fields(sampleMedicalReport)), f.WordCount)

	assert.True(t, f.HasDates)
	assert.True(t, f.HasAmounts)
	assert.True(t, f.HasPhoneNumbers)
	assert.True(t, f.HasEmail)
	assert.True(t, f.HasSignature)
	assert.True(t, f.HasStamp)
	assert.True(t, f.HasDoctorName)
	assert.True(t, f.HasHospitalName)
	assert.True(t, f.HasPolicyNumber)
	assert.False(t, f.HasClaimNumber)
}

func TestExtractFeatures_EmptyText(t *testing.T) {
	f := ExtractFeatures("", TypeOther)

	assert.Equal(t, 0, f.TextLength)
	assert.Equal(t, 0, f.WordCount)
	assert.False(t, f.HasDates)
	assert.False(t, f.HasSignature)
	assert.Equal(t, 0, f.MedicalTermCount)
	assert.Equal(t, 1.0, f.DateConsistency)
	assert.Equal(t, 1.0, f.AmountConsistency)
}

func TestExtractFeatures_TermCountsAreDistinct(t *testing.T) {
	// "diagnosis" repeats but counts once; "treatment" and "patient" add two more
	text := "diagnosis diagnosis diagnosis treatment patient"
	f := ExtractFeatures(text, TypeMedicalReport)
	assert.Equal(t, 3, f.MedicalTermCount)
}

func TestExtractFeatures_InvoiceTerms(t *testing.T) {
	text := "Invoice INV-17: total amount due includes tax and a discount on the balance"
	f := ExtractFeatures(text, TypeInvoice)

	// invoice, amount, total, due, balance, tax, discount
	assert.Equal(t, 7, f.InvoiceTermCount)
}

func TestExtractFeatures_PrescriptionTermsViaSubstring(t *testing.T) {
	// substring containment: "rx" also matches inside other words
	f := ExtractFeatures("Rx: one tablet daily from the pharmacy", TypePrescription)
	assert.GreaterOrEqual(t, f.PrescriptionTermCount, 3)
}

func TestConsistency_SingleMatchIsConsistent(t *testing.T) {
	f := ExtractFeatures("Visited on 01/02/2024 and paid $50", TypeOther)

	assert.True(t, f.HasDates)
	assert.True(t, f.HasAmounts)
	assert.Equal(t, 1.0, f.DateConsistency)
	assert.Equal(t, 1.0, f.AmountConsistency)
}

func TestConsistency_MultipleMatchesUsePlaceholder(t *testing.T) {
	f := ExtractFeatures("Admitted 01/02/2024, discharged 05/02/2024. Paid $100 then $250.", TypeOther)

	assert.Equal(t, placeholderConsistency, f.DateConsistency)
	assert.Equal(t, placeholderConsistency, f.AmountConsistency)
}

func TestAmountPattern_RupeeNotation(t *testing.T) {
	f := ExtractFeatures("Consultation fee Rs. 1500", TypeInvoice)
	assert.True(t, f.HasAmounts)
}

func TestExtractFeatures_CaseInsensitiveKeywords(t *testing.T) {
	f := ExtractFeatures("SIGNED at the CLINIC under POLICY number 9", TypeOther)

	assert.True(t, f.HasSignature)
	assert.True(t, f.HasHospitalName)
	assert.True(t, f.HasPolicyNumber)
}
