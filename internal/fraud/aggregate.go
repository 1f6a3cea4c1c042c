package fraud

// AggregateFeatures combines the feature records of all documents attached
// to one claim into a single record. Integer fields are summed, booleans
// OR'd, and the two consistency scores folded with a running pairwise
// average. The pairwise average is not a true mean and depends on document
// order; it is kept for compatibility with historical scores (documents are
// given in upload order).
func AggregateFeatures(docs []DocumentFeatures) DocumentFeatures {
	agg := DocumentFeatures{
		DocumentType:      TypeMixed,
		DateConsistency:   1.0,
		AmountConsistency: 1.0,
	}

	for _, doc := range docs {
		agg.TextLength += doc.TextLength
		agg.WordCount += doc.WordCount
		agg.MedicalTermCount += doc.MedicalTermCount
		agg.PrescriptionTermCount += doc.PrescriptionTermCount
		agg.InvoiceTermCount += doc.InvoiceTermCount

		agg.HasDates = agg.HasDates || doc.HasDates
		agg.HasAmounts = agg.HasAmounts || doc.HasAmounts
		agg.HasPhoneNumbers = agg.HasPhoneNumbers || doc.HasPhoneNumbers
		agg.HasEmail = agg.HasEmail || doc.HasEmail
		agg.HasSignature = agg.HasSignature || doc.HasSignature
		agg.HasStamp = agg.HasStamp || doc.HasStamp
		agg.HasDoctorName = agg.HasDoctorName || doc.HasDoctorName
		agg.HasHospitalName = agg.HasHospitalName || doc.HasHospitalName
		agg.HasPolicyNumber = agg.HasPolicyNumber || doc.HasPolicyNumber
		agg.HasClaimNumber = agg.HasClaimNumber || doc.HasClaimNumber

		agg.DateConsistency = (agg.DateConsistency + doc.DateConsistency) / 2
		agg.AmountConsistency = (agg.AmountConsistency + doc.AmountConsistency) / 2
	}

	return agg
}
