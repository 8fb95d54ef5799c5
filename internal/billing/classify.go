package billing

import "strings"

// Bill type labels produced by classification.
const (
	TypeConsultation    = "Consultation"
	TypeReassignment    = "Reassignment"
	TypeSuperConsultant = "Super Consultant"
	TypeSlitTherapy     = "SLIT Therapy"
	TypeFollowup        = "Followup"
	TypeInpatient       = "IP"
	TypeOutpatient      = "OP"
	TypeLab             = "Lab"
	TypeRegistration    = "Registration"
	TypePharmacy        = "Pharmacy"
)

// Payment buckets used to aggregate collected amounts by channel.
const (
	BucketCash  = "cash"
	BucketCard  = "card"
	BucketUPI   = "upi"
	BucketNEFT  = "neft"
	BucketOther = "other"
)

// ClassifyBill resolves a bill's type from a priority-ordered set of
// heuristics; the first matching rule wins.
func ClassifyBill(b Bill) string {
	if t := strings.TrimSpace(b.BillType); t != "" {
		return t
	}
	if b.IsReassignment || strings.TrimSpace(b.ReassignmentID) != "" {
		return TypeReassignment
	}
	consultation := strings.ToLower(strings.TrimSpace(b.ConsultationType))
	if strings.HasPrefix(consultation, "superconsultant") {
		return TypeSuperConsultant
	}
	if strings.Contains(strings.ToLower(b.Description), "slit") {
		return TypeSlitTherapy
	}
	if t := classifyTypeField(b.Type); t != "" {
		return t
	}
	switch consultation {
	case "followup":
		return TypeFollowup
	case "ip":
		return TypeInpatient
	case "op":
		return TypeOutpatient
	}
	return TypeConsultation
}

// ClassifyTransaction resolves a transaction's type from its own fields,
// used when the transaction cannot be matched back to a bill.
func ClassifyTransaction(t Transaction) string {
	if strings.Contains(strings.ToLower(t.Description), "slit") {
		return TypeSlitTherapy
	}
	if typ := classifyTypeField(t.Type); typ != "" {
		return typ
	}
	return TypeConsultation
}

func classifyTypeField(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "slit", "slit_order", "slit-therapy", "slit_therapy":
		return TypeSlitTherapy
	case "lab", "lab_test", "diagnostics":
		return TypeLab
	case "registration":
		return TypeRegistration
	case "pharmacy":
		return TypePharmacy
	}
	return ""
}

// consultationFamily reports whether a bill type participates in the
// consultation-type filter: for these, a consultation-type filter other
// than "both" requires an exact match on the bill's own consultationType.
func consultationFamily(billType string) bool {
	switch billType {
	case TypeConsultation, TypeFollowup, TypeInpatient, TypeOutpatient, TypeSuperConsultant:
		return true
	}
	return false
}

// NormalizePayMode maps a free-form payment method string onto one of the
// five summary buckets by case-insensitive substring match.
func NormalizePayMode(method string) string {
	m := strings.ToLower(method)
	switch {
	case strings.Contains(m, "cash"):
		return BucketCash
	case strings.Contains(m, "card"), strings.Contains(m, "credit"), strings.Contains(m, "debit"):
		return BucketCard
	case strings.Contains(m, "upi"):
		return BucketUPI
	case strings.Contains(m, "neft"), strings.Contains(m, "imps"), strings.Contains(m, "net"):
		return BucketNEFT
	}
	return BucketOther
}
