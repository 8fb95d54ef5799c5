package billing

import (
	"math"
	"sort"
	"strings"
	"time"
)

// amountTolerance is the equality tolerance used when deduplicating the
// alternate representations of the same refund.
const amountTolerance = 0.01

// Reconcile merges bill records and flat transaction records into two
// deduplicated, date-filtered ledgers: payments collected and refunds
// issued, plus aggregate summary totals. It is a pure function: calling it
// twice with identical inputs produces identical output, and a malformed
// record is skipped rather than aborting the report. Upstream date
// filtering is treated as a coarse pre-filter only; every date boundary is
// re-validated here.
func Reconcile(bills []Bill, transactions []Transaction, f Filter) Report {
	r := f.dayRange()
	var report Report
	report.Payments = make([]LedgerEntry, 0)
	report.Refunds = make([]LedgerEntry, 0)

	billTypeByInvoice := make(map[string]string, len(bills))

	for _, b := range bills {
		if skipCenter(f.CenterID, b.CenterID) {
			continue
		}
		billType := ClassifyBill(b)
		if b.InvoiceNumber != "" {
			billTypeByInvoice[b.InvoiceNumber] = billType
		}
		if skipByConsultationFilter(f.ConsultationType, billType, b.ConsultationType) {
			continue
		}

		collectPayments(&report, b, billType, r)
		collectRefunds(&report, b, billType, r)
		countCancellation(&report.Summary, b, r)
	}

	for _, t := range transactions {
		if skipCenter(f.CenterID, t.CenterID) {
			continue
		}
		collectTransactionRefund(&report, t, billTypeByInvoice, r)
	}

	sort.SliceStable(report.Payments, func(i, j int) bool {
		return report.Payments[i].Date.Before(report.Payments[j].Date)
	})
	sort.SliceStable(report.Refunds, func(i, j int) bool {
		return report.Refunds[i].Date.Before(report.Refunds[j].Date)
	})

	report.Summary.TotalCollected = round2(report.Summary.TotalCollected)
	report.Summary.TotalRefund = round2(report.Summary.TotalRefund)
	report.Summary.NetCollected = round2(report.Summary.TotalCollected - report.Summary.TotalRefund)
	report.Summary.RefundedCount = len(report.Refunds)
	report.Summary.RefundedAmount = report.Summary.TotalRefund
	report.Summary.CancelledAmount = round2(report.Summary.CancelledAmount)
	return report
}

func skipCenter(filterCenter, recordCenter string) bool {
	return filterCenter != "" && recordCenter != "" && filterCenter != recordCenter
}

func skipByConsultationFilter(filter, billType, consultationType string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" || filter == "both" {
		return false
	}
	if !consultationFamily(billType) {
		return false
	}
	return !strings.EqualFold(strings.TrimSpace(consultationType), filter)
}

// collectPayments extracts payment ledger entries for one bill, preferring
// structured payment history and falling back to synthetic entries built
// from the bill's own paid amount.
func collectPayments(report *Report, b Bill, billType string, r dateRange) {
	emitted := 0
	emit := func(amount float64, when time.Time, method string) {
		if amount <= 0 || !r.contains(when) {
			return
		}
		report.Payments = append(report.Payments, LedgerEntry{
			Date:          when,
			PatientID:     b.PatientID,
			PatientName:   b.PatientName,
			UserName:      orNA(b.GeneratedBy),
			ReceiptNumber: b.InvoiceNumber,
			PayMode:       orNA(method),
			Amount:        round2(amount),
			BillType:      billType,
		})
		addToBucket(&report.Summary, method, amount)
		emitted++
	}

	billDate, billDateOK := b.fallbackDate()

	for _, entry := range b.PaymentHistory {
		status := strings.ToLower(strings.TrimSpace(entry.Status))
		if status == "refunded" || entry.Refund != nil {
			continue
		}
		if status == "cancelled" {
			continue
		}
		when, ok := firstWhen(entry.Date, entry.PaidAt, entry.CreatedAt, entry.Timestamp)
		if !ok {
			when, ok = billDate, billDateOK
		}
		if !ok {
			continue
		}
		method := entry.PaymentMethod
		if method == "" {
			method = b.PaymentMethod
		}
		emit(entry.Amount.Float(), when, method)
	}

	if len(b.PaymentHistory) == 0 && billPaid(b) && billDateOK {
		amount := b.PaidAmount.Float()
		if amount <= 0 {
			amount = b.Amount.Float()
		}
		emit(amount, billDate, b.PaymentMethod)
	}

	// Last resort: an amount was collected but the bill carries no usable
	// payment trail.
	if emitted == 0 && billDateOK && r.contains(billDate) {
		emit(b.PaidAmount.Float(), billDate, b.PaymentMethod)
	}
}

func billPaid(b Bill) bool {
	switch strings.ToLower(strings.TrimSpace(b.Status)) {
	case "paid", "completed", "payment_received", "billing_paid":
		return true
	}
	return b.Billing != nil && strings.EqualFold(strings.TrimSpace(b.Billing.Status), "paid")
}

// collectRefunds extracts refund ledger entries for one bill from its three
// alternate refund representations, deduplicating by amount so the same
// real-world refund is never counted twice. Inclusion is decided by the
// refund's own timestamp, never the bill's creation date.
func collectRefunds(report *Report, b Bill, billType string, r dateRange) {
	var processed []float64
	seen := func(amount float64) bool {
		for _, p := range processed {
			if math.Abs(p-amount) <= amountTolerance {
				return true
			}
		}
		return false
	}
	emit := func(amount float64, when time.Time, method, user string) {
		if amount <= 0 || !r.contains(when) {
			return
		}
		report.Refunds = append(report.Refunds, LedgerEntry{
			Date:          when,
			PatientID:     b.PatientID,
			PatientName:   b.PatientName,
			UserName:      orNA(firstNonEmpty(user, b.RefundedBy, b.GeneratedBy)),
			ReceiptNumber: b.InvoiceNumber,
			PayMode:       orNA(firstNonEmpty(method, b.RefundMethod, b.PaymentMethod)),
			Amount:        round2(amount),
			BillType:      billType,
		})
		report.Summary.TotalRefund += amount
	}

	billDate, billDateOK := b.fallbackDate()

	// (a) refund marks inside the payment history.
	for _, entry := range b.PaymentHistory {
		status := strings.ToLower(strings.TrimSpace(entry.Status))
		if status != "refunded" && entry.Refund == nil {
			continue
		}
		amount := entry.Amount.Float()
		var when time.Time
		var ok bool
		var method, user string
		if entry.Refund != nil {
			if v := entry.Refund.Value(); v > 0 {
				amount = v
			}
			when, ok = entry.Refund.When()
			method = entry.Refund.RefundMethod
			user = entry.Refund.RefundedBy
		}
		if !ok {
			when, ok = firstWhen(entry.Date, entry.PaidAt, entry.CreatedAt, entry.Timestamp)
		}
		if !ok {
			when, ok = firstWhen(b.RefundedAt)
		}
		if !ok {
			when, ok = billDate, billDateOK
		}
		if amount <= 0 {
			continue
		}
		processed = append(processed, amount)
		if ok {
			if method == "" {
				method = entry.PaymentMethod
			}
			emit(amount, when, method, user)
		}
	}

	// (b) the bill's own refunds[] array, deduplicated against (a).
	for _, detail := range b.Refunds {
		amount := detail.Value()
		if amount <= 0 || seen(amount) {
			continue
		}
		processed = append(processed, amount)
		when, ok := detail.When()
		if !ok {
			when, ok = firstWhen(b.RefundedAt, b.UpdatedAt)
		}
		if !ok {
			continue
		}
		emit(amount, when, detail.RefundMethod, detail.RefundedBy)
	}

	// (c) bill-level refunded amount, only when no refunds[] item already
	// carries a matching amount.
	fallback := b.RefundedAmount.Float()
	if fallback <= 0 && b.Billing != nil {
		fallback = b.Billing.RefundAmount.Float()
	}
	if fallback > 0 && !seen(fallback) && !matchesAny(fallback, b.Refunds) {
		processed = append(processed, fallback)
		when, ok := firstWhen(b.RefundedAt, billingRefundedAt(b), b.UpdatedAt)
		if !ok {
			when, ok = billDate, billDateOK
		}
		if ok {
			emit(fallback, when, "", "")
		}
	}

	// (d) last resort: the bill says refunded but nothing above matched.
	if billRefunded(b) {
		amount := b.RefundedAmount.Float()
		if amount <= 0 {
			amount = b.PaidAmount.Float()
		}
		if amount <= 0 {
			amount = b.Amount.Float()
		}
		if amount > 0 && !seen(amount) {
			processed = append(processed, amount)
			when, ok := firstWhen(b.RefundedAt, billingRefundedAt(b), b.UpdatedAt)
			if !ok {
				when, ok = billDate, billDateOK
			}
			if ok {
				emit(amount, when, "", "")
			}
		}
	}
}

func billRefunded(b Bill) bool {
	if b.Billing != nil && strings.EqualFold(strings.TrimSpace(b.Billing.Status), "refunded") {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(b.Status), "refunded")
}

func billingRefundedAt(b Bill) string {
	if b.Billing == nil {
		return ""
	}
	return b.Billing.RefundedAt
}

func matchesAny(amount float64, details []RefundDetail) bool {
	for _, d := range details {
		if math.Abs(d.Value()-amount) <= amountTolerance {
			return true
		}
	}
	return false
}

// collectTransactionRefund scans one flat transaction record for a refund
// event. A matched bill lends its type classification; otherwise the
// transaction's own fields classify it.
func collectTransactionRefund(report *Report, t Transaction, billTypeByInvoice map[string]string, r dateRange) {
	refunded := strings.EqualFold(strings.TrimSpace(t.Status), "refunded")
	if !refunded && (t.Refund == nil || t.Refund.Value() <= 0) {
		return
	}

	amount := t.Amount.Float()
	var when time.Time
	var ok bool
	var method, user string
	if t.Refund != nil {
		if v := t.Refund.Value(); v > 0 {
			amount = v
		}
		when, ok = t.Refund.When()
		method = t.Refund.RefundMethod
		user = t.Refund.RefundedBy
	}
	if !ok {
		when, ok = firstWhen(t.Date, t.CreatedAt)
	}
	if !ok || amount <= 0 || !r.contains(when) {
		return
	}

	billType, matched := billTypeByInvoice[t.InvoiceNumber]
	if !matched || t.InvoiceNumber == "" {
		billType = ClassifyTransaction(t)
	}

	receipt := t.ReceiptNumber
	if receipt == "" {
		receipt = t.InvoiceNumber
	}
	report.Refunds = append(report.Refunds, LedgerEntry{
		Date:          when,
		PatientID:     t.PatientID,
		PatientName:   t.PatientName,
		UserName:      orNA(firstNonEmpty(user, t.UserName)),
		ReceiptNumber: receipt,
		PayMode:       orNA(firstNonEmpty(method, t.PaymentMethod)),
		Amount:        round2(amount),
		BillType:      billType,
	})
	report.Summary.TotalRefund += amount
}

// countCancellation counts a bill as cancelled only when the nested billing
// status says so and the cancellation date itself falls in range.
func countCancellation(s *Summary, b Bill, r dateRange) {
	if b.Billing == nil || !strings.EqualFold(strings.TrimSpace(b.Billing.Status), "cancelled") {
		return
	}
	when, ok := firstWhen(b.Billing.CancelledAt, b.UpdatedAt)
	if !ok || !r.contains(when) {
		return
	}
	s.CancelledCount++
	s.CancelledAmount += b.Amount.Float()
}

func addToBucket(s *Summary, method string, amount float64) {
	if amount <= 0 {
		return
	}
	switch NormalizePayMode(method) {
	case BucketCash:
		s.AmountCollectedInCash = round2(s.AmountCollectedInCash + amount)
	case BucketCard:
		s.AmountCollectedInCard = round2(s.AmountCollectedInCard + amount)
	case BucketUPI:
		s.AmountCollectedInUPI = round2(s.AmountCollectedInUPI + amount)
	case BucketNEFT:
		s.AmountCollectedInNEFT = round2(s.AmountCollectedInNEFT + amount)
	default:
		s.AmountCollectedInOther = round2(s.AmountCollectedInOther + amount)
	}
	s.TotalCollected += amount
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}
