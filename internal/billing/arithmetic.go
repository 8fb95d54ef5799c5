// Package billing holds the pure computation core of the clinic's billing
// workflows: rounding and adjustment arithmetic applied at bill creation,
// proportional refund calculation for partial bill edits, and the
// collection/refund reconciliation report. Everything here is a pure
// function over in-memory values; persistence and transport live elsewhere.
package billing

import "math"

// RoundToNearestTen rounds a value to the nearest multiple of 10 using
// round-half-up over floor buckets: remainder < 5 rounds down, >= 5 rounds
// up. The same bucketing applies to negative values, so -3 rounds to 0 and
// -7 rounds to -10. Non-finite input passes through unchanged.
func RoundToNearestTen(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	base := math.Floor(value / 10)
	remainder := value - base*10
	if remainder < 5 {
		return round2(base * 10)
	}
	return round2((base + 1) * 10)
}

// RoundingInput carries the components of a bill total before rounding.
type RoundingInput struct {
	Subtotal  float64 `json:"subtotal"`
	Taxes     float64 `json:"taxes"`
	Discounts float64 `json:"discounts"`
}

// RoundingResult is the outcome of folding a rounding adjustment back into
// the tax or discount line so the displayed items reconcile exactly with
// the rounded total.
type RoundingResult struct {
	RawTotal           float64 `json:"rawTotal"`
	RoundedTotal       float64 `json:"roundedTotal"`
	RoundingDifference float64 `json:"roundingDifference"`
	AdjustedTaxes      float64 `json:"adjustedTaxes"`
	AdjustedDiscounts  float64 `json:"adjustedDiscounts"`
}

// ApplyRoundingAdjustment computes subtotal + taxes - discounts, rounds the
// result to the nearest ten, and folds the difference into taxes (when
// rounding up) or discounts (when rounding down). All outputs are
// normalized to 2 decimal places. NaN inputs degrade to 0.
func ApplyRoundingAdjustment(in RoundingInput) RoundingResult {
	subtotal := coerce(in.Subtotal)
	taxes := coerce(in.Taxes)
	discounts := coerce(in.Discounts)

	rawTotal := subtotal + taxes - discounts
	roundedTotal := RoundToNearestTen(rawTotal)
	difference := round2(roundedTotal - rawTotal)

	adjustedTaxes := taxes
	adjustedDiscounts := discounts
	switch {
	case difference > 0:
		adjustedTaxes = taxes + difference
	case difference < 0:
		adjustedDiscounts = discounts - difference
	}

	return RoundingResult{
		RawTotal:           round2(rawTotal),
		RoundedTotal:       round2(roundedTotal),
		RoundingDifference: difference,
		AdjustedTaxes:      round2(adjustedTaxes),
		AdjustedDiscounts:  round2(adjustedDiscounts),
	}
}

// LineItem is one billable line on a bill: a lab test, consultation or
// therapy dose.
type LineItem struct {
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// ItemsSubtotal sums quantity x unit price over a line item list.
func ItemsSubtotal(items []LineItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Quantity * coerce(item.UnitPrice)
	}
	return round2(total)
}

// RefundInput describes a bill edit that strikes line items from an
// already-paid bill.
type RefundInput struct {
	OriginalItems []LineItem
	RetainedItems []LineItem
	// OriginalAmount is the fallback subtotal when the original item list
	// is absent from the bill record.
	OriginalAmount    float64
	OriginalTaxes     float64
	OriginalDiscounts float64
}

// RefundBreakdown is the result of a proportional refund calculation.
type RefundBreakdown struct {
	OriginalSubTotal  float64 `json:"originalSubTotal"`
	NewSubTotal       float64 `json:"newSubTotal"`
	RemovedSubTotal   float64 `json:"removedSubTotal"`
	DiscountOnRemoved float64 `json:"discountOnRemoved"`
	TaxOnRemoved      float64 `json:"taxOnRemoved"`
	Refund            float64 `json:"refund"`
}

// CalculateRefund computes the refund owed when line items are removed from
// a paid bill. The removed items' subtotal is netted against the pro-rata
// share of the discount the patient already received on them, plus the
// pro-rata tax, so the patient gets back exactly what they overpaid. The
// refund is clamped at 0.
func CalculateRefund(in RefundInput) RefundBreakdown {
	originalSubTotal := ItemsSubtotal(in.OriginalItems)
	if len(in.OriginalItems) == 0 {
		originalSubTotal = round2(coerce(in.OriginalAmount))
	}
	newSubTotal := ItemsSubtotal(in.RetainedItems)
	removedSubTotal := round2(originalSubTotal - newSubTotal)

	var discountOnRemoved, taxOnRemoved float64
	if originalSubTotal != 0 && removedSubTotal > 0 {
		share := removedSubTotal / originalSubTotal
		discountOnRemoved = round2(share * coerce(in.OriginalDiscounts))
		taxOnRemoved = round2(share * coerce(in.OriginalTaxes))
	}

	refund := round2(removedSubTotal + taxOnRemoved - discountOnRemoved)
	if refund < 0 {
		refund = 0
	}

	return RefundBreakdown{
		OriginalSubTotal:  originalSubTotal,
		NewSubTotal:       newSubTotal,
		RemovedSubTotal:   removedSubTotal,
		DiscountOnRemoved: discountOnRemoved,
		TaxOnRemoved:      taxOnRemoved,
		Refund:            refund,
	}
}
