package billing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundToNearestTen(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"exact multiple stays", 100, 100},
		{"rounds down below half", 103, 100},
		{"rounds up at half", 105, 110},
		{"rounds up above half", 107, 110},
		{"zero", 0, 0},
		{"small value rounds down", 4.99, 0},
		{"half boundary with decimals", 14.99, 10},
		{"negative rounds toward floor bucket", -7, -10},
		{"negative above half rounds up", -3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RoundToNearestTen(tt.value), 0.001)
		})
	}
}

func TestRoundToNearestTen_Idempotent(t *testing.T) {
	for _, v := range []float64{0, 1, 4.9, 5, 9.99, 103, 107, 115, -3, -7, 123456.78} {
		once := RoundToNearestTen(v)
		assert.Equal(t, once, RoundToNearestTen(once), "value %v", v)
		assert.InDelta(t, 0, math.Mod(once, 10), 1e-9, "value %v", v)
	}
}

func TestRoundToNearestTen_NonFinitePassThrough(t *testing.T) {
	assert.True(t, math.IsNaN(RoundToNearestTen(math.NaN())))
	assert.True(t, math.IsInf(RoundToNearestTen(math.Inf(1)), 1))
	assert.True(t, math.IsInf(RoundToNearestTen(math.Inf(-1)), -1))
}

func TestApplyRoundingAdjustment(t *testing.T) {
	tests := []struct {
		name string
		in   RoundingInput
		want RoundingResult
	}{
		{
			name: "no adjustment needed",
			in:   RoundingInput{Subtotal: 100},
			want: RoundingResult{RawTotal: 100, RoundedTotal: 100},
		},
		{
			name: "rounds down into discounts",
			in:   RoundingInput{Subtotal: 103},
			want: RoundingResult{RawTotal: 103, RoundedTotal: 100, RoundingDifference: -3, AdjustedDiscounts: 3},
		},
		{
			name: "rounds up into taxes",
			in:   RoundingInput{Subtotal: 107},
			want: RoundingResult{RawTotal: 107, RoundedTotal: 110, RoundingDifference: 3, AdjustedTaxes: 3},
		},
		{
			name: "existing taxes grow on round up",
			in:   RoundingInput{Subtotal: 100, Taxes: 18, Discounts: 10},
			want: RoundingResult{RawTotal: 108, RoundedTotal: 110, RoundingDifference: 2, AdjustedTaxes: 20, AdjustedDiscounts: 10},
		},
		{
			name: "existing discounts grow on round down",
			in:   RoundingInput{Subtotal: 100, Taxes: 12, Discounts: 9},
			want: RoundingResult{RawTotal: 103, RoundedTotal: 100, RoundingDifference: -3, AdjustedTaxes: 12, AdjustedDiscounts: 12},
		},
		{
			name: "NaN inputs degrade to zero",
			in:   RoundingInput{Subtotal: math.NaN(), Taxes: math.NaN(), Discounts: math.NaN()},
			want: RoundingResult{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyRoundingAdjustment(tt.in)
			assert.InDelta(t, tt.want.RawTotal, got.RawTotal, 0.001)
			assert.InDelta(t, tt.want.RoundedTotal, got.RoundedTotal, 0.001)
			assert.InDelta(t, tt.want.RoundingDifference, got.RoundingDifference, 0.001)
			assert.InDelta(t, tt.want.AdjustedTaxes, got.AdjustedTaxes, 0.001)
			assert.InDelta(t, tt.want.AdjustedDiscounts, got.AdjustedDiscounts, 0.001)
		})
	}
}

func TestApplyRoundingAdjustment_TotalsReconcile(t *testing.T) {
	// After folding, subtotal + adjustedTaxes - adjustedDiscounts must equal
	// the rounded total exactly.
	inputs := []RoundingInput{
		{Subtotal: 460, Taxes: 82.8, Discounts: 46},
		{Subtotal: 999.99},
		{Subtotal: 1, Taxes: 0.18},
		{Subtotal: 250, Discounts: 12.5},
	}
	for _, in := range inputs {
		got := ApplyRoundingAdjustment(in)
		reconciled := in.Subtotal + got.AdjustedTaxes - got.AdjustedDiscounts
		assert.InDelta(t, got.RoundedTotal, reconciled, 0.011, "input %+v", in)
	}
}

func TestCalculateRefund(t *testing.T) {
	original := []LineItem{
		{Name: "Allergy Panel", Code: "LAB-AP", Quantity: 1, UnitPrice: 360},
		{Name: "Consultation", Code: "CON-GEN", Quantity: 1, UnitPrice: 100},
	}
	retained := []LineItem{
		{Name: "Consultation", Code: "CON-GEN", Quantity: 1, UnitPrice: 100},
	}

	got := CalculateRefund(RefundInput{
		OriginalItems:     original,
		RetainedItems:     retained,
		OriginalDiscounts: 46,
	})

	assert.InDelta(t, 460, got.OriginalSubTotal, 0.001)
	assert.InDelta(t, 100, got.NewSubTotal, 0.001)
	assert.InDelta(t, 360, got.RemovedSubTotal, 0.001)
	assert.InDelta(t, 36, got.DiscountOnRemoved, 0.001)
	assert.InDelta(t, 0, got.TaxOnRemoved, 0.001)
	assert.InDelta(t, 324, got.Refund, 0.001)
}

func TestCalculateRefund_WithTax(t *testing.T) {
	got := CalculateRefund(RefundInput{
		OriginalItems: []LineItem{
			{Quantity: 2, UnitPrice: 100},
			{Quantity: 1, UnitPrice: 300},
		},
		RetainedItems: []LineItem{
			{Quantity: 1, UnitPrice: 300},
		},
		OriginalTaxes:     50,
		OriginalDiscounts: 100,
	})

	// Removed 200 of 500: 40% of tax (20) added, 40% of discount (40) netted.
	assert.InDelta(t, 200, got.RemovedSubTotal, 0.001)
	assert.InDelta(t, 20, got.TaxOnRemoved, 0.001)
	assert.InDelta(t, 40, got.DiscountOnRemoved, 0.001)
	assert.InDelta(t, 180, got.Refund, 0.001)
}

func TestCalculateRefund_EdgeCases(t *testing.T) {
	t.Run("nothing removed yields zero refund", func(t *testing.T) {
		items := []LineItem{{Quantity: 1, UnitPrice: 100}}
		got := CalculateRefund(RefundInput{OriginalItems: items, RetainedItems: items, OriginalDiscounts: 10})
		assert.Zero(t, got.Refund)
		assert.Zero(t, got.DiscountOnRemoved)
	})

	t.Run("items added instead of removed clamps at zero", func(t *testing.T) {
		got := CalculateRefund(RefundInput{
			OriginalItems: []LineItem{{Quantity: 1, UnitPrice: 100}},
			RetainedItems: []LineItem{{Quantity: 1, UnitPrice: 100}, {Quantity: 1, UnitPrice: 50}},
		})
		assert.InDelta(t, -50, got.RemovedSubTotal, 0.001)
		assert.Zero(t, got.Refund)
	})

	t.Run("missing item list falls back to bill amount", func(t *testing.T) {
		got := CalculateRefund(RefundInput{
			OriginalAmount: 500,
			RetainedItems:  []LineItem{{Quantity: 1, UnitPrice: 300}},
		})
		assert.InDelta(t, 500, got.OriginalSubTotal, 0.001)
		assert.InDelta(t, 200, got.RemovedSubTotal, 0.001)
		assert.InDelta(t, 200, got.Refund, 0.001)
	})

	t.Run("zero original subtotal never divides", func(t *testing.T) {
		got := CalculateRefund(RefundInput{OriginalDiscounts: 50, OriginalTaxes: 10})
		assert.Zero(t, got.Refund)
		assert.Zero(t, got.DiscountOnRemoved)
		assert.Zero(t, got.TaxOnRemoved)
	})
}
