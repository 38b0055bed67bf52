// Package billing mirrors the backend's invoice pricing arithmetic for live
// form feedback. The results are advisory: nothing computed here is ever
// sent to the backend, which recalculates and validates on save.
package billing

import "math"

// Line is one invoice line of the draft being edited. UnitPrice is the
// price resolved from the selected pricing entry; an unresolved reference
// carries a zero price and a display-only warning.
type Line struct {
	PricingID string
	Quantity  int64
	UnitPrice int64
}

// Fee is an additional fee on the draft.
type Fee struct {
	Title  string
	Amount int64
}

// Draft is the transient state of the invoice creation/edit form. Amounts
// are whole currency units (the backend computes FCFA at scale 0).
type Draft struct {
	Lines          []Line
	Fees           []Fee
	Discount       int64
	VATRatePercent float64
}

// Totals are the derived amounts displayed next to the form.
type Totals struct {
	LinesTotal  int64
	FeesTotal   int64
	TaxableBase int64
	VATAmount   int64
	Total       int64
}

// Compute derives the draft's totals. It is a pure function, safe to call
// on every form change.
//
// The taxable base is lines + fees - discount with no clamping at zero,
// matching the backend's Invoice arithmetic: an oversized discount yields a
// negative base and negative VAT, and the backend remains the authority on
// save. VAT rounds half-up away from zero, as the backend's
// RoundingMode.HALF_UP does.
func Compute(d Draft) Totals {
	var t Totals

	for _, line := range d.Lines {
		t.LinesTotal += line.Quantity * line.UnitPrice
	}
	for _, fee := range d.Fees {
		t.FeesTotal += fee.Amount
	}

	t.TaxableBase = t.LinesTotal + t.FeesTotal - d.Discount

	if d.VATRatePercent != 0 {
		t.VATAmount = roundHalfUp(float64(t.TaxableBase) * d.VATRatePercent / 100)
	}

	t.Total = t.TaxableBase + t.VATAmount
	return t
}

// PaymentState derives the remaining amount and settled flag from a total
// and what has been paid so far.
func PaymentState(total, amountPaid int64) (remaining int64, paid bool) {
	remaining = total - amountPaid
	return remaining, remaining <= 0
}

// roundHalfUp rounds to the nearest integer with ties going away from zero.
func roundHalfUp(x float64) int64 {
	if x >= 0 {
		return int64(math.Floor(x + 0.5))
	}
	return int64(math.Ceil(x - 0.5))
}
