// Package gst computes India GST splits for invoice lines. It is pure
// computation: no I/O, no persistence.
package gst

import "math"

// SupplyType classifies a sale for tax-split purposes.
type SupplyType string

const (
	// SupplyIntra is an intra-state sale taxed as CGST + SGST.
	SupplyIntra SupplyType = "INTRA"
	// SupplyInter is an inter-state sale taxed as IGST.
	SupplyInter SupplyType = "INTER"
)

// TaxSplit carries the per-line tax amounts. Exactly one of the CGST/SGST pair
// or IGST is non-zero for a taxed line, never both.
type TaxSplit struct {
	CGST float64
	SGST float64
	IGST float64
}

// Total returns the summed tax for the line.
func (t TaxSplit) Total() float64 {
	return t.CGST + t.SGST + t.IGST
}

// ClassifySupply decides intra vs inter state from the two-digit state codes.
// A B2C buyer without a state code defaults to the seller's state, so no IGST
// applies unless inter-state supply is flagged explicitly by the caller.
func ClassifySupply(sellerStateCode, buyerStateCode string) SupplyType {
	if buyerStateCode == "" || buyerStateCode == sellerStateCode {
		return SupplyIntra
	}
	return SupplyInter
}

// ComputeLineTax splits the tax for one line. Intra-state sales split the rate
// evenly into CGST and SGST, each rounded independently; inter-state sales
// carry the whole rate as IGST.
func ComputeLineTax(taxableValue, gstRate float64, supply SupplyType) TaxSplit {
	if supply == SupplyInter {
		return TaxSplit{IGST: Round2(taxableValue * gstRate / 100)}
	}
	half := Round2(taxableValue * gstRate / 200)
	return TaxSplit{CGST: half, SGST: half}
}

// Round2 rounds half-up to two decimal places. All monetary rounding in the
// billing core goes through here so per-line and header behaviour stay
// consistent.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// RoundOff returns the invoice grand total rounded to the nearest rupee and
// the adjustment applied, as reported in the e-invoice ValDtls section:
// assessable value + total tax + round-off == total invoice value.
func RoundOff(grandTotal float64) (rounded, adjustment float64) {
	rounded = math.Floor(grandTotal + 0.5)
	adjustment = Round2(rounded - grandTotal)
	return rounded, adjustment
}
