package gst

import (
	"fmt"
	"regexp"

	"github.com/artha-erp/artha-erp/internal/shared"
)

// Slabs are the GST rates notified for goods and services.
var Slabs = []float64{0, 5, 12, 18, 28}

var (
	gstinPattern  = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z]{1}[1-9A-Z]{1}Z[0-9A-Z]{1}$`)
	hsnPattern    = regexp.MustCompile(`^[0-9]{4,8}$`)
	sacPattern    = regexp.MustCompile(`^[0-9]{6}$`)
	digitsPattern = regexp.MustCompile(`^[0-9]{2}$`)
)

// ValidGSTIN reports whether the 15-character GSTIN matches the notified
// format.
func ValidGSTIN(gstin string) bool {
	return gstinPattern.MatchString(gstin)
}

// StateCodeFromGSTIN extracts the two-digit state code encoded in the first
// characters of a GSTIN. Returns "" for malformed input.
func StateCodeFromGSTIN(gstin string) string {
	if len(gstin) < 2 || !digitsPattern.MatchString(gstin[:2]) {
		return ""
	}
	return gstin[:2]
}

// ValidSlab reports whether the rate is one of the notified GST slabs.
func ValidSlab(rate float64) bool {
	for _, s := range Slabs {
		if rate == s {
			return true
		}
	}
	return false
}

// ValidHSNSAC checks classification codes: goods use 4 to 8 digit HSN codes,
// services use exactly 6 digit SAC codes.
func ValidHSNSAC(code string, isService bool) bool {
	if isService {
		return sacPattern.MatchString(code)
	}
	return hsnPattern.MatchString(code)
}

// LineInput is one tax-bearing line submitted for validation and computation.
type LineInput struct {
	Description string
	Quantity    float64
	UnitPrice   float64
	HSNSACCode  string
	GSTRate     float64
	IsService   bool
}

// ValidateLine collects every rule violation for a line. field is the prefix
// used in reported field names, e.g. "items[2]".
func ValidateLine(field string, in LineInput) shared.FieldErrors {
	var errs shared.FieldErrors
	if in.Quantity <= 0 {
		errs = append(errs, shared.ValidationError{
			Field:   field + ".quantity",
			Message: "must be greater than zero",
		})
	}
	if in.UnitPrice < 0 {
		errs = append(errs, shared.ValidationError{
			Field:   field + ".unit_price",
			Message: "must not be negative",
		})
	}
	if !ValidHSNSAC(in.HSNSACCode, in.IsService) {
		msg := "must be 4 to 8 digits for goods"
		if in.IsService {
			msg = "must be exactly 6 digits for services"
		}
		errs = append(errs, shared.ValidationError{
			Field:   field + ".hsn_sac_code",
			Message: msg,
		})
	}
	if !ValidSlab(in.GSTRate) {
		errs = append(errs, shared.ValidationError{
			Field:   field + ".gst_rate",
			Message: fmt.Sprintf("%.0f is not a notified GST slab", in.GSTRate),
		})
	}
	return errs
}
