package gst

import "testing"

func TestValidGSTIN(t *testing.T) {
	valid := []string{"29ABCDE1234F1Z5", "27AAACB2894G1ZC"}
	for _, g := range valid {
		if !ValidGSTIN(g) {
			t.Fatalf("expected %q to be valid", g)
		}
	}
	invalid := []string{
		"29ABCDE1234F1Z",    // too short
		"XX29ABCDE1234F1Z5", // malformed prefix
		"29abcde1234F1Z5",   // lowercase
		"",
	}
	for _, g := range invalid {
		if ValidGSTIN(g) {
			t.Fatalf("expected %q to be rejected", g)
		}
	}
}

func TestStateCodeFromGSTIN(t *testing.T) {
	if got := StateCodeFromGSTIN("29ABCDE1234F1Z5"); got != "29" {
		t.Fatalf("expected state code 29, got %q", got)
	}
	if got := StateCodeFromGSTIN("XYZ"); got != "" {
		t.Fatalf("expected empty state code for malformed input, got %q", got)
	}
}

func TestValidHSNSAC(t *testing.T) {
	if !ValidHSNSAC("8471", false) {
		t.Fatalf("4-digit HSN must be valid for goods")
	}
	if !ValidHSNSAC("84713010", false) {
		t.Fatalf("8-digit HSN must be valid for goods")
	}
	if ValidHSNSAC("847", false) {
		t.Fatalf("3-digit code must be rejected for goods")
	}
	if !ValidHSNSAC("998599", true) {
		t.Fatalf("6-digit SAC must be valid for services")
	}
	if ValidHSNSAC("99859", true) {
		t.Fatalf("5-digit SAC must be rejected for services")
	}
	if ValidHSNSAC("9985991", true) {
		t.Fatalf("7-digit SAC must be rejected for services")
	}
}

func TestValidateLineCollectsAllFailures(t *testing.T) {
	errs := ValidateLine("items[0]", LineInput{
		Quantity:   0,
		UnitPrice:  -1,
		HSNSACCode: "12",
		GSTRate:    7,
	})
	if len(errs) != 4 {
		t.Fatalf("expected 4 field errors, got %d: %v", len(errs), errs)
	}
	if errs[0].Field != "items[0].quantity" {
		t.Fatalf("unexpected first field %q", errs[0].Field)
	}
}

func TestValidateLineAccepts(t *testing.T) {
	errs := ValidateLine("items[0]", LineInput{
		Quantity:   2,
		UnitPrice:  499.5,
		HSNSACCode: "998599",
		GSTRate:    18,
		IsService:  true,
	})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}
