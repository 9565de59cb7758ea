package gst

import "testing"

func TestClassifySupply(t *testing.T) {
	if got := ClassifySupply("27", "27"); got != SupplyIntra {
		t.Fatalf("same state should be intra, got %s", got)
	}
	if got := ClassifySupply("27", "29"); got != SupplyInter {
		t.Fatalf("different state should be inter, got %s", got)
	}
	if got := ClassifySupply("27", ""); got != SupplyIntra {
		t.Fatalf("missing buyer state should default to seller state, got %s", got)
	}
}

func TestComputeLineTaxIntraState(t *testing.T) {
	split := ComputeLineTax(10000, 18, SupplyIntra)
	if split.CGST != 900 || split.SGST != 900 {
		t.Fatalf("expected CGST=SGST=900.00, got %.2f / %.2f", split.CGST, split.SGST)
	}
	if split.IGST != 0 {
		t.Fatalf("intra-state line must carry no IGST, got %.2f", split.IGST)
	}
}

func TestComputeLineTaxInterState(t *testing.T) {
	split := ComputeLineTax(10000, 18, SupplyInter)
	if split.IGST != 1800 {
		t.Fatalf("expected IGST=1800.00, got %.2f", split.IGST)
	}
	if split.CGST != 0 || split.SGST != 0 {
		t.Fatalf("inter-state line must carry no CGST/SGST, got %.2f / %.2f", split.CGST, split.SGST)
	}
}

func TestComputeLineTaxHalvesRoundIndependently(t *testing.T) {
	// 33.33 * 5% = 1.6665; each half is 0.833..., rounded half-up to 0.83.
	split := ComputeLineTax(33.33, 5, SupplyIntra)
	if split.CGST != 0.83 || split.SGST != 0.83 {
		t.Fatalf("expected 0.83 per half, got %.2f / %.2f", split.CGST, split.SGST)
	}
	if split.CGST != split.SGST {
		t.Fatalf("CGST and SGST must be equal when active")
	}
}

func TestTaxSplitExclusivity(t *testing.T) {
	cases := []struct {
		taxable float64
		rate    float64
		supply  SupplyType
	}{
		{10000, 18, SupplyIntra},
		{10000, 18, SupplyInter},
		{4999.99, 28, SupplyIntra},
		{4999.99, 28, SupplyInter},
		{1234.56, 0, SupplyIntra},
		{1234.56, 0, SupplyInter},
	}
	for _, tc := range cases {
		split := ComputeLineTax(tc.taxable, tc.rate, tc.supply)
		intraActive := split.CGST > 0 && split.SGST > 0 && split.IGST == 0
		interActive := split.IGST > 0 && split.CGST == 0 && split.SGST == 0
		zero := split.CGST == 0 && split.SGST == 0 && split.IGST == 0
		if !intraActive && !interActive && !zero {
			t.Fatalf("split %v for %v/%v/%s violates exclusivity", split, tc.taxable, tc.rate, tc.supply)
		}
		if intraActive && split.CGST != split.SGST {
			t.Fatalf("CGST %v != SGST %v", split.CGST, split.SGST)
		}
	}
}

func TestRound2HalfUp(t *testing.T) {
	cases := map[float64]float64{
		0.125: 0.13, // half-up, not banker's rounding
		1.004: 1.0,
		2.375: 2.38,
		900.0: 900.0,
		0:     0,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Fatalf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestRoundOff(t *testing.T) {
	rounded, adj := RoundOff(11800.43)
	if rounded != 11800 {
		t.Fatalf("expected rounded 11800, got %v", rounded)
	}
	if adj != -0.43 {
		t.Fatalf("expected adjustment -0.43, got %v", adj)
	}

	rounded, adj = RoundOff(11800.50)
	if rounded != 11801 || adj != 0.50 {
		t.Fatalf("expected 11801 / 0.50, got %v / %v", rounded, adj)
	}
}
