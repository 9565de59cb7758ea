package render

import (
	"strings"
	"testing"
	"time"

	"github.com/artha-erp/artha-erp/internal/billing/invoices"
	"github.com/artha-erp/artha-erp/internal/shared"
)

func TestFormatAmountIndianGrouping(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{118000, "1,18,000.00"},
		{11800, "11,800.00"},
		{1800, "1,800.00"},
		{900.5, "900.50"},
		{0, "0.00"},
		{12345678.9, "1,23,45,678.90"},
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{118000, "Rupees One Lakh Eighteen Thousand Only"},
		{11800, "Rupees Eleven Thousand Eight Hundred Only"},
		{10000000, "Rupees One Crore Only"},
		{0, "Rupees Zero Only"},
		{1250.75, "Rupees One Thousand Two Hundred Fifty and Seventy Five Paise Only"},
		{21, "Rupees Twenty One Only"},
		{800, "Rupees Eight Hundred Only"},
		{999, "Rupees Nine Hundred Ninety Nine Only"},
		{30500999, "Rupees Three Crore Five Lakh Nine Hundred Ninety Nine Only"},
	}
	for _, tc := range cases {
		if got := AmountInWords(tc.in); got != tc.want {
			t.Errorf("AmountInWords(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildInvoiceView(t *testing.T) {
	gstin := "29ABCDE1234F1Z5"
	irn := "a1b2c3"
	inv := &invoices.Invoice{
		Number:        "INV-2608-0007",
		InvoiceDate:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		BuyerName:     "Deccan Builders",
		BuyerGSTIN:    &gstin,
		PlaceOfSupply: "29",
		Subtotal:      100000,
		CGSTTotal:     9000,
		SGSTTotal:     9000,
		TotalWithGST:  118000,
		IRN:           &irn,
		Items: []invoices.Item{
			{Description: "Structural steel work", Quantity: 10, Unit: "nos", UnitPrice: 10000,
				HSNSACCode: "7308", GSTRate: 18, TaxableValue: 100000,
				CGSTAmount: 9000, SGSTAmount: 9000, LineTotal: 118000},
		},
	}
	seller := shared.SellerProfile{LegalName: "Artha Engineering Pvt Ltd", GSTIN: "29AAACB1234C1Z5"}

	view := BuildInvoiceView(inv, seller)
	if view.InvoiceDate != "01/08/2026" {
		t.Fatalf("invoice date = %s", view.InvoiceDate)
	}
	if view.TotalWithGST != "1,18,000.00" {
		t.Fatalf("total = %s", view.TotalWithGST)
	}
	if view.AmountInWords != "Rupees One Lakh Eighteen Thousand Only" {
		t.Fatalf("words = %s", view.AmountInWords)
	}
	if view.IRN != "a1b2c3" {
		t.Fatalf("irn = %s", view.IRN)
	}
	if view.Items[0].GSTRate != "18%" {
		t.Fatalf("rate = %s", view.Items[0].GSTRate)
	}
}

func TestRenderHTMLDocument(t *testing.T) {
	view := InvoiceView{
		Number: "INV-2608-0007",
		Seller: PartyView{Name: "Artha Engineering Pvt Ltd", GSTIN: "29AAACB1234C1Z5"},
		Buyer:  PartyView{Name: "Deccan Builders"},
		Items: []ItemView{
			{SlNo: 1, Description: "Structural steel work", HSNSACCode: "7308"},
		},
		TotalWithGST:  "1,18,000.00",
		AmountInWords: "Rupees One Lakh Eighteen Thousand Only",
	}
	html, err := RenderHTMLDocument(view)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"INV-2608-0007", "Structural steel work", "1,18,000.00", "Rupees One Lakh"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered document missing %q", want)
		}
	}
}
