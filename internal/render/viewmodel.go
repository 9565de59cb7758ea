// Package render builds the finalized print representation of an invoice.
// Byte production is delegated to an external Gotenberg instance when one is
// configured; otherwise callers receive the structured render input.
package render

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/artha-erp/artha-erp/internal/billing/invoices"
	"github.com/artha-erp/artha-erp/internal/shared"
)

var enIN = message.NewPrinter(language.MustParse("en-IN"))

// FormatAmount renders a rupee amount with Indian digit grouping, e.g.
// 118000 -> "1,18,000.00".
func FormatAmount(v float64) string {
	return enIN.Sprint(number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// InvoiceView is the print payload for one invoice.
type InvoiceView struct {
	Number        string     `json:"number"`
	InvoiceDate   string     `json:"invoice_date"`
	DueDate       string     `json:"due_date"`
	PaymentTerms  string     `json:"payment_terms"`
	Seller        PartyView  `json:"seller"`
	Buyer         PartyView  `json:"buyer"`
	PlaceOfSupply string     `json:"place_of_supply"`
	Items         []ItemView `json:"items"`
	Subtotal      string     `json:"subtotal"`
	CGSTTotal     string     `json:"cgst_total"`
	SGSTTotal     string     `json:"sgst_total"`
	IGSTTotal     string     `json:"igst_total"`
	Discount      string     `json:"discount,omitempty"`
	TotalWithGST  string     `json:"total_with_gst"`
	AmountInWords string     `json:"amount_in_words"`
	IRN           string     `json:"irn,omitempty"`
	AckNo         string     `json:"ack_no,omitempty"`
}

// PartyView is one party block on the printed document.
type PartyView struct {
	Name     string `json:"name"`
	GSTIN    string `json:"gstin,omitempty"`
	Address  string `json:"address"`
	Location string `json:"location"`
	Pin      string `json:"pin"`
}

// ItemView is one printed line.
type ItemView struct {
	SlNo        int    `json:"sl_no"`
	Description string `json:"description"`
	HSNSACCode  string `json:"hsn_sac_code"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	UnitPrice   string `json:"unit_price"`
	GSTRate     string `json:"gst_rate"`
	Taxable     string `json:"taxable_value"`
	CGST        string `json:"cgst"`
	SGST        string `json:"sgst"`
	IGST        string `json:"igst"`
	LineTotal   string `json:"line_total"`
}

// BuildInvoiceView assembles the print payload from a finalized invoice.
func BuildInvoiceView(inv *invoices.Invoice, seller shared.SellerProfile) InvoiceView {
	items := make([]ItemView, 0, len(inv.Items))
	for i, line := range inv.Items {
		items = append(items, ItemView{
			SlNo:        i + 1,
			Description: line.Description,
			HSNSACCode:  line.HSNSACCode,
			Quantity:    enIN.Sprintf("%v", number.Decimal(line.Quantity)),
			Unit:        line.Unit,
			UnitPrice:   FormatAmount(line.UnitPrice),
			GSTRate:     enIN.Sprintf("%v%%", number.Decimal(line.GSTRate)),
			Taxable:     FormatAmount(line.TaxableValue),
			CGST:        FormatAmount(line.CGSTAmount),
			SGST:        FormatAmount(line.SGSTAmount),
			IGST:        FormatAmount(line.IGSTAmount),
			LineTotal:   FormatAmount(line.LineTotal),
		})
	}

	var buyerGSTIN string
	if inv.BuyerGSTIN != nil {
		buyerGSTIN = *inv.BuyerGSTIN
	}
	view := InvoiceView{
		Number:       inv.Number,
		InvoiceDate:  inv.InvoiceDate.Format("02/01/2006"),
		DueDate:      inv.DueDate.Format("02/01/2006"),
		PaymentTerms: inv.PaymentTerms,
		Seller: PartyView{
			Name: seller.LegalName, GSTIN: seller.GSTIN,
			Address: seller.Address, Location: seller.Location, Pin: seller.Pin,
		},
		Buyer: PartyView{
			Name: inv.BuyerName, GSTIN: buyerGSTIN,
			Address: inv.BuyerAddress, Location: inv.BuyerLocation, Pin: inv.BuyerPin,
		},
		PlaceOfSupply: inv.PlaceOfSupply,
		Items:         items,
		Subtotal:      FormatAmount(inv.Subtotal),
		CGSTTotal:     FormatAmount(inv.CGSTTotal),
		SGSTTotal:     FormatAmount(inv.SGSTTotal),
		IGSTTotal:     FormatAmount(inv.IGSTTotal),
		TotalWithGST:  FormatAmount(inv.TotalWithGST),
		AmountInWords: AmountInWords(inv.TotalWithGST),
	}
	if inv.Discount > 0 {
		view.Discount = FormatAmount(inv.Discount)
	}
	if inv.IRN != nil {
		view.IRN = *inv.IRN
	}
	if inv.AckNo != nil {
		view.AckNo = *inv.AckNo
	}
	return view
}

var ones = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}

var tens = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}

func twoDigits(n int) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + " " + ones[n%10]
}

func threeDigits(n int) string {
	if n < 100 {
		return twoDigits(n)
	}
	s := ones[n/100] + " Hundred"
	if n%100 != 0 {
		s += " " + twoDigits(n%100)
	}
	return s
}

// AmountInWords spells a rupee amount using the Indian numbering system
// (crore, lakh, thousand), e.g. 118000 -> "Rupees One Lakh Eighteen Thousand Only".
func AmountInWords(amount float64) string {
	rupees := int64(amount)
	paise := int(amount*100+0.5) % 100

	var parts []string
	appendPart := func(n int, label string) {
		if n > 0 {
			word := threeDigits(n)
			if label != "" {
				word += " " + label
			}
			parts = append(parts, word)
		}
	}
	appendPart(int(rupees/10000000), "Crore")
	appendPart(int(rupees/100000%100), "Lakh")
	appendPart(int(rupees/1000%100), "Thousand")
	appendPart(int(rupees%1000), "")

	var b strings.Builder
	b.WriteString("Rupees ")
	if len(parts) == 0 {
		b.WriteString("Zero")
	} else {
		b.WriteString(strings.Join(parts, " "))
	}
	if paise > 0 {
		b.WriteString(" and " + twoDigits(paise) + " Paise")
	}
	b.WriteString(" Only")
	return b.String()
}
