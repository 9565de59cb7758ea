package einvoice

import (
	"fmt"

	"github.com/artha-erp/artha-erp/internal/billing/invoices"
	"github.com/artha-erp/artha-erp/internal/gst"
	"github.com/artha-erp/artha-erp/internal/shared"
)

// Government schema version accepted by the portal.
const payloadVersion = "1.1"

// Payload is the registration document submitted to the portal.
type Payload struct {
	Version    string     `json:"Version"`
	TranDtls   TranDtls   `json:"TranDtls"`
	DocDtls    DocDtls    `json:"DocDtls"`
	SellerDtls PartyDtls  `json:"SellerDtls"`
	BuyerDtls  PartyDtls  `json:"BuyerDtls"`
	ItemList   []ItemDtls `json:"ItemList"`
	ValDtls    ValDtls    `json:"ValDtls"`
}

// TranDtls carries the tax scheme and supply category.
type TranDtls struct {
	TaxSch string `json:"TaxSch"`
	SupTyp string `json:"SupTyp"`
}

// DocDtls identifies the document being registered. Dt uses DD/MM/YYYY.
type DocDtls struct {
	Typ string `json:"Typ"`
	No  string `json:"No"`
	Dt  string `json:"Dt"`
}

// PartyDtls describes the seller or buyer.
type PartyDtls struct {
	Gstin string `json:"Gstin"`
	LglNm string `json:"LglNm"`
	Addr1 string `json:"Addr1"`
	Loc   string `json:"Loc"`
	Pin   string `json:"Pin"`
	Stcd  string `json:"Stcd"`
	Pos   string `json:"Pos,omitempty"`
}

// ItemDtls is one invoice line in the government shape.
type ItemDtls struct {
	SlNo       string  `json:"SlNo"`
	PrdDesc    string  `json:"PrdDesc"`
	IsServc    string  `json:"IsServc"`
	HsnCd      string  `json:"HsnCd"`
	Qty        float64 `json:"Qty"`
	Unit       string  `json:"Unit"`
	UnitPrice  float64 `json:"UnitPrice"`
	AssAmt     float64 `json:"AssAmt"`
	GstRt      float64 `json:"GstRt"`
	CgstAmt    float64 `json:"CgstAmt"`
	SgstAmt    float64 `json:"SgstAmt"`
	IgstAmt    float64 `json:"IgstAmt"`
	TotItemVal float64 `json:"TotItemVal"`
}

// ValDtls carries the document value totals. RndOffAmt makes
// AssVal + tax - Discount + RndOffAmt equal TotInvVal exactly.
type ValDtls struct {
	AssVal    float64 `json:"AssVal"`
	CgstVal   float64 `json:"CgstVal"`
	SgstVal   float64 `json:"SgstVal"`
	IgstVal   float64 `json:"IgstVal"`
	Discount  float64 `json:"Discount,omitempty"`
	RndOffAmt float64 `json:"RndOffAmt"`
	TotInvVal float64 `json:"TotInvVal"`
}

// BuildPayload assembles the portal registration document from a finalized
// invoice and the configured seller profile. The caller is responsible for
// having checked the B2B preconditions first.
func BuildPayload(inv *invoices.Invoice, seller shared.SellerProfile) Payload {
	items := make([]ItemDtls, 0, len(inv.Items))
	for i, line := range inv.Items {
		isService := "N"
		if line.IsService {
			isService = "Y"
		}
		items = append(items, ItemDtls{
			SlNo:       fmt.Sprintf("%d", i+1),
			PrdDesc:    line.Description,
			IsServc:    isService,
			HsnCd:      line.HSNSACCode,
			Qty:        line.Quantity,
			Unit:       line.Unit,
			UnitPrice:  line.UnitPrice,
			AssAmt:     line.TaxableValue,
			GstRt:      line.GSTRate,
			CgstAmt:    line.CGSTAmount,
			SgstAmt:    line.SGSTAmount,
			IgstAmt:    line.IGSTAmount,
			TotItemVal: line.LineTotal,
		})
	}

	var buyerGSTIN string
	if inv.BuyerGSTIN != nil {
		buyerGSTIN = *inv.BuyerGSTIN
	}

	totInvVal, rndOff := gst.RoundOff(inv.TotalWithGST)

	return Payload{
		Version: payloadVersion,
		TranDtls: TranDtls{
			TaxSch: "GST",
			SupTyp: "B2B",
		},
		DocDtls: DocDtls{
			Typ: "INV",
			No:  inv.Number,
			Dt:  inv.InvoiceDate.Format("02/01/2006"),
		},
		SellerDtls: PartyDtls{
			Gstin: seller.GSTIN,
			LglNm: seller.LegalName,
			Addr1: seller.Address,
			Loc:   seller.Location,
			Pin:   seller.Pin,
			Stcd:  seller.StateCode,
		},
		BuyerDtls: PartyDtls{
			Gstin: buyerGSTIN,
			LglNm: inv.BuyerName,
			Addr1: inv.BuyerAddress,
			Loc:   inv.BuyerLocation,
			Pin:   inv.BuyerPin,
			Stcd:  gst.StateCodeFromGSTIN(buyerGSTIN),
			Pos:   inv.PlaceOfSupply,
		},
		ItemList: items,
		ValDtls: ValDtls{
			AssVal:    inv.Subtotal,
			CgstVal:   inv.CGSTTotal,
			SgstVal:   inv.SGSTTotal,
			IgstVal:   inv.IGSTTotal,
			Discount:  inv.Discount,
			RndOffAmt: rndOff,
			TotInvVal: totInvVal,
		},
	}
}
