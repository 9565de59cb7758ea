package render

import (
	"html/template"
	"strings"
)

var invoiceTmpl = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Tax Invoice {{.Number}}</title>
<style>
body { font-family: sans-serif; font-size: 12px; margin: 24px; }
table { width: 100%; border-collapse: collapse; }
th, td { border: 1px solid #444; padding: 4px 6px; text-align: right; }
th:first-child, td:first-child, td.desc { text-align: left; }
.header { display: flex; justify-content: space-between; margin-bottom: 16px; }
.totals { margin-top: 12px; width: 40%; margin-left: auto; }
.words { margin-top: 8px; font-style: italic; }
</style>
</head>
<body>
<h2>Tax Invoice {{.Number}}</h2>
<div class="header">
  <div>
    <strong>{{.Seller.Name}}</strong><br>
    GSTIN: {{.Seller.GSTIN}}<br>
    {{.Seller.Address}}, {{.Seller.Location}} - {{.Seller.Pin}}
  </div>
  <div>
    <strong>Bill To: {{.Buyer.Name}}</strong><br>
    {{if .Buyer.GSTIN}}GSTIN: {{.Buyer.GSTIN}}<br>{{end}}
    {{.Buyer.Address}}, {{.Buyer.Location}} - {{.Buyer.Pin}}<br>
    Place of Supply: {{.PlaceOfSupply}}
  </div>
  <div>
    Invoice Date: {{.InvoiceDate}}<br>
    Due Date: {{.DueDate}}<br>
    {{if .PaymentTerms}}Terms: {{.PaymentTerms}}<br>{{end}}
    {{if .IRN}}IRN: {{.IRN}}<br>Ack No: {{.AckNo}}{{end}}
  </div>
</div>
<table>
  <tr>
    <th>#</th><th>Description</th><th>HSN/SAC</th><th>Qty</th><th>Unit</th>
    <th>Rate</th><th>Taxable</th><th>GST%</th><th>CGST</th><th>SGST</th><th>IGST</th><th>Total</th>
  </tr>
  {{range .Items}}
  <tr>
    <td>{{.SlNo}}</td><td class="desc">{{.Description}}</td><td>{{.HSNSACCode}}</td>
    <td>{{.Quantity}}</td><td>{{.Unit}}</td><td>{{.UnitPrice}}</td><td>{{.Taxable}}</td>
    <td>{{.GSTRate}}</td><td>{{.CGST}}</td><td>{{.SGST}}</td><td>{{.IGST}}</td><td>{{.LineTotal}}</td>
  </tr>
  {{end}}
</table>
<table class="totals">
  <tr><td>Subtotal</td><td>{{.Subtotal}}</td></tr>
  {{if .Discount}}<tr><td>Discount</td><td>{{.Discount}}</td></tr>{{end}}
  <tr><td>CGST</td><td>{{.CGSTTotal}}</td></tr>
  <tr><td>SGST</td><td>{{.SGSTTotal}}</td></tr>
  <tr><td>IGST</td><td>{{.IGSTTotal}}</td></tr>
  <tr><td><strong>Total</strong></td><td><strong>{{.TotalWithGST}}</strong></td></tr>
</table>
<div class="words">{{.AmountInWords}}</div>
</body>
</html>`))

// RenderHTMLDocument produces the HTML print document for an invoice view.
func RenderHTMLDocument(view InvoiceView) (string, error) {
	var b strings.Builder
	if err := invoiceTmpl.Execute(&b, view); err != nil {
		return "", err
	}
	return b.String(), nil
}
