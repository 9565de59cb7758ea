package shared

// SellerProfile is the single selling entity this deployment bills for. It is
// loaded once from configuration and injected where invoices or portal
// payloads need seller identity.
type SellerProfile struct {
	GSTIN     string
	LegalName string
	TradeName string
	StateCode string
	Address   string
	Location  string
	Pin       string
}
