package billing

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

// The DDL must stay bindable by the repository inserts: text columns for text
// fields, bigint for actor IDs, and nullable columns wherever the models scan
// into pointers.
func TestSchemaMatchesModelBindings(t *testing.T) {
	path := filepath.Join("..", "..", "scripts", "schema.sql")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	ddl := string(data)

	requireColumn := func(pattern string) {
		t.Helper()
		matched, err := regexp.MatchString(pattern, ddl)
		require.NoError(t, err)
		require.True(t, matched, "schema.sql missing column shape %q", pattern)
	}
	forbid := func(pattern string) {
		t.Helper()
		matched, err := regexp.MatchString(pattern, ddl)
		require.NoError(t, err)
		require.False(t, matched, "schema.sql has incompatible column shape %q", pattern)
	}

	// Invoice.PaymentTerms is free text ("Net 30"), not a day count.
	requireColumn(`payment_terms\s+TEXT`)
	forbid(`payment_terms\s+INT`)

	// BuyerGSTIN and the client GSTIN/state code scan into *string; a NOT NULL
	// column would reject the nil the service passes for B2C buyers.
	requireColumn(`buyer_gstin\s+TEXT,`)
	forbid(`buyer_gstin\s+TEXT\s+NOT NULL`)
	requireColumn(`gstin\s+TEXT,`)
	requireColumn(`state_code\s+TEXT,`)

	// Actor IDs are int64 throughout.
	requireColumn(`created_by\s+BIGINT`)
	requireColumn(`recorded_by\s+BIGINT`)
	forbid(`created_by\s+TEXT`)
	forbid(`recorded_by\s+TEXT`)
}
