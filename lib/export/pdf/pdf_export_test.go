package pdfexport

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvoice(t *testing.T) {
	t.Run("pdf document check", func(t *testing.T) {
		data, err := GenerateInvoice(InvoiceData{
			Number:         "INV-1",
			IssuedAt:       time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			CompanyName:    "Acme",
			CompanyEmail:   "billing@acme.test",
			VAName:         "Maria",
			ContractTitle:  "Website",
			MilestoneTitle: "Design",
			Amount:         150,
			Currency:       "usd",
			Status:         "approved",
		})
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	})
	t.Run("amount format check", func(t *testing.T) {
		assert.Equal(t, "12.50 USD", formatAmount(12.5, "USD"))
	})
}
