package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatInvoiceNumber(t *testing.T) {
	at := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV-202603-0001", FormatInvoiceNumber(at, 1))
	assert.Equal(t, "INV-202603-0142", FormatInvoiceNumber(at, 142))
}

func TestInvoiceStateHelpers(t *testing.T) {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	sent := Invoice{Status: InvoiceSent, DueDate: now.Add(-time.Hour)}
	assert.True(t, sent.IsOverdue(now))
	assert.True(t, sent.Open())
	assert.NoError(t, sent.CanMarkPaid())

	notDue := Invoice{Status: InvoiceSent, DueDate: now.Add(time.Hour)}
	assert.False(t, notDue.IsOverdue(now))

	draft := Invoice{Status: InvoiceDraft, DueDate: now.Add(-time.Hour)}
	assert.False(t, draft.IsOverdue(now))
	assert.False(t, draft.Open())

	assert.ErrorIs(t, Invoice{Status: InvoicePaid}.CanMarkPaid(), ErrInvoiceAlreadyPaid)
	assert.ErrorIs(t, Invoice{Status: InvoiceVoid}.CanMarkPaid(), ErrInvoiceVoid)
}

func TestContractValidate(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	before := start.AddDate(0, -1, 0)
	after := start.AddDate(1, 0, 0)

	assert.NoError(t, Contract{Status: ContractActive, StartDate: start, EndDate: &after}.Validate())
	assert.NoError(t, Contract{Status: ContractDraft, StartDate: start}.Validate())
	assert.ErrorIs(t, Contract{Status: ContractActive, StartDate: start, EndDate: &before}.Validate(), ErrContractDates)
	assert.ErrorIs(t, Contract{Status: "signed", StartDate: start}.Validate(), ErrInvalidContractStatus)
}
