package notifier

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/relay/internal/dto"
	"github.com/Additional-Code/relay/internal/mailer"
	"github.com/Additional-Code/relay/internal/orderview"
)

// fakeTransport records messages and optionally fails for one recipient.
type fakeTransport struct {
	mu      sync.Mutex
	sent    []mailer.Message
	failFor string
}

func (f *fakeTransport) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	if f.failFor != "" && msg.To == f.failFor {
		return errors.New("smtp rejected")
	}
	return nil
}

func (f *fakeTransport) byRecipient(to string) (mailer.Message, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, msg := range f.sent {
		if msg.To == to {
			return msg, true
		}
	}
	return mailer.Message{}, false
}

func sampleView() orderview.View {
	return orderview.View{
		OrderID:       "ord-123",
		Date:          "March 5, 2023",
		CustomerName:  "April Ludgate",
		CustomerEmail: "april@example.com",
		ShippingAddress: orderview.Address{
			FirstName: "April",
			LastName:  "Ludgate",
			Line1:     "1 Main St",
			City:      "Pawnee",
			Postcode:  "46001",
			Country:   "United States",
		},
		BillingAddress: orderview.Address{
			FirstName: "Ben",
			LastName:  "Wyatt",
			Line1:     "99 Ledger Rd",
			City:      "Eagleton",
			Postcode:  "46002",
			Country:   "United States",
		},
		AddressesMatch: false,
		Products: []dto.LineItem{
			{ProductID: "p1", SKU: "mug-01", Quantity: 2, Name: "Coffee Mug"},
		},
		Amount:         "$ 105.00",
		Total:          "$110.00",
		Tax:            "$ 22.00",
		ShippingSet:    true,
		ShippingCost:   "$5.00",
		CurrencySymbol: "$",
		TaxPercentage:  20,
	}
}

func newDispatcher(transport mailer.Transport) *Dispatcher {
	return &Dispatcher{
		transport:     transport,
		logger:        zap.NewNop(),
		vendorAddress: "orders@vendor.example.com",
	}
}

func TestDispatch(t *testing.T) {
	t.Run("sends exactly two messages", func(t *testing.T) {
		transport := &fakeTransport{}
		d := newDispatcher(transport)

		out := d.Dispatch(context.Background(), sampleView(), "https://shop.example.com/")

		assert.Len(t, transport.sent, 2)
		assert.True(t, out.CustomerSent)
		assert.True(t, out.VendorSent)
	})

	t.Run("customer failure does not prevent the vendor send", func(t *testing.T) {
		transport := &fakeTransport{failFor: "april@example.com"}
		d := newDispatcher(transport)

		out := d.Dispatch(context.Background(), sampleView(), "https://shop.example.com/")

		assert.Len(t, transport.sent, 2)
		assert.False(t, out.CustomerSent)
		assert.True(t, out.VendorSent)
	})

	t.Run("customer message carries the full view", func(t *testing.T) {
		transport := &fakeTransport{}
		d := newDispatcher(transport)

		d.Dispatch(context.Background(), sampleView(), "https://shop.example.com/")

		msg, ok := transport.byRecipient("april@example.com")
		require.True(t, ok)
		assert.Contains(t, msg.HTML, "Billing address")
		assert.Contains(t, msg.HTML, "Eagleton")
		assert.Contains(t, msg.HTML, "$ 105.00")
		assert.Contains(t, msg.HTML, "https://shop.example.com/")
	})

	t.Run("vendor message omits billing details", func(t *testing.T) {
		transport := &fakeTransport{}
		d := newDispatcher(transport)

		d.Dispatch(context.Background(), sampleView(), "https://shop.example.com/")

		msg, ok := transport.byRecipient("orders@vendor.example.com")
		require.True(t, ok)
		assert.NotContains(t, msg.HTML, "Billing address")
		assert.NotContains(t, msg.HTML, "Eagleton")
		assert.Contains(t, msg.HTML, "Pawnee")
		assert.Contains(t, msg.HTML, "ord-123")
	})
}
