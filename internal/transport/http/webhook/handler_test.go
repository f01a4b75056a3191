package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/relay/internal/config"
	"github.com/Additional-Code/relay/internal/dto"
	"github.com/Additional-Code/relay/internal/mailer"
	"github.com/Additional-Code/relay/internal/notifier"
	service "github.com/Additional-Code/relay/internal/service/order"
	"github.com/Additional-Code/relay/internal/service/stock"
)

// failingTransport simulates an unreachable mail server.
type failingTransport struct{}

func (failingTransport) Send(context.Context, mailer.Message) error {
	return errors.New("mail transport down")
}

// failingCommerce simulates an unreachable commerce backend.
type failingCommerce struct{}

func (failingCommerce) DecrementStock(context.Context, string, int) error {
	return errors.New("commerce backend down")
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	cfg := config.Config{
		Order: config.Order{
			CurrencySymbol:   "$",
			CurrencyPosition: "start",
			TaxRatePercent:   20,
		},
		Mail: config.Mail{VendorAddress: "orders@vendor.example.com"},
	}
	logger := zap.NewNop()

	dispatcher := notifier.NewDispatcher(notifier.Params{
		Transport: failingTransport{},
		Config:    cfg,
		Logger:    logger,
	})
	manager := stock.NewManager(stock.Params{
		Client: failingCommerce{},
		Logger: logger,
	})
	svc := service.NewService(service.Params{
		Notifier: dispatcher,
		Stock:    manager,
		Config:   cfg,
		Logger:   logger,
	})

	return NewHandler(svc)
}

func notificationBody(t *testing.T) string {
	t.Helper()

	resource := dto.OrderResource{
		Data: dto.OrderData{
			ID:       "ord-123",
			Customer: dto.Customer{Name: "April Ludgate", Email: "april@example.com"},
			ShippingAddress: dto.AddressRecord{
				FirstName: "April", LastName: "Ludgate",
				Line1: "1 Main St", City: "Pawnee", Postcode: "46001", Country: "US",
			},
			BillingAddress: dto.AddressRecord{
				FirstName: "April", LastName: "Ludgate",
				Line1: "1 Main St", City: "Pawnee", Postcode: "46001", Country: "US",
			},
			Meta: dto.OrderMeta{
				Timestamps: dto.Timestamps{CreatedAt: "2023-03-05T10:00:00Z"},
				DisplayPrice: dto.DisplayPrice{
					WithTax: dto.PriceWithTax{Amount: 11000, Formatted: "$110.00"},
				},
			},
		},
		Included: dto.Included{
			Items: []dto.LineItem{
				{ProductID: "p1", SKU: "mug-01", Quantity: 2, Name: "Coffee Mug", Value: dto.ItemValue{Amount: 10500}},
			},
		},
	}

	nested, err := json.Marshal(resource)
	require.NoError(t, err)

	body, err := json.Marshal(dto.OrderNotification{Resources: string(nested)})
	require.NoError(t, err)

	return string(body)
}

func TestReceive(t *testing.T) {
	t.Run("responds 200 even when every downstream call fails", func(t *testing.T) {
		e := echo.New()
		h := newTestHandler(t)
		Register(e, h)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(notificationBody(t)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects an unparsable body", func(t *testing.T) {
		e := echo.New()
		h := newTestHandler(t)
		Register(e, h)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not json"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a malformed nested resource", func(t *testing.T) {
		e := echo.New()
		h := newTestHandler(t)
		Register(e, h)

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"resources":"{"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBaseURL(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Host = "shop.example.com"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	assert.Equal(t, "http://shop.example.com/", baseURL(c))
}
