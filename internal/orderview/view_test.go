package orderview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/relay/internal/config"
	"github.com/Additional-Code/relay/internal/dto"
)

func presentation() config.Order {
	return config.Order{
		CurrencySymbol:   "$",
		CurrencyPosition: "start",
		TaxRatePercent:   20,
	}
}

func sampleResource() dto.OrderResource {
	return dto.OrderResource{
		Data: dto.OrderData{
			ID: "ord-123",
			Customer: dto.Customer{
				Name:  "April Ludgate",
				Email: "april@example.com",
			},
			ShippingAddress: dto.AddressRecord{
				FirstName: "April",
				LastName:  "Ludgate",
				Line1:     "1 Main St",
				City:      "Pawnee",
				Postcode:  "46001",
				Country:   "US",
			},
			BillingAddress: dto.AddressRecord{
				FirstName: "April",
				LastName:  "Ludgate",
				Line1:     "1 Main St",
				City:      "Pawnee",
				Postcode:  "46001",
				Country:   "US",
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
				{
					ProductID: "p1",
					SKU:       "mug-01",
					Quantity:  2,
					Name:      "Coffee Mug",
					Value:     dto.ItemValue{Amount: 10500},
				},
				{
					SKU:      "shipping",
					Quantity: 1,
					Name:     "Standard Shipping",
					Value:    dto.ItemValue{Amount: 500},
					Meta: &dto.LineItemMeta{
						DisplayPrice: dto.DisplayPrice{
							WithTax: dto.PriceWithTax{
								Unit: &dto.UnitPrice{Amount: 500, Formatted: "$5.00"},
							},
						},
					},
				},
			},
		},
	}
}

func TestBuild(t *testing.T) {
	t.Run("derives amounts with shipping present", func(t *testing.T) {
		view, err := Build(sampleResource(), presentation())
		require.NoError(t, err)

		assert.Equal(t, "ord-123", view.OrderID)
		assert.Equal(t, "March 5, 2023", view.Date)
		assert.True(t, view.ShippingSet)
		assert.Equal(t, "$5.00", view.ShippingCost)
		assert.Equal(t, "$ 105.00", view.Amount)
		assert.Equal(t, "$ 22.00", view.Tax)
		assert.Equal(t, "$110.00", view.Total)
		assert.Equal(t, float64(20), view.TaxPercentage)
	})

	t.Run("uses full total without shipping item", func(t *testing.T) {
		resource := sampleResource()
		resource.Included.Items = resource.Included.Items[:1]

		view, err := Build(resource, presentation())
		require.NoError(t, err)

		assert.False(t, view.ShippingSet)
		assert.Empty(t, view.ShippingCost)
		assert.Equal(t, "$ 110.00", view.Amount)
	})

	t.Run("filters products by product id", func(t *testing.T) {
		view, err := Build(sampleResource(), presentation())
		require.NoError(t, err)

		require.Len(t, view.Products, 1)
		assert.Equal(t, "p1", view.Products[0].ProductID)
	})

	t.Run("resolves country names on both addresses", func(t *testing.T) {
		resource := sampleResource()
		resource.Data.BillingAddress.Country = "GB"

		view, err := Build(resource, presentation())
		require.NoError(t, err)

		assert.Equal(t, "United States", view.ShippingAddress.Country)
		assert.Equal(t, "United Kingdom", view.BillingAddress.Country)
	})

	t.Run("flags matching addresses", func(t *testing.T) {
		view, err := Build(sampleResource(), presentation())
		require.NoError(t, err)
		assert.True(t, view.AddressesMatch)

		resource := sampleResource()
		resource.Data.BillingAddress.City = "Eagleton"
		view, err = Build(resource, presentation())
		require.NoError(t, err)
		assert.False(t, view.AddressesMatch)
	})

	t.Run("unknown country fails the build", func(t *testing.T) {
		resource := sampleResource()
		resource.Data.ShippingAddress.Country = "ZZ"

		_, err := Build(resource, presentation())
		assert.Error(t, err)
	})

	t.Run("symbol placement follows position", func(t *testing.T) {
		pres := presentation()
		pres.CurrencyPosition = "end"

		view, err := Build(sampleResource(), pres)
		require.NoError(t, err)
		assert.Equal(t, "105.00 $", view.Amount)
		assert.Equal(t, "22.00 $", view.Tax)
	})

	t.Run("unrecognised position falls back to end placement", func(t *testing.T) {
		pres := presentation()
		pres.CurrencyPosition = "sideways"

		view, err := Build(sampleResource(), pres)
		require.NoError(t, err)
		assert.Equal(t, "105.00 $", view.Amount)
	})
}

func TestFormatOrderDate(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
		want      string
		wantErr   bool
	}{
		{name: "iso timestamp", timestamp: "2023-03-05T10:00:00Z", want: "March 5, 2023"},
		{name: "december", timestamp: "2021-12-31T23:59:59.000Z", want: "December 31, 2021"},
		{name: "missing components", timestamp: "2023-03T10:00:00Z", wantErr: true},
		{name: "non numeric component", timestamp: "2023-xx-05T10:00:00Z", wantErr: true},
		{name: "month out of range", timestamp: "2023-13-05T10:00:00Z", wantErr: true},
		{name: "empty", timestamp: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatOrderDate(tt.timestamp)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
