package orderview

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Additional-Code/relay/internal/config"
	"github.com/Additional-Code/relay/internal/country"
	"github.com/Additional-Code/relay/internal/dto"
	"github.com/Additional-Code/relay/pkg/errorbank"
)

// View is the presentation-ready projection of an order used to populate the
// notification templates. It is built fresh per request and never shared.
type View struct {
	OrderID         string
	Date            string
	CustomerName    string
	CustomerEmail   string
	ShippingAddress Address
	BillingAddress  Address
	AddressesMatch  bool
	Products        []dto.LineItem
	Amount          string
	Total           string
	Tax             string
	ShippingSet     bool
	ShippingCost    string
	CurrencySymbol  string
	TaxPercentage   float64
}

// Address is an address record with its country code resolved to a name.
type Address struct {
	FirstName string
	LastName  string
	Line1     string
	Line2     string
	City      string
	Postcode  string
	Country   string
}

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Build derives every presentation value from the raw order payload.
func Build(resource dto.OrderResource, pres config.Order) (View, error) {
	data := resource.Data

	date, err := formatOrderDate(data.Meta.Timestamps.CreatedAt)
	if err != nil {
		return View{}, err
	}

	shippingItem, shippingSet := findShippingItem(resource.Included.Items)

	totalMinor := data.Meta.DisplayPrice.WithTax.Amount
	amountMinor := totalMinor
	if shippingSet {
		amountMinor -= shippingItem.Value.Amount
	}
	amount := roundMajor(amountMinor)

	// Tax is computed from the tax-inclusive total on purpose; the shipping
	// charge is not excluded here even when one is present.
	tax := round2(float64(totalMinor) / 100 * pres.TaxRatePercent / 100)

	shippingCost := ""
	if shippingSet && shippingItem.Meta != nil && shippingItem.Meta.DisplayPrice.WithTax.Unit != nil {
		shippingCost = shippingItem.Meta.DisplayPrice.WithTax.Unit.Formatted
	}

	shippingAddr, err := resolveAddress(data.ShippingAddress)
	if err != nil {
		return View{}, err
	}
	billingAddr, err := resolveAddress(data.BillingAddress)
	if err != nil {
		return View{}, err
	}

	products := make([]dto.LineItem, 0, len(resource.Included.Items))
	for _, item := range resource.Included.Items {
		if item.IsProduct() {
			products = append(products, item)
		}
	}

	return View{
		OrderID:         data.ID,
		Date:            date,
		CustomerName:    data.Customer.Name,
		CustomerEmail:   data.Customer.Email,
		ShippingAddress: shippingAddr,
		BillingAddress:  billingAddr,
		AddressesMatch:  EquivalentAddresses(data.BillingAddress, data.ShippingAddress),
		Products:        products,
		Amount:          formatCurrency(amount, pres),
		Total:           data.Meta.DisplayPrice.WithTax.Formatted,
		Tax:             formatCurrency(tax, pres),
		ShippingSet:     shippingSet,
		ShippingCost:    shippingCost,
		CurrencySymbol:  pres.CurrencySymbol,
		TaxPercentage:   pres.TaxRatePercent,
	}, nil
}

// findShippingItem returns the distinguished shipping line item, if any.
func findShippingItem(items []dto.LineItem) (dto.LineItem, bool) {
	for _, item := range items {
		if item.IsShipping() {
			return item, true
		}
	}
	return dto.LineItem{}, false
}

// formatOrderDate renders an ISO-8601 timestamp as "MonthName D, YYYY".
// The date portion must split into exactly three numeric components.
func formatOrderDate(isoTimestamp string) (string, error) {
	datePart, _, _ := strings.Cut(isoTimestamp, "T")
	parts := strings.Split(datePart, "-")
	if len(parts) != 3 {
		return "", errorbank.Unprocessable("malformed order timestamp",
			errorbank.WithDetail("created_at", isoTimestamp))
	}

	numbers := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return "", errorbank.Unprocessable("malformed order timestamp",
				errorbank.WithCause(err), errorbank.WithDetail("created_at", isoTimestamp))
		}
		numbers[i] = n
	}

	year, month, day := numbers[0], numbers[1], numbers[2]
	if month < 1 || month > 12 {
		return "", errorbank.Unprocessable("malformed order timestamp",
			errorbank.WithDetail("month", month))
	}

	return fmt.Sprintf("%s %d, %d", monthNames[month-1], day, year), nil
}

// resolveAddress swaps the wire country code for a display name.
func resolveAddress(record dto.AddressRecord) (Address, error) {
	name, err := country.Resolve(record.Country)
	if err != nil {
		return Address{}, err
	}
	return Address{
		FirstName: record.FirstName,
		LastName:  record.LastName,
		Line1:     record.Line1,
		Line2:     record.Line2,
		City:      record.City,
		Postcode:  record.Postcode,
		Country:   name,
	}, nil
}

// roundMajor converts minor currency units to major units rounded to 2dp.
func roundMajor(minor int64) float64 {
	return round2(float64(minor) / 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// formatCurrency places the configured symbol before or after the value.
// Any position other than "start" is treated as the end position.
func formatCurrency(value float64, pres config.Order) string {
	rendered := strconv.FormatFloat(value, 'f', 2, 64)
	if pres.CurrencyPosition == "start" {
		return pres.CurrencySymbol + " " + rendered
	}
	return rendered + " " + pres.CurrencySymbol
}
