package notifier

import (
	"embed"
	"html/template"
	"strings"

	"github.com/Additional-Code/relay/internal/dto"
	"github.com/Additional-Code/relay/internal/orderview"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// customerLocals feeds the customer template: the full order view.
type customerLocals struct {
	orderview.View
	BaseURL string
}

// vendorLocals feeds the vendor template: shipping details only, no billing
// address, no address comparison, no raw currency or tax-percentage fields.
type vendorLocals struct {
	OrderID         string
	Date            string
	CustomerName    string
	ShippingAddress orderview.Address
	Products        []dto.LineItem
	Amount          string
	Total           string
	Tax             string
	ShippingSet     bool
	ShippingCost    string
	BaseURL         string
}

func renderCustomer(view orderview.View, baseURL string) (string, error) {
	var sb strings.Builder
	err := templates.ExecuteTemplate(&sb, "customer.html", customerLocals{
		View:    view,
		BaseURL: baseURL,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderVendor(view orderview.View, baseURL string) (string, error) {
	var sb strings.Builder
	err := templates.ExecuteTemplate(&sb, "vendor.html", vendorLocals{
		OrderID:         view.OrderID,
		Date:            view.Date,
		CustomerName:    view.CustomerName,
		ShippingAddress: view.ShippingAddress,
		Products:        view.Products,
		Amount:          view.Amount,
		Total:           view.Total,
		Tax:             view.Tax,
		ShippingSet:     view.ShippingSet,
		ShippingCost:    view.ShippingCost,
		BaseURL:         baseURL,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
