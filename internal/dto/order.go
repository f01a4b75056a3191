package dto

import "encoding/json"

// OrderNotification is the raw webhook envelope posted by the commerce
// backend. The interesting payload arrives as a JSON string under resources.
type OrderNotification struct {
	Trigger   string `json:"triggered_by,omitempty"`
	Resources string `json:"resources"`
}

// DecodeResource parses the nested resources payload into an OrderResource.
func (n OrderNotification) DecodeResource() (OrderResource, error) {
	var resource OrderResource
	if err := json.Unmarshal([]byte(n.Resources), &resource); err != nil {
		return OrderResource{}, err
	}
	return resource, nil
}

// OrderResource is the decoded order payload carried by a notification.
type OrderResource struct {
	Data     OrderData `json:"data"`
	Included Included  `json:"included"`
}

// Included carries the order's line items. The items slice is always present
// on the wire, though it may be empty.
type Included struct {
	Items []LineItem `json:"items"`
}

// OrderData holds the order header fields used by the pipeline.
type OrderData struct {
	ID              string        `json:"id"`
	Customer        Customer      `json:"customer"`
	ShippingAddress AddressRecord `json:"shipping_address"`
	BillingAddress  AddressRecord `json:"billing_address"`
	Meta            OrderMeta     `json:"meta"`
}

// Customer identifies the buyer on an order.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderMeta nests order timestamps and the tax-inclusive display price.
type OrderMeta struct {
	Timestamps   Timestamps   `json:"timestamps"`
	DisplayPrice DisplayPrice `json:"display_price"`
}

// Timestamps carries the order creation time as an ISO-8601 string.
type Timestamps struct {
	CreatedAt string `json:"created_at"`
}

// DisplayPrice wraps the with-tax price node.
type DisplayPrice struct {
	WithTax PriceWithTax `json:"with_tax"`
}

// PriceWithTax is an amount in minor currency units plus its formatted form.
type PriceWithTax struct {
	Amount    int64      `json:"amount"`
	Formatted string     `json:"formatted"`
	Unit      *UnitPrice `json:"unit,omitempty"`
}

// UnitPrice is the per-unit display price of a line item.
type UnitPrice struct {
	Amount    int64  `json:"amount"`
	Formatted string `json:"formatted"`
}

// AddressRecord is a billing or shipping address as delivered on the wire.
// PhoneNumber and Instructions are volatile: they identify a delivery, not a
// location, and are excluded from equivalence comparison.
type AddressRecord struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Line1        string `json:"line_1"`
	Line2        string `json:"line_2"`
	City         string `json:"city"`
	Postcode     string `json:"postcode"`
	Country      string `json:"country"`
	PhoneNumber  string `json:"phone_number"`
	Instructions string `json:"instructions"`
}

// LineItem is a single order entry: a purchasable product when ProductID is
// non-empty, or a non-product charge such as the shipping item.
type LineItem struct {
	ProductID string        `json:"product_id"`
	SKU       string        `json:"sku"`
	Quantity  int           `json:"quantity"`
	Name      string        `json:"name"`
	Value     ItemValue     `json:"value"`
	Meta      *LineItemMeta `json:"meta,omitempty"`
}

// ItemValue is the line total in minor currency units.
type ItemValue struct {
	Amount int64 `json:"amount"`
}

// LineItemMeta nests a line item's display price.
type LineItemMeta struct {
	DisplayPrice DisplayPrice `json:"display_price"`
}

// ShippingSKU marks the distinguished shipping line item.
const ShippingSKU = "shipping"

// IsProduct reports whether the item represents a purchasable product.
func (i LineItem) IsProduct() bool {
	return i.ProductID != ""
}

// IsShipping reports whether the item is the shipping charge.
func (i LineItem) IsShipping() bool {
	return i.SKU == ShippingSKU
}
