package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Receipt records the outcome of one processed order notification. Rows are
// audit-only; the webhook path never reads them back.
type Receipt struct {
	bun.BaseModel `bun:"table:receipts"`

	ID             int64     `bun:",pk,autoincrement"`
	OrderID        string    `bun:"order_id,notnull"`
	CustomerEmail  string    `bun:"customer_email"`
	Amount         string    `bun:"amount"`
	ItemsTotal     int       `bun:"items_total"`
	ItemsFailed    int       `bun:"items_failed"`
	CustomerMailOK bool      `bun:"customer_mail_ok"`
	VendorMailOK   bool      `bun:"vendor_mail_ok"`
	ProcessedAt    time.Time `bun:"processed_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}
