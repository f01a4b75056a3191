package stock

import (
	"context"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/relay/internal/commerce"
	"github.com/Additional-Code/relay/internal/dto"
)

var stockTracer = otel.Tracer("github.com/Additional-Code/relay/service/stock")

// Module provides the stock manager to Fx.
var Module = fx.Provide(NewManager)

// Manager decrements inventory for the purchasable items of an order.
type Manager struct {
	client commerce.Client
	logger *zap.Logger
}

// Params defines dependencies for constructing Manager.
type Params struct {
	fx.In

	Client commerce.Client
	Logger *zap.Logger
}

// NewManager wires a new Manager instance.
func NewManager(p Params) *Manager {
	return &Manager{client: p.Client, logger: p.Logger}
}

// Outcome summarises one decrement fan-out.
type Outcome struct {
	Attempted int
	Failed    int
}

// Decrement issues one inventory-decrement call per purchasable line item.
// Calls are independent: each outcome is logged on its own and one item's
// failure never blocks or cancels the others. There is no retry; a failure is
// terminal for that item for this invocation.
func (m *Manager) Decrement(ctx context.Context, items []dto.LineItem) Outcome {
	products := make([]dto.LineItem, 0, len(items))
	for _, item := range items {
		if item.IsProduct() {
			products = append(products, item)
		}
	}

	ctx, span := stockTracer.Start(ctx, "StockManager.Decrement",
		trace.WithAttributes(attribute.Int("stock.items", len(products))))
	defer span.End()

	var failed atomic.Int64
	var wg sync.WaitGroup

	for _, item := range products {
		wg.Add(1)
		go func(item dto.LineItem) {
			defer wg.Done()

			if err := m.client.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				failed.Add(1)
				m.logger.Error("stock decrement failed",
					zap.String("product_id", item.ProductID),
					zap.String("name", item.Name),
					zap.Int("quantity", item.Quantity),
					zap.Error(err),
				)
				return
			}

			m.logger.Info("stock decremented",
				zap.String("product_id", item.ProductID),
				zap.String("name", item.Name),
				zap.Int("quantity", item.Quantity),
			)
		}(item)
	}

	wg.Wait()

	return Outcome{Attempted: len(products), Failed: int(failed.Load())}
}
