package order

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/relay/internal/config"
	"github.com/Additional-Code/relay/internal/messaging"
	ordersvc "github.com/Additional-Code/relay/internal/service/order"
	"github.com/Additional-Code/relay/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/relay/worker/order")

// Module registers order-related worker handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(
			NewOrderProcessedHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewOrderProcessedHandler sets up a worker handler that audits processed
// order notifications.
func NewOrderProcessedHandler(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.orders.audit", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var event ordersvc.OrderProcessedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode order processed", zap.Error(err))

			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return err
		}
		logger.Info("order processed event audited",
			zap.String("order_id", event.OrderID),
			zap.String("amount", event.Amount),
			zap.Int("items_total", event.ItemsTotal),
			zap.Int("items_failed", event.ItemsFailed),
			zap.Bool("customer_mail_ok", event.CustomerMailOK),
			zap.Bool("vendor_mail_ok", event.VendorMailOK),
		)

		return nil
	}

	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Handler: handler,
	}
}
