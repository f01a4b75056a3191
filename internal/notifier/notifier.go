package notifier

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/relay/internal/config"
	"github.com/Additional-Code/relay/internal/mailer"
	"github.com/Additional-Code/relay/internal/orderview"
)

var notifierTracer = otel.Tracer("github.com/Additional-Code/relay/notifier")

// Module provides the dispatcher to Fx.
var Module = fx.Provide(NewDispatcher)

// Dispatcher renders and sends the two notification variants for an order.
type Dispatcher struct {
	transport     mailer.Transport
	logger        *zap.Logger
	vendorAddress string
}

// Params defines dependencies for constructing Dispatcher.
type Params struct {
	fx.In

	Transport mailer.Transport
	Config    config.Config
	Logger    *zap.Logger
}

// NewDispatcher wires a new Dispatcher instance.
func NewDispatcher(p Params) *Dispatcher {
	return &Dispatcher{
		transport:     p.Transport,
		logger:        p.Logger,
		vendorAddress: p.Config.Mail.VendorAddress,
	}
}

// Outcome reports which of the two sends succeeded.
type Outcome struct {
	CustomerSent bool
	VendorSent   bool
}

// Dispatch sends the customer and vendor messages. The two sends are
// independent: a failure of one is logged and never prevents the other.
// baseURL resolves relative asset references inside the templates.
func (d *Dispatcher) Dispatch(ctx context.Context, view orderview.View, baseURL string) Outcome {
	ctx, span := notifierTracer.Start(ctx, "Notifier.Dispatch",
		trace.WithAttributes(attribute.String("order.id", view.OrderID)))
	defer span.End()

	var outcome Outcome
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		outcome.CustomerSent = d.sendCustomer(ctx, view, baseURL)
	}()
	go func() {
		defer wg.Done()
		outcome.VendorSent = d.sendVendor(ctx, view, baseURL)
	}()
	wg.Wait()

	return outcome
}

func (d *Dispatcher) sendCustomer(ctx context.Context, view orderview.View, baseURL string) bool {
	html, err := renderCustomer(view, baseURL)
	if err != nil {
		d.logger.Error("render customer notification failed",
			zap.String("order_id", view.OrderID), zap.Error(err))
		return false
	}

	msg := mailer.Message{
		To:      view.CustomerEmail,
		Subject: fmt.Sprintf("Your order confirmation (%s)", view.OrderID),
		HTML:    html,
	}
	if err := d.transport.Send(ctx, msg); err != nil {
		d.logger.Error("customer notification failed",
			zap.String("order_id", view.OrderID),
			zap.String("to", view.CustomerEmail),
			zap.Error(err))
		return false
	}

	d.logger.Info("customer notification sent", zap.String("order_id", view.OrderID))
	return true
}

func (d *Dispatcher) sendVendor(ctx context.Context, view orderview.View, baseURL string) bool {
	html, err := renderVendor(view, baseURL)
	if err != nil {
		d.logger.Error("render vendor notification failed",
			zap.String("order_id", view.OrderID), zap.Error(err))
		return false
	}

	msg := mailer.Message{
		To:      d.vendorAddress,
		Subject: fmt.Sprintf("New order %s", view.OrderID),
		HTML:    html,
	}
	if err := d.transport.Send(ctx, msg); err != nil {
		d.logger.Error("vendor notification failed",
			zap.String("order_id", view.OrderID),
			zap.String("to", d.vendorAddress),
			zap.Error(err))
		return false
	}

	d.logger.Info("vendor notification sent", zap.String("order_id", view.OrderID))
	return true
}
