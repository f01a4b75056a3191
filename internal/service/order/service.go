package order

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/relay/internal/config"
	"github.com/Additional-Code/relay/internal/dto"
	"github.com/Additional-Code/relay/internal/entity"
	"github.com/Additional-Code/relay/internal/messaging"
	"github.com/Additional-Code/relay/internal/notifier"
	"github.com/Additional-Code/relay/internal/orderview"
	receiptrepo "github.com/Additional-Code/relay/internal/repository/receipt"
	"github.com/Additional-Code/relay/internal/service/stock"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/relay/service/order")

// Service runs the order-event pipeline: derive the presentation view, fan
// out notifications and stock decrements, then record what happened.
type Service struct {
	presentation config.Order
	notifier     *notifier.Dispatcher
	stock        *stock.Manager
	receipts     *receiptrepo.Repository
	publisher    messaging.Client
	logger       *zap.Logger
	messaging    messagingConfig
}

// messagingConfig contains messaging specific knobs we care about.
type messagingConfig struct {
	enabled bool
	topic   string
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Notifier  *notifier.Dispatcher
	Stock     *stock.Manager
	Receipts  *receiptrepo.Repository `optional:"true"`
	Publisher messaging.Client
	Config    config.Config
	Logger    *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		presentation: p.Config.Order,
		notifier:     p.Notifier,
		stock:        p.Stock,
		receipts:     p.Receipts,
		publisher:    p.Publisher,
		logger:       p.Logger,
		messaging: messagingConfig{
			enabled: p.Config.Messaging.Enabled,
			topic:   p.Config.Messaging.Kafka.Topic,
		},
	}
}

// ProcessDetached runs Process on its own goroutine. The webhook response has
// already been committed by the time this is called, so failures (including
// panics) end here: logged, never surfaced.
func (s *Service) ProcessDetached(ctx context.Context, resource dto.OrderResource, baseURL string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("order processing panicked",
					zap.String("order_id", resource.Data.ID),
					zap.Any("panic", r),
				)
			}
		}()
		s.Process(ctx, resource, baseURL)
	}()
}

// Process transforms one order notification into its side effects. Stock
// decrement and notification dispatch are independent: a view derivation
// failure skips the emails but never the inventory calls, and no failure in
// either branch affects the other.
func (s *Service) Process(ctx context.Context, resource dto.OrderResource, baseURL string) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Process",
		trace.WithAttributes(attribute.String("order.id", resource.Data.ID)))
	defer span.End()

	var (
		wg        sync.WaitGroup
		stockOut  stock.Outcome
		notifyOut notifier.Outcome
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		stockOut = s.stock.Decrement(ctx, resource.Included.Items)
	}()

	view, err := orderview.Build(resource, s.presentation)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "view derivation failed")
		s.logger.Error("order view derivation failed",
			zap.String("order_id", resource.Data.ID),
			zap.Error(err),
		)
	} else {
		wg.Add(1)
		go func() {
			defer wg.Done()
			notifyOut = s.notifier.Dispatch(ctx, view, baseURL)
		}()
	}

	wg.Wait()

	rcpt := &entity.Receipt{
		OrderID:        resource.Data.ID,
		CustomerEmail:  resource.Data.Customer.Email,
		Amount:         view.Amount,
		ItemsTotal:     stockOut.Attempted,
		ItemsFailed:    stockOut.Failed,
		CustomerMailOK: notifyOut.CustomerSent,
		VendorMailOK:   notifyOut.VendorSent,
		ProcessedAt:    time.Now().UTC(),
	}

	s.recordReceipt(ctx, rcpt)
	s.publishProcessed(ctx, rcpt)
}

func (s *Service) recordReceipt(ctx context.Context, rcpt *entity.Receipt) {
	if s.receipts == nil {
		return
	}
	if err := s.receipts.Record(ctx, rcpt); err != nil {
		s.logger.Warn("receipt write failed",
			zap.String("order_id", rcpt.OrderID),
			zap.Error(err),
		)
	}
}

func (s *Service) publishProcessed(ctx context.Context, rcpt *entity.Receipt) {
	if !s.messaging.enabled || s.publisher == nil {
		return
	}
	event := OrderProcessedEvent{
		OrderID:        rcpt.OrderID,
		CustomerEmail:  rcpt.CustomerEmail,
		Amount:         rcpt.Amount,
		ItemsTotal:     rcpt.ItemsTotal,
		ItemsFailed:    rcpt.ItemsFailed,
		CustomerMailOK: rcpt.CustomerMailOK,
		VendorMailOK:   rcpt.VendorMailOK,
		ProcessedAt:    rcpt.ProcessedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal order processed", zap.Error(err))
		return
	}
	key := []byte(fmt.Sprintf("order-%s", rcpt.OrderID))
	if err := s.publisher.Publish(ctx, key, payload); err != nil {
		s.logger.Error("publish order processed", zap.Error(err))
	}
}

// OrderProcessedEvent is emitted after a notification's side effects settle.
type OrderProcessedEvent struct {
	OrderID        string    `json:"order_id"`
	CustomerEmail  string    `json:"customer_email"`
	Amount         string    `json:"amount"`
	ItemsTotal     int       `json:"items_total"`
	ItemsFailed    int       `json:"items_failed"`
	CustomerMailOK bool      `json:"customer_mail_ok"`
	VendorMailOK   bool      `json:"vendor_mail_ok"`
	ProcessedAt    time.Time `json:"processed_at"`
}
