package webhook

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/relay/internal/dto"
	"github.com/Additional-Code/relay/internal/presentation/http/response"
	service "github.com/Additional-Code/relay/internal/service/order"
	"github.com/Additional-Code/relay/pkg/errorbank"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/relay/transport/http/webhook")

// Handler receives order-completion notifications from the commerce backend.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a webhook Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register routes with the provided Echo instance.
func Register(e *echo.Echo, h *Handler) {
	e.POST("/", h.receive)
}

// receive validates the payload, commits the 200, then detaches the side
// effects. The caller only ever learns that the notification was received,
// never whether stock was decremented or emails were sent.
func (h *Handler) receive(c echo.Context) error {
	b := response.New(c)

	var notification dto.OrderNotification
	if err := c.Bind(&notification); err != nil {
		return b.WithError(errorbank.BadRequest("invalid notification body", errorbank.WithCause(err))).Build()
	}

	resource, err := notification.DecodeResource()
	if err != nil {
		return b.WithError(errorbank.BadRequest("invalid resources payload", errorbank.WithCause(err))).Build()
	}

	_, span := httpTracer.Start(c.Request().Context(), "webhook.receive",
		trace.WithAttributes(attribute.String("order.id", resource.Data.ID)))
	defer span.End()

	// Commit the response before any side effect starts.
	if err := c.NoContent(http.StatusOK); err != nil {
		return err
	}

	// The request context dies with the connection; the detached pipeline
	// must outlive it.
	ctx := context.WithoutCancel(c.Request().Context())
	h.svc.ProcessDetached(ctx, resource, baseURL(c))

	return nil
}

// baseURL rebuilds the inbound request's scheme/host/path; the templates use
// it to resolve relative asset references.
func baseURL(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host + c.Request().URL.Path
}
