package receipt

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/relay/internal/database"
	"github.com/Additional-Code/relay/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/relay/repository/receipt")

// Repository persists processing receipts.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Record inserts one receipt using the write connection.
func (r *Repository) Record(ctx context.Context, receipt *entity.Receipt) error {
	if receipt == nil {
		return errors.New("nil receipt")
	}
	ctx, span := repoTracer.Start(ctx, "ReceiptRepository.Record",
		trace.WithAttributes(attribute.String("order.id", receipt.OrderID)))
	defer span.End()

	_, err := r.writer.NewInsert().Model(receipt).Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// Recent lists the latest receipts, newest first, using the read replica
// when available.
func (r *Repository) Recent(ctx context.Context, limit int) ([]entity.Receipt, error) {
	if limit <= 0 {
		limit = 50
	}
	ctx, span := repoTracer.Start(ctx, "ReceiptRepository.Recent",
		trace.WithAttributes(attribute.Int("limit", limit)))
	defer span.End()

	var receipts []entity.Receipt
	err := r.reader.NewSelect().Model(&receipts).
		Order("processed_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return receipts, nil
}
