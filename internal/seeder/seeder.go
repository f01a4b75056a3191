package seeder

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/relay/internal/database"
	"github.com/Additional-Code/relay/internal/entity"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// Receipts seeds example processing receipts if they are missing.
func (s *Seeder) Receipts(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []entity.Receipt{
		{
			OrderID:        "b5a54f0c-d32f-4b92-b0a2-d00711a770f1",
			CustomerEmail:  "ron@swanson.com",
			Amount:         "$ 105.00",
			ItemsTotal:     2,
			CustomerMailOK: true,
			VendorMailOK:   true,
			ProcessedAt:    now,
		},
		{
			OrderID:        "0c2514ab-29c0-4f17-9b33-a21ba2a0a3c5",
			CustomerEmail:  "leslie@knope.com",
			Amount:         "$ 42.50",
			ItemsTotal:     1,
			ItemsFailed:    1,
			CustomerMailOK: true,
			ProcessedAt:    now,
		},
	}

	for _, sample := range samples {
		receipt := sample
		_, err := s.db.NewInsert().Model(&receipt).
			On("CONFLICT (order_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("seeded receipts", zap.Int("count", len(samples)))
	}
	return nil
}
