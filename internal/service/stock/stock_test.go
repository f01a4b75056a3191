package stock

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/relay/internal/dto"
)

type decrementCall struct {
	productID string
	quantity  int
}

// fakeClient records calls and can be told to fail for specific products.
type fakeClient struct {
	mu       sync.Mutex
	calls    []decrementCall
	failures map[string]error
}

func (f *fakeClient) DecrementStock(_ context.Context, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, decrementCall{productID: productID, quantity: quantity})
	if err, ok := f.failures[productID]; ok {
		return err
	}
	return nil
}

func newManager(client *fakeClient) *Manager {
	return &Manager{client: client, logger: zap.NewNop()}
}

func TestDecrement(t *testing.T) {
	t.Run("skips items without product id", func(t *testing.T) {
		client := &fakeClient{}
		m := newManager(client)

		out := m.Decrement(context.Background(), []dto.LineItem{
			{ProductID: "", SKU: "shipping", Quantity: 1},
			{ProductID: "p1", Quantity: 2},
		})

		require.Len(t, client.calls, 1)
		assert.Equal(t, "p1", client.calls[0].productID)
		assert.Equal(t, 2, client.calls[0].quantity)
		assert.Equal(t, Outcome{Attempted: 1, Failed: 0}, out)
	})

	t.Run("one failure does not block the others", func(t *testing.T) {
		client := &fakeClient{failures: map[string]error{
			"p1": errors.New("backend unavailable"),
		}}
		m := newManager(client)

		out := m.Decrement(context.Background(), []dto.LineItem{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p2", Quantity: 3},
			{ProductID: "p3", Quantity: 1},
		})

		assert.Len(t, client.calls, 3)
		assert.Equal(t, Outcome{Attempted: 3, Failed: 1}, out)
	})

	t.Run("no purchasable items issues no calls", func(t *testing.T) {
		client := &fakeClient{}
		m := newManager(client)

		out := m.Decrement(context.Background(), []dto.LineItem{
			{SKU: "shipping", Quantity: 1},
		})

		assert.Empty(t, client.calls)
		assert.Equal(t, Outcome{}, out)
	})
}
