package country

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/relay/pkg/errorbank"
)

func TestResolve(t *testing.T) {
	t.Run("maps known codes", func(t *testing.T) {
		name, err := Resolve("GB")
		require.NoError(t, err)
		assert.Equal(t, "United Kingdom", name)
	})

	t.Run("is case insensitive", func(t *testing.T) {
		name, err := Resolve("de")
		require.NoError(t, err)
		assert.Equal(t, "Germany", name)
	})

	t.Run("unmapped code returns not found", func(t *testing.T) {
		_, err := Resolve("ZZ")
		require.Error(t, err)
		assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
	})
}
