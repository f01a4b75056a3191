package orderview

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Additional-Code/relay/internal/dto"
)

func address() dto.AddressRecord {
	return dto.AddressRecord{
		FirstName:    "Ben",
		LastName:     "Wyatt",
		Line1:        "12 Harvest Ln",
		Line2:        "Apt 4",
		City:         "Partridge",
		Postcode:     "55901",
		Country:      "US",
		PhoneNumber:  "555-0100",
		Instructions: "leave at door",
	}
}

func TestEquivalentAddresses(t *testing.T) {
	t.Run("ignores volatile fields", func(t *testing.T) {
		a := address()
		b := address()
		b.PhoneNumber = "555-9999"
		b.Instructions = "ring the bell"

		assert.True(t, EquivalentAddresses(a, b))
	})

	t.Run("differing city is not equivalent", func(t *testing.T) {
		a := address()
		b := address()
		b.City = "Eagleton"

		assert.False(t, EquivalentAddresses(a, b))
	})

	t.Run("field set mismatch fails on cardinality", func(t *testing.T) {
		a := address()
		b := address()
		b.Line2 = ""

		assert.False(t, EquivalentAddresses(a, b))
	})

	t.Run("does not mutate either argument", func(t *testing.T) {
		a := address()
		b := address()
		b.PhoneNumber = "555-9999"

		wantA := a
		wantB := b
		EquivalentAddresses(a, b)

		assert.Equal(t, wantA, a)
		assert.Equal(t, wantB, b)
	})
}
