package order

import (
	"testing"
	"time"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	now := time.Now().UTC()
	x, y := uuid.New(), uuid.New()

	t.Run("one entry per vendor in first-seen order", func(t *testing.T) {
		items := []*OrderItem{
			{ItemID: uuid.New(), Name: "Idli", Price: 50, Quantity: 2, VendorID: x, VendorName: "VendorX"},
			{ItemID: uuid.New(), Name: "Roll", Price: 30, Quantity: 1, VendorID: y, VendorName: "VendorY"},
			{ItemID: uuid.New(), Name: "Vada", Price: 12.5, Quantity: 2, VendorID: x, VendorName: "VendorX"},
		}
		o, err := Split("u1", items, nil, now)
		require.NoError(t, err)

		require.Len(t, o.Vendors, 2)
		assert.Equal(t, x, o.Vendors[0].VendorID)
		assert.Equal(t, y, o.Vendors[1].VendorID)
		for _, e := range o.Vendors {
			assert.Equal(t, StatusProcessing, e.Status)
			assert.Nil(t, e.DeliveredAt)
		}
		assert.Equal(t, StatusProcessing, o.OverallStatus)
		assert.Nil(t, o.DeliveredAt)
		assert.Equal(t, 155.0, o.Amount)
		assert.False(t, o.Paid)
		assert.NotEqual(t, uuid.Nil, o.ID)
	})

	t.Run("float prices sum exactly", func(t *testing.T) {
		items := []*OrderItem{
			{ItemID: uuid.New(), Price: 0.1, Quantity: 1, VendorID: x},
			{ItemID: uuid.New(), Price: 0.2, Quantity: 1, VendorID: x},
		}
		o, err := Split("u1", items, nil, now)
		require.NoError(t, err)
		assert.Equal(t, 0.3, o.Amount)
	})

	t.Run("rejects", func(t *testing.T) {
		_, err := Split("u1", nil, nil, now)
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = Split("u1", []*OrderItem{{ItemID: uuid.New(), Price: 1, Quantity: 1}}, nil, now)
		assert.ErrorIs(t, err, apperr.ErrValidation, "missing vendor")

		_, err = Split("u1", []*OrderItem{{ItemID: uuid.New(), Price: 1, Quantity: 0, VendorID: x}}, nil, now)
		assert.ErrorIs(t, err, apperr.ErrValidation, "zero quantity")

		_, err = Split("", []*OrderItem{{ItemID: uuid.New(), Price: 1, Quantity: 1, VendorID: x}}, nil, now)
		assert.ErrorIs(t, err, apperr.ErrValidation, "no user")
	})
}
