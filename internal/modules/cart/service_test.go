package cart

import (
	"context"
	"testing"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/catalog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_Cart(t *testing.T) {
	ctx := context.Background()
	items := catalog.NewMemoryRepository()
	dosa := &catalog.Item{ID: uuid.New(), Name: "Dosa", Price: 40.5, VendorID: uuid.New(), Available: true}
	roll := &catalog.Item{ID: uuid.New(), Name: "Roll", Price: 30, VendorID: uuid.New(), Available: true}
	require.NoError(t, items.Create(ctx, dosa))
	require.NoError(t, items.Create(ctx, roll))
	svc := NewService(NewMemoryRepository(), items, zap.NewNop())

	_, err := svc.Add(ctx, "u1", AddRequest{ItemID: dosa.ID.String(), Quantity: 2})
	require.NoError(t, err)
	c, err := svc.Add(ctx, "u1", AddRequest{ItemID: roll.ID.String()})
	require.NoError(t, err)
	require.Len(t, c.Lines, 2)
	assert.Equal(t, "Dosa", c.Lines[0].Name)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, 111.0, c.Total)

	c, err = svc.Remove(ctx, "u1", roll.ID)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, 81.0, c.Total)

	require.NoError(t, items.SetAvailable(ctx, roll.ID, false))
	_, err = svc.Add(ctx, "u1", AddRequest{ItemID: roll.ID.String()})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Add(ctx, "u1", AddRequest{ItemID: uuid.NewString()})
	assert.ErrorIs(t, err, apperr.ErrItemNotFound)

	require.NoError(t, svc.ClearCart(ctx, "u1"))
	c, err = svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, c.Lines)
	assert.Zero(t, c.Total)
}
