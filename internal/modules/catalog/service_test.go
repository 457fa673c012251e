package catalog

import (
	"context"
	"testing"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/auth"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/vendor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc    Service
	repo   Repository
	oldRao *vendor.Vendor
	kathi  *vendor.Vendor
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	vendors := vendor.NewMemoryRepository()
	oldRao := &vendor.Vendor{ID: uuid.New(), Name: "Old Rao Hotel", Email: "rao@example.com"}
	kathi := &vendor.Vendor{ID: uuid.New(), Name: "Kathi Junction", Email: "kathi@example.com"}
	require.NoError(t, vendors.CreateVendor(ctx, oldRao))
	require.NoError(t, vendors.CreateVendor(ctx, kathi))

	repo := NewMemoryRepository()
	vendorSvc := vendor.NewService(vendors, auth.NewIssuer("x", 0), zap.NewNop())
	return fixture{
		svc:    NewService(repo, vendorSvc, vendor.NewResolver(vendors), zap.NewNop()),
		repo:   repo,
		oldRao: oldRao,
		kathi:  kathi,
	}
}

func TestService_CreateItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("vendor creates for itself", func(t *testing.T) {
		actor := auth.Principal{Subject: "o", Role: auth.RoleVendor, VendorID: f.kathi.ID}
		it, err := f.svc.CreateItem(ctx, actor, ItemRequest{
			Name: "Paneer Roll", Category: "Rolls", Price: 60, VendorID: f.oldRao.ID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, f.kathi.ID, it.VendorID)
		assert.True(t, it.Available)
		assert.Zero(t, it.RatingCount)
	})

	t.Run("admin names the vendor loosely", func(t *testing.T) {
		actor := auth.Principal{Subject: "root", Role: auth.RoleAdmin}
		it, err := f.svc.CreateItem(ctx, actor, ItemRequest{
			Name: "Dosa", Category: "South Indian", Price: 50, VendorName: "old rao",
		})
		require.NoError(t, err)
		assert.Equal(t, f.oldRao.ID, it.VendorID)
		assert.Equal(t, "Old Rao Hotel", it.VendorName)
	})

	t.Run("validation", func(t *testing.T) {
		actor := auth.Principal{Subject: "root", Role: auth.RoleAdmin}
		_, err := f.svc.CreateItem(ctx, actor, ItemRequest{Name: "Free", Category: "x", Price: 0, VendorName: "kathi"})
		assert.ErrorIs(t, err, apperr.ErrValidation)
		_, err = f.svc.CreateItem(ctx, actor, ItemRequest{Name: "Soup", Category: "x", Price: 10})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestService_OwnershipAndPause(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := auth.Principal{Subject: "o", Role: auth.RoleVendor, VendorID: f.oldRao.ID}
	other := auth.Principal{Subject: "k", Role: auth.RoleVendor, VendorID: f.kathi.ID}

	it, err := f.svc.CreateItem(ctx, owner, ItemRequest{Name: "Idli", Category: "South Indian", Price: 30})
	require.NoError(t, err)

	_, err = f.svc.SetPaused(ctx, other, it.ID, true)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	paused, err := f.svc.SetPaused(ctx, owner, it.ID, true)
	require.NoError(t, err)
	assert.False(t, paused.Available)

	available, err := f.svc.ListItems(ctx, Filter{VendorID: f.oldRao.ID, AvailableOnly: true})
	require.NoError(t, err)
	assert.Empty(t, available)

	require.NoError(t, f.repo.UpdateRating(ctx, it.ID, 4.5, 2))
	updated, err := f.svc.UpdateItem(ctx, owner, it.ID, ItemRequest{Name: "Idli Vada", Category: "South Indian", Price: 45})
	require.NoError(t, err)
	assert.Equal(t, 45.0, updated.Price)
	assert.Equal(t, 4.5, updated.AverageRating)
	assert.Equal(t, 2, updated.RatingCount)
}
