package order

import (
	"testing"
	"time"

	"github.com/georgemunganga/foodcourt-backend/internal/modules/catalog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type projectorFixture struct {
	order      *Order
	x, y       uuid.UUID
	idli, roll uuid.UUID
	cat        Catalog
}

func newProjectorFixture(t *testing.T) projectorFixture {
	t.Helper()
	f := projectorFixture{x: uuid.New(), y: uuid.New(), idli: uuid.New(), roll: uuid.New()}
	o, err := Split("u1", []*OrderItem{
		{ItemID: f.idli, Name: "Idli", Price: 50, Quantity: 2, VendorID: f.x, VendorName: "VendorX"},
		{ItemID: f.roll, Name: "Roll", Price: 30, Quantity: 1, VendorID: f.y, VendorName: "VendorY"},
	}, nil, time.Now().UTC())
	require.NoError(t, err)
	f.order = o
	f.cat = Catalog{
		f.idli: {ID: f.idli, Name: "Idli", Price: 55, Category: "Breakfast", VendorID: f.x, VendorName: "VendorX"},
		f.roll: {ID: f.roll, Name: "Roll", Price: 30, Category: "Rolls", VendorID: f.y, VendorName: "VendorY"},
	}
	return f
}

func TestProjectForVendor(t *testing.T) {
	f := newProjectorFixture(t)

	v := ProjectForVendor(f.order, f.x, "VendorX", f.cat)
	require.Len(t, v.Items, 1)
	assert.Equal(t, f.idli, v.Items[0].ItemID)
	// totals use the checkout snapshot, details show the live catalog
	assert.Equal(t, 100.0, v.VendorTotal)
	require.NotNil(t, v.Items[0].Details)
	assert.Equal(t, 55.0, v.Items[0].Details.Price)
	assert.Equal(t, StatusProcessing, v.VendorStatus)
	assert.False(t, v.NeedsRepair)

	y := ProjectForVendor(f.order, f.y, "VendorY", f.cat)
	assert.Equal(t, 30.0, y.VendorTotal)
}

func TestProjectForVendor_NoItemsIsEmptyView(t *testing.T) {
	f := newProjectorFixture(t)
	stranger := uuid.New()

	v := ProjectForVendor(f.order, stranger, "Nobody", f.cat)
	assert.NotNil(t, v.Items)
	assert.Empty(t, v.Items)
	assert.Zero(t, v.VendorTotal)
	assert.Equal(t, StatusProcessing, v.VendorStatus)
	assert.False(t, v.NeedsRepair)
}

func TestProjectForVendor_FollowsCatalogAndIsPure(t *testing.T) {
	f := newProjectorFixture(t)
	z := uuid.New()
	f.cat[f.roll] = &catalog.Item{ID: f.roll, Name: "Roll", VendorID: z, VendorName: "VendorZ"}
	before := f.order.clone()

	v := ProjectForVendor(f.order, z, "VendorZ", f.cat)
	require.Len(t, v.Items, 1)
	assert.True(t, v.NeedsRepair)
	assert.Equal(t, before, f.order, "projection must not mutate the order")

	assert.Empty(t, ProjectForVendor(f.order, f.y, "VendorY", f.cat).Items)
}

func TestProjectForVendor_RemovedCatalogItem(t *testing.T) {
	f := newProjectorFixture(t)
	delete(f.cat, f.idli)

	v := ProjectForVendor(f.order, f.x, "VendorX", f.cat)
	require.Len(t, v.Items, 1)
	assert.Nil(t, v.Items[0].Details)
	assert.Equal(t, 100.0, v.VendorTotal)
}

func TestGroupByVendor(t *testing.T) {
	f := newProjectorFixture(t)

	groups := GroupByVendor(f.order, f.cat)
	require.Len(t, groups, 2)
	assert.Equal(t, f.x, groups[0].VendorID)
	assert.Equal(t, "VendorX", groups[0].VendorName)
	assert.Equal(t, f.y, groups[1].VendorID)
}

func TestMissingVendors(t *testing.T) {
	f := newProjectorFixture(t)
	assert.Empty(t, MissingVendors(f.order, f.cat))

	z := uuid.New()
	f.cat[f.roll] = &catalog.Item{ID: f.roll, VendorID: z, VendorName: "VendorZ"}
	missing := MissingVendors(f.order, f.cat)
	require.Len(t, missing, 1)
	assert.Equal(t, z, missing[0].VendorID)
	assert.Equal(t, StatusProcessing, missing[0].Status)
}

func TestLinkVendor(t *testing.T) {
	f := newProjectorFixture(t)
	assert.False(t, linkVendor(f.order, f.x, f.cat), "already linked")
	assert.False(t, linkVendor(f.order, uuid.New(), f.cat), "owns nothing")
	require.Len(t, f.order.Vendors, 2)

	z := uuid.New()
	f.cat[f.roll] = &catalog.Item{ID: f.roll, VendorID: z, VendorName: "VendorZ"}
	require.True(t, linkVendor(f.order, z, f.cat))
	require.Len(t, f.order.Vendors, 3)
	assert.Equal(t, StatusProcessing, f.order.Vendor(z).Status)
	assert.False(t, linkVendor(f.order, z, f.cat), "second call is a no-op")
}
