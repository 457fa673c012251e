package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/georgemunganga/foodcourt-backend/internal/events"
	"github.com/georgemunganga/foodcourt-backend/internal/events/mocks"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/catalog"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/order"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type feedbackFixture struct {
	svc     Service
	items   catalog.Repository
	pub     *mocks.MockPublisher
	orderID uuid.UUID
	dosa    uuid.UUID
	vendor  uuid.UUID
}

func newFeedbackFixture(t *testing.T) *feedbackFixture {
	t.Helper()
	ctx := context.Background()
	f := &feedbackFixture{
		items:  catalog.NewMemoryRepository(),
		pub:    mocks.NewMockPublisher(gomock.NewController(t)),
		dosa:   uuid.New(),
		vendor: uuid.New(),
	}
	require.NoError(t, f.items.Create(ctx, &catalog.Item{
		ID: f.dosa, Name: "Dosa", Price: 40, VendorID: f.vendor, VendorName: "Old Rao Hotel", Available: true,
	}))

	orders := order.NewMemoryRepository()
	o, err := order.Split("u1", []*order.OrderItem{
		{ItemID: f.dosa, Name: "Dosa", Price: 40, Quantity: 1, VendorID: f.vendor, VendorName: "Old Rao Hotel"},
	}, nil, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, orders.CreateOrder(ctx, o))
	f.orderID = o.ID

	repo := NewMemoryRepository()
	agg := NewRatingAggregator(repo, f.items, 2, zap.NewNop())
	f.svc = NewService(repo, orders, agg, f.pub, zap.NewNop())
	return f
}

func (f *feedbackFixture) request(rating int) SubmitRequest {
	return SubmitRequest{OrderID: f.orderID.String(), ItemID: f.dosa.String(), Rating: rating, Text: " crisp "}
}

func TestService_Submit(t *testing.T) {
	ctx := context.Background()
	f := newFeedbackFixture(t)
	f.pub.EXPECT().Publish(gomock.Any(), events.TopicFeedbackRecorded, f.dosa.String(), gomock.Any()).Return(nil)

	fb, err := f.svc.Submit(ctx, "u1", f.request(4))
	require.NoError(t, err)
	assert.Equal(t, "Dosa", fb.ItemName)
	assert.Equal(t, f.vendor, fb.VendorID)
	assert.Equal(t, "crisp", fb.Text)
	assert.NotNil(t, fb.Photos)

	it, err := f.items.GetByID(ctx, f.dosa)
	require.NoError(t, err)
	assert.Equal(t, 4.0, it.AverageRating)
	assert.Equal(t, 1, it.RatingCount)

	exists, err := f.svc.Check(ctx, "u1", f.orderID, f.dosa)
	require.NoError(t, err)
	assert.True(t, exists)

	t.Run("second submission is a duplicate", func(t *testing.T) {
		_, err := f.svc.Submit(ctx, "u1", f.request(2))
		assert.ErrorIs(t, err, apperr.ErrDuplicateFeedback)

		it, err := f.items.GetByID(ctx, f.dosa)
		require.NoError(t, err)
		assert.Equal(t, 1, it.RatingCount)
	})

	t.Run("listings", func(t *testing.T) {
		byItem, err := f.svc.ListByItem(ctx, f.dosa)
		require.NoError(t, err)
		assert.Len(t, byItem, 1)

		byVendor, err := f.svc.ListByVendor(ctx, f.vendor)
		require.NoError(t, err)
		assert.Len(t, byVendor, 1)

		mine, err := f.svc.ListByUser(ctx, "u2")
		require.NoError(t, err)
		assert.Empty(t, mine)
	})
}

func TestService_SubmitRejections(t *testing.T) {
	ctx := context.Background()
	f := newFeedbackFixture(t)

	for _, rating := range []int{0, 6, -1} {
		_, err := f.svc.Submit(ctx, "u1", f.request(rating))
		assert.ErrorIs(t, err, apperr.ErrValidation, "rating %d", rating)
	}

	req := f.request(5)
	req.Photos = []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "6.jpg"}
	_, err := f.svc.Submit(ctx, "u1", req)
	assert.ErrorIs(t, err, apperr.ErrValidation, "too many photos")

	req = f.request(5)
	req.ItemID = uuid.NewString()
	_, err = f.svc.Submit(ctx, "u1", req)
	assert.ErrorIs(t, err, apperr.ErrValidation, "item not in order")

	req = f.request(5)
	req.OrderID = uuid.NewString()
	_, err = f.svc.Submit(ctx, "u1", req)
	assert.ErrorIs(t, err, apperr.ErrOrderNotFound)

	_, err = f.svc.Submit(ctx, "u2", f.request(5))
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
