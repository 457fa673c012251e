package cart

import (
	"context"
	"sort"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Add(ctx context.Context, userID string, req AddRequest) (*Cart, error)
	Remove(ctx context.Context, userID string, itemID uuid.UUID) (*Cart, error)
	// ClearCart empties the cart; checkout calls it once the order is stored.
	ClearCart(ctx context.Context, userID string) error
}

// ItemReader is the catalog lookup the cart prices lines with.
type ItemReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error)
	GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalog.Item, error)
}

type service struct {
	repo   Repository
	items  ItemReader
	logger *zap.Logger
}

func NewService(repo Repository, items ItemReader, logger *zap.Logger) Service {
	return &service{repo: repo, items: items, logger: logger}
}

func (s *service) Get(ctx context.Context, userID string) (*Cart, error) {
	qty, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	c := &Cart{UserID: userID, Lines: []Line{}}
	if len(qty) == 0 {
		return c, nil
	}

	ids := make([]uuid.UUID, 0, len(qty))
	for id := range qty {
		ids = append(ids, id)
	}
	items, err := s.items.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, id := range ids {
		it, ok := items[id]
		if !ok {
			// item left the catalog; it cannot be checked out anyway
			continue
		}
		c.Lines = append(c.Lines, Line{
			ItemID:     id,
			Name:       it.Name,
			Price:      it.Price,
			Quantity:   qty[id],
			VendorID:   it.VendorID,
			VendorName: it.VendorName,
			Available:  it.Available,
		})
		if it.Available {
			total = total.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(qty[id]))))
		}
	}
	sort.Slice(c.Lines, func(i, j int) bool { return c.Lines[i].Name < c.Lines[j].Name })
	c.Total = total.Round(2).InexactFloat64()
	return c, nil
}

func (s *service) Add(ctx context.Context, userID string, req AddRequest) (*Cart, error) {
	id, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, apperr.Validation("invalid item_id")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		return nil, apperr.Validation("quantity must be > 0")
	}
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !it.Available {
		return nil, apperr.Validation("item %q is currently unavailable", it.Name)
	}
	if err := s.repo.Add(ctx, userID, id, req.Quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *service) Remove(ctx context.Context, userID string, itemID uuid.UUID) (*Cart, error) {
	if err := s.repo.Remove(ctx, userID, itemID); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func (s *service) ClearCart(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return err
	}
	s.logger.Debug("cart cleared", zap.String("user_id", userID))
	return nil
}
