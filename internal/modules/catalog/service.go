package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/auth"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/vendor"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines catalog business logic.
type Service interface {
	CreateItem(ctx context.Context, actor auth.Principal, req ItemRequest) (*Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	ListItems(ctx context.Context, f Filter) ([]*Item, error)
	UpdateItem(ctx context.Context, actor auth.Principal, id uuid.UUID, req ItemRequest) (*Item, error)
	// SetPaused hides an item from ordering without deleting it.
	SetPaused(ctx context.Context, actor auth.Principal, id uuid.UUID, paused bool) (*Item, error)
}

// VendorDirectory is the slice of the vendor registry the catalog needs.
type VendorDirectory interface {
	GetVendor(ctx context.Context, id uuid.UUID) (*vendor.Vendor, error)
}

type service struct {
	repo     Repository
	vendors  VendorDirectory
	resolver *vendor.Resolver
	logger   *zap.Logger
}

func NewService(repo Repository, vendors VendorDirectory, resolver *vendor.Resolver, logger *zap.Logger) Service {
	return &service{repo: repo, vendors: vendors, resolver: resolver, logger: logger}
}

func (s *service) CreateItem(ctx context.Context, actor auth.Principal, req ItemRequest) (*Item, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	v, err := s.owningVendor(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	it := &Item{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Category:    strings.TrimSpace(req.Category),
		Image:       req.Image,
		VendorID:    v.ID,
		VendorName:  v.Name,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	s.logger.Info("catalog item created", zap.Stringer("item_id", it.ID), zap.Stringer("vendor_id", v.ID))
	return it, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListItems(ctx context.Context, f Filter) ([]*Item, error) {
	return s.repo.List(ctx, f)
}

func (s *service) UpdateItem(ctx context.Context, actor auth.Principal, id uuid.UUID, req ItemRequest) (*Item, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	it, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	it.Name = strings.TrimSpace(req.Name)
	it.Description = req.Description
	it.Price = req.Price
	it.Category = strings.TrimSpace(req.Category)
	if req.Image != "" {
		it.Image = req.Image
	}
	// only admins may move an item to another vendor
	if actor.Role == auth.RoleAdmin && (req.VendorID != "" || req.VendorName != "") {
		v, err := s.owningVendor(ctx, actor, req)
		if err != nil {
			return nil, err
		}
		it.VendorID, it.VendorName = v.ID, v.Name
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) SetPaused(ctx context.Context, actor auth.Principal, id uuid.UUID, paused bool) (*Item, error) {
	it, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetAvailable(ctx, id, !paused); err != nil {
		return nil, err
	}
	it.Available = !paused
	return it, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (s *service) owningVendor(ctx context.Context, actor auth.Principal, req ItemRequest) (*vendor.Vendor, error) {
	switch {
	case actor.Role == auth.RoleVendor:
		return s.vendors.GetVendor(ctx, actor.VendorID)
	case req.VendorID != "":
		id, err := uuid.Parse(req.VendorID)
		if err != nil {
			return nil, apperr.Validation("invalid vendor_id")
		}
		return s.vendors.GetVendor(ctx, id)
	case req.VendorName != "":
		return s.resolver.ResolveName(ctx, req.VendorName)
	}
	return nil, apperr.Validation("vendor_id or vendor_name is required")
}

func (s *service) editable(ctx context.Context, actor auth.Principal, id uuid.UUID) (*Item, error) {
	it, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == auth.RoleVendor && it.VendorID != actor.VendorID {
		return nil, fmt.Errorf("item %s belongs to another vendor: %w", id, apperr.ErrForbidden)
	}
	return it, nil
}

func validate(req ItemRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return apperr.Validation("name is required")
	}
	if strings.TrimSpace(req.Category) == "" {
		return apperr.Validation("category is required")
	}
	if req.Price <= 0 {
		return apperr.Validation("price must be > 0")
	}
	return nil
}
