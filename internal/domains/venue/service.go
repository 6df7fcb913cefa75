package venue

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

var (
	ErrNotFound  = errors.New("venue not found")
	ErrMissingID = errors.New("venue id is required")
)

type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) List(ctx context.Context) ([]Venue, error) {
	items, err := s.store.QueryByType(ctx, EntityType, nil)
	if err != nil {
		return nil, err
	}
	out := make([]Venue, 0, len(items))
	for _, it := range items {
		var v Venue
		if err := it.Decode(&v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Venue, error) {
	item, err := s.store.Get(ctx, pkFor(id), store.MetaSK)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	var v Venue
	if err := item.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode venue %s: %w", id, err)
	}
	return &v, nil
}

func (s *Service) Create(ctx context.Context, req CreateReq, addedBy string) (*Venue, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	v := Venue{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		Website:      req.Website,
		WebsiteURL:   req.WebsiteURL,
		Info:         req.Info,
		ThumbnailURL: req.ThumbnailURL,
		Capacity:     req.Capacity,
		AddedBy:      addedBy,
		AddedAt:      nowISO(),
	}
	v.syncWebsite()

	item, err := v.toItem()
	if err != nil {
		return nil, fmt.Errorf("encode venue: %w", err)
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store venue: %w", err)
	}
	return &v, nil
}

func (s *Service) Update(ctx context.Context, req UpdateReq) (*Venue, error) {
	if req.ID == "" {
		return nil, ErrMissingID
	}
	v, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		v.Name = *req.Name
	}
	if req.Address != nil {
		v.Address = *req.Address
	}
	if req.City != nil {
		v.City = *req.City
	}
	if req.State != nil {
		v.State = *req.State
	}
	if req.Website != nil {
		v.Website = *req.Website
	}
	if req.WebsiteURL != nil && *req.WebsiteURL != "" {
		v.Website = *req.WebsiteURL
	}
	if req.Info != nil {
		v.Info = *req.Info
	}
	if req.ThumbnailURL != nil {
		v.ThumbnailURL = *req.ThumbnailURL
	}
	if req.Capacity != nil {
		v.Capacity = *req.Capacity
	}
	v.syncWebsite()
	v.UpdatedAt = nowISO()

	item, err := v.toItem()
	if err != nil {
		return nil, fmt.Errorf("encode venue: %w", err)
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store venue: %w", err)
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	return s.store.Delete(ctx, pkFor(id), store.MetaSK)
}
