package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

const EntityType = "category"

var (
	ErrNotFound    = errors.New("category not found")
	ErrMissingID   = errors.New("category id is required")
	ErrMissingName = errors.New("category name is required")
)

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	AddedBy     string `json:"addedBy,omitempty"`
	AddedAt     string `json:"addedAt,omitempty"`
}

func pkFor(id string) string { return "CATEGORY#" + id }

func (cat *Category) toItem() (store.Item, error) {
	sortKey := strings.ToLower(cat.Name) + "#" + cat.ID
	return store.NewItem(pkFor(cat.ID), store.MetaSK, EntityType, sortKey, cat)
}

type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	items, err := s.store.QueryByType(ctx, EntityType, nil)
	if err != nil {
		return nil, err
	}
	out := make([]Category, 0, len(items))
	for _, it := range items {
		var cat Category
		if err := it.Decode(&cat); err != nil {
			continue
		}
		out = append(out, cat)
	}
	return out, nil
}

func (s *Service) Create(ctx context.Context, name, description, addedBy string) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrMissingName
	}

	cat := Category{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Description: description,
		AddedBy:     addedBy,
		AddedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	item, err := cat.toItem()
	if err != nil {
		return nil, fmt.Errorf("encode category: %w", err)
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store category: %w", err)
	}
	return &cat, nil
}

func (s *Service) Update(ctx context.Context, id, name, description string) (*Category, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	item, err := s.store.Get(ctx, pkFor(id), store.MetaSK)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	var cat Category
	if err := item.Decode(&cat); err != nil {
		return nil, fmt.Errorf("decode category %s: %w", id, err)
	}

	if strings.TrimSpace(name) != "" {
		cat.Name = strings.TrimSpace(name)
	}
	if description != "" {
		cat.Description = description
	}

	updated, err := cat.toItem()
	if err != nil {
		return nil, fmt.Errorf("encode category: %w", err)
	}
	if err := s.store.Put(ctx, updated); err != nil {
		return nil, fmt.Errorf("store category: %w", err)
	}
	return &cat, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	return s.store.Delete(ctx, pkFor(id), store.MetaSK)
}
