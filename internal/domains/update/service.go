package update

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/EchoNin9/orangewhip.surf/internal/domains/media"
	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

var (
	ErrNotFound  = errors.New("update not found")
	ErrMissingID = errors.New("update id is required")
)

type Service struct {
	store    store.Store
	resolver *media.Resolver
}

func NewService(st store.Store, resolver *media.Resolver) *Service {
	return &Service{store: st, resolver: resolver}
}

// List returns posts newest first. includeHidden is only honored for
// band members and up; everyone else sees visible posts.
func (s *Service) List(ctx context.Context, includeHidden bool, limit int) ([]Enriched, error) {
	var filters map[string]interface{}
	if !includeHidden {
		filters = map[string]interface{}{"visible": true}
	}

	items, err := s.store.QueryByType(ctx, EntityType, filters)
	if err != nil {
		return nil, err
	}

	out := make([]Enriched, 0, len(items))
	for _, it := range items {
		if limit > 0 && len(out) >= limit {
			break
		}
		var u Update
		if err := it.Decode(&u); err != nil {
			continue
		}
		out = append(out, s.enrich(ctx, u))
	}
	return out, nil
}

// Pinned returns the newest pinned, visible post.
func (s *Service) Pinned(ctx context.Context) (*Enriched, error) {
	items, err := s.store.QueryByType(ctx, EntityType, map[string]interface{}{
		"visible": true,
		"pinned":  true,
	})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	var u Update
	if err := items[0].Decode(&u); err != nil {
		return nil, fmt.Errorf("decode update: %w", err)
	}
	e := s.enrich(ctx, u)
	return &e, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Enriched, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	e := s.enrich(ctx, *u)
	return &e, nil
}

func (s *Service) Create(ctx context.Context, req CreateReq, addedBy string) (*Update, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u := Update{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Content:   req.Content,
		MediaIDs:  req.MediaIDs,
		Visible:   req.Visible == nil || *req.Visible,
		Pinned:    req.Pinned,
		AddedBy:   addedBy,
		CreatedAt: nowISO(),
	}

	item, err := u.toItem()
	if err != nil {
		return nil, fmt.Errorf("encode update: %w", err)
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store update: %w", err)
	}
	return &u, nil
}

func (s *Service) Update(ctx context.Context, req UpdateReq) (*Update, error) {
	if req.ID == "" {
		return nil, ErrMissingID
	}
	u, err := s.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		u.Title = *req.Title
	}
	if req.Content != nil {
		u.Content = *req.Content
	}
	if req.MediaIDs != nil {
		u.MediaIDs = *req.MediaIDs
	}
	if req.Visible != nil {
		u.Visible = *req.Visible
	}
	if req.Pinned != nil {
		u.Pinned = *req.Pinned
	}
	u.UpdatedAt = nowISO()

	item, err := u.toItem()
	if err != nil {
		return nil, fmt.Errorf("encode update: %w", err)
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store update: %w", err)
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	return s.store.Delete(ctx, pkFor(id), store.MetaSK)
}

func (s *Service) load(ctx context.Context, id string) (*Update, error) {
	item, err := s.store.Get(ctx, pkFor(id), store.MetaSK)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	var u Update
	if err := item.Decode(&u); err != nil {
		return nil, fmt.Errorf("decode update %s: %w", id, err)
	}
	return &u, nil
}

func (s *Service) enrich(ctx context.Context, u Update) Enriched {
	e := Enriched{Update: u}
	if len(u.MediaIDs) > 0 {
		e.Media = project(s.resolver.ResolveByIDs(ctx, u.MediaIDs))
	}
	return e
}
