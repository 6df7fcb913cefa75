package show

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/EchoNin9/orangewhip.surf/internal/domains/media"
	"github.com/EchoNin9/orangewhip.surf/internal/domains/venue"
	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

var (
	ErrNotFound  = errors.New("show not found")
	ErrMissingID = errors.New("show id is required")
)

type Service struct {
	store    store.Store
	venues   *venue.Service
	resolver *media.Resolver
}

func NewService(st store.Store, venues *venue.Service, resolver *media.Resolver) *Service {
	return &Service{store: st, venues: venues, resolver: resolver}
}

// Listing is the GET /shows shape: upcoming ascending by date, past
// descending. A show dated today is upcoming.
type Listing struct {
	Upcoming []Enriched `json:"upcoming"`
	Past     []Enriched `json:"past"`
}

func (s *Service) List(ctx context.Context) (*Listing, error) {
	items, err := s.store.QueryByType(ctx, EntityType, nil)
	if err != nil {
		return nil, err
	}

	shows := make([]Show, 0, len(items))
	for _, it := range items {
		var sh Show
		if err := it.Decode(&sh); err != nil {
			continue
		}
		shows = append(shows, sh)
	}

	cutoff := today()
	var upcoming, past []Show
	for _, sh := range shows {
		if sh.Date >= cutoff {
			upcoming = append(upcoming, sh)
		} else {
			past = append(past, sh)
		}
	}
	// ISO dates sort lexicographically, so string compare is date compare.
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Date < upcoming[j].Date })
	sort.Slice(past, func(i, j int) bool { return past[i].Date > past[j].Date })

	venuesByID := s.venueMap(ctx)
	return &Listing{
		Upcoming: s.enrichAll(ctx, upcoming, venuesByID),
		Past:     s.enrichAll(ctx, past, venuesByID),
	}, nil
}

// Upcoming returns just the upcoming half, ascending. Used by the embed
// surface.
func (s *Service) Upcoming(ctx context.Context) ([]Enriched, error) {
	listing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return listing.Upcoming, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Enriched, error) {
	sh, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	e := s.enrich(ctx, *sh, s.venueMap(ctx))
	return &e, nil
}

func (s *Service) Create(ctx context.Context, req CreateReq, addedBy string) (*Show, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sh := Show{
		ID:               uuid.New().String(),
		Date:             req.Date,
		Title:            req.Title,
		Description:      req.Description,
		VenueID:          req.VenueID,
		TicketURL:        req.TicketURL,
		SetTime:          req.SetTime,
		MediaIDs:         req.MediaIDs,
		ThumbnailMediaID: req.ThumbnailMediaID,
		AddedBy:          addedBy,
		AddedAt:          nowISO(),
	}

	item, err := sh.toItem()
	if err != nil {
		return nil, fmt.Errorf("encode show: %w", err)
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store show: %w", err)
	}
	return &sh, nil
}

func (s *Service) Update(ctx context.Context, req UpdateReq) (*Show, error) {
	if req.ID == "" {
		return nil, ErrMissingID
	}
	sh, err := s.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		sh.Date = *req.Date
	}
	if req.Title != nil {
		sh.Title = *req.Title
	}
	if req.Description != nil {
		sh.Description = *req.Description
	}
	if req.VenueID != nil {
		sh.VenueID = *req.VenueID
	}
	if req.TicketURL != nil {
		sh.TicketURL = *req.TicketURL
	}
	if req.SetTime != nil {
		sh.SetTime = *req.SetTime
	}
	if req.MediaIDs != nil {
		sh.MediaIDs = *req.MediaIDs
	}
	if req.ThumbnailMediaID != nil {
		sh.ThumbnailMediaID = *req.ThumbnailMediaID
	}
	sh.UpdatedAt = nowISO()

	// The sort key follows the date, toItem recomputes it.
	item, err := sh.toItem()
	if err != nil {
		return nil, fmt.Errorf("encode show: %w", err)
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store show: %w", err)
	}
	return sh, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	return s.store.Delete(ctx, pkFor(id), store.MetaSK)
}

func (s *Service) load(ctx context.Context, id string) (*Show, error) {
	item, err := s.store.Get(ctx, pkFor(id), store.MetaSK)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	var sh Show
	if err := item.Decode(&sh); err != nil {
		return nil, fmt.Errorf("decode show %s: %w", id, err)
	}
	return &sh, nil
}

// venueMap loads every venue once per request instead of per show.
// A degraded venue list just renders shows without venue blocks.
func (s *Service) venueMap(ctx context.Context) map[string]venue.Venue {
	venues, err := s.venues.List(ctx)
	if err != nil {
		return map[string]venue.Venue{}
	}
	byID := make(map[string]venue.Venue, len(venues))
	for _, v := range venues {
		byID[v.ID] = v
	}
	return byID
}

func (s *Service) enrichAll(ctx context.Context, shows []Show, venuesByID map[string]venue.Venue) []Enriched {
	out := make([]Enriched, 0, len(shows))
	for _, sh := range shows {
		out = append(out, s.enrich(ctx, sh, venuesByID))
	}
	return out
}

func (s *Service) enrich(ctx context.Context, sh Show, venuesByID map[string]venue.Venue) Enriched {
	e := Enriched{Show: sh}
	if v, ok := venuesByID[sh.VenueID]; ok {
		e.Venue = &v
	}
	if len(sh.MediaIDs) > 0 {
		e.Media = s.resolver.ResolveByIDs(ctx, sh.MediaIDs)
	}
	e.ThumbnailURL = s.resolver.ThumbnailURLFor(ctx, sh.ThumbnailMediaID, sh.MediaIDs)
	return e
}
