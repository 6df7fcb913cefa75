package press

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/EchoNin9/orangewhip.surf/internal/domains/media"
	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

var (
	ErrNotFound  = errors.New("press item not found")
	ErrMissingID = errors.New("press item id is required")
)

type Service struct {
	store   store.Store
	storage media.ObjectStorage
}

func NewService(st store.Store, storage media.ObjectStorage) *Service {
	return &Service{store: st, storage: storage}
}

// List returns press items newest first. includeHidden is only honored
// for editors and up.
func (s *Service) List(ctx context.Context, includeHidden bool) ([]Enriched, error) {
	var filters map[string]interface{}
	if !includeHidden {
		filters = map[string]interface{}{"public": true}
	}

	items, err := s.store.QueryByType(ctx, EntityType, filters)
	if err != nil {
		return nil, err
	}

	out := make([]Enriched, 0, len(items))
	for _, it := range items {
		var p Press
		if err := it.Decode(&p); err != nil {
			continue
		}
		out = append(out, s.enrich(ctx, p))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string, trusted bool) (*Enriched, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Public && !trusted {
		return nil, ErrNotFound
	}
	e := s.enrich(ctx, *p)
	return &e, nil
}

func (s *Service) Create(ctx context.Context, req CreateReq, addedBy string) (*Press, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := Press{
		ID:              uuid.New().String(),
		Title:           req.Title,
		Description:     req.Description,
		FileAttachments: req.FileAttachments,
		Links:           req.Links,
		Public:          req.Public == nil || *req.Public,
		Pinned:          req.Pinned,
		AddedBy:         addedBy,
		CreatedAt:       nowISO(),
	}

	item, err := p.toItem()
	if err != nil {
		return nil, fmt.Errorf("encode press item: %w", err)
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store press item: %w", err)
	}
	return &p, nil
}

func (s *Service) Update(ctx context.Context, req UpdateReq) (*Press, error) {
	if req.ID == "" {
		return nil, ErrMissingID
	}
	p, err := s.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.FileAttachments != nil {
		p.FileAttachments = *req.FileAttachments
	}
	if req.Links != nil {
		p.Links = *req.Links
	}
	if req.Public != nil {
		p.Public = *req.Public
	}
	if req.Pinned != nil {
		p.Pinned = *req.Pinned
	}
	p.UpdatedAt = nowISO()

	item, err := p.toItem()
	if err != nil {
		return nil, fmt.Errorf("encode press item: %w", err)
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store press item: %w", err)
	}
	return p, nil
}

// Delete removes the record and its attachment objects, best-effort on
// the storage side.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	for _, a := range p.FileAttachments {
		if a.S3Key == "" {
			continue
		}
		if err := s.storage.Delete(ctx, a.S3Key); err != nil {
			log.Warn().Err(err).Str("key", a.S3Key).Str("press_id", id).Msg("[PRESS] Storage cleanup failed")
		}
	}
	return s.store.Delete(ctx, pkFor(id), store.MetaSK)
}

// UploadURL issues a presigned slot for a new attachment.
func (s *Service) UploadURL(ctx context.Context, filename string) (map[string]string, error) {
	fileID := uuid.New().String()
	if filename == "" {
		filename = fileID
	}
	key := fmt.Sprintf("press/%s/%s", fileID, filename)

	u, err := s.storage.PresignedPutURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("presign press upload: %w", err)
	}
	return map[string]string{"uploadUrl": u, "key": key, "fileId": fileID}, nil
}

func (s *Service) load(ctx context.Context, id string) (*Press, error) {
	item, err := s.store.Get(ctx, pkFor(id), store.MetaSK)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	var p Press
	if err := item.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode press item %s: %w", id, err)
	}
	return &p, nil
}

func (s *Service) enrich(ctx context.Context, p Press) Enriched {
	e := Enriched{Press: p}
	for _, a := range p.FileAttachments {
		enriched := EnrichedAttachment{Attachment: a}
		if a.S3Key != "" {
			u, err := s.storage.PresignedGetURL(ctx, a.S3Key)
			if err != nil {
				log.Warn().Err(err).Str("key", a.S3Key).Msg("[PRESS] Presign failed")
			} else {
				enriched.URL = u
			}
		}
		e.FileAttachments = append(e.FileAttachments, enriched)
	}
	e.Attachments = e.FileAttachments
	return e
}
