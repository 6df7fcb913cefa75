package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/EchoNin9/orangewhip.surf/internal/domains/media"
	"github.com/EchoNin9/orangewhip.surf/internal/shared/utils"
	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

var (
	ErrNotFound    = errors.New("profile not found")
	ErrPrivate     = errors.New("profile is private")
	ErrHandleTaken = errors.New("handle is already taken")
)

type Service struct {
	store   store.Store
	storage media.ObjectStorage
}

func NewService(st store.Store, storage media.ObjectStorage) *Service {
	return &Service{store: st, storage: storage}
}

// GetSelf returns the caller's profile, creating an empty private one
// on first access. Last-login tracking is best-effort: a failed write
// never fails the read.
func (s *Service) GetSelf(ctx context.Context, userID, clientIP string) (*Profile, error) {
	p, err := s.load(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if p == nil {
		p = &Profile{UserID: userID}
	}

	p.LastLoginAt = nowISO()
	p.LastLoginIP = clientIP
	if item, err := p.toItem(); err == nil {
		if err := s.store.Put(ctx, item); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("[PROFILE] Last-login update failed")
		}
	}
	return p, nil
}

// Update applies the named fields. A handle change claims the new slug
// with a guarded insert and releases the old one only after the claim
// sticks, so two concurrent claims cannot both win.
func (s *Service) Update(ctx context.Context, userID string, req UpdateReq) (*Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.load(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if p == nil {
		p = &Profile{UserID: userID}
	}

	if req.Handle != nil {
		if err := s.claimHandle(ctx, p, *req.Handle); err != nil {
			return nil, err
		}
		p.Handle = *req.Handle
	}
	if req.DisplayName != nil {
		p.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		p.Bio = *req.Bio
	}
	if req.PhotoKey != nil {
		p.PhotoKey = *req.PhotoKey
	}
	if req.Public != nil {
		p.Public = *req.Public
	}
	p.UpdatedAt = nowISO()

	item, err := p.toItem()
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store profile: %w", err)
	}
	return p, nil
}

// Lookup resolves a public profile by user id or handle slug.
func (s *Service) Lookup(ctx context.Context, identifier string) (*Profile, error) {
	p, err := s.load(ctx, identifier)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if p == nil {
		p, err = s.loadByHandle(ctx, identifier)
		if err != nil {
			return nil, err
		}
	}
	if !p.Public {
		return nil, ErrPrivate
	}
	return p, nil
}

// PhotoUploadURL issues a presigned slot for a new profile photo.
func (s *Service) PhotoUploadURL(ctx context.Context, userID, filename string) (map[string]string, error) {
	ext := "jpg"
	if filename != "" {
		ext = extOf(filename)
	}
	key := fmt.Sprintf("profiles/%s/%s.%s", userID, uuid.New().String(), ext)

	u, err := s.storage.PresignedPutURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("presign photo upload: %w", err)
	}
	return map[string]string{"uploadUrl": u, "key": key}, nil
}

// PhotoURL presigns the stored photo key for display.
func (s *Service) PhotoURL(ctx context.Context, p *Profile) string {
	if p == nil || p.PhotoKey == "" {
		return ""
	}
	u, err := s.storage.PresignedGetURL(ctx, p.PhotoKey)
	if err != nil {
		log.Warn().Err(err).Str("key", p.PhotoKey).Msg("[PROFILE] Presign failed")
		return ""
	}
	return u
}

// ListAll returns every profile, for the admin surface.
func (s *Service) ListAll(ctx context.Context) ([]Profile, error) {
	items, err := s.store.QueryByType(ctx, EntityType, nil)
	if err != nil {
		return nil, err
	}
	out := make([]Profile, 0, len(items))
	for _, it := range items {
		var p Profile
		if err := it.Decode(&p); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// claimHandle enforces slug uniqueness. Re-claiming your own slug is a
// no-op; switching slugs releases the old claim after the new one lands.
func (s *Service) claimHandle(ctx context.Context, p *Profile, newHandle string) error {
	newSlug := utils.NormalizeHandle(newHandle)
	oldSlug := utils.NormalizeHandle(p.Handle)
	if newSlug == "" || newSlug == oldSlug {
		return nil
	}

	claim, err := store.NewItem(handlePK(newSlug), store.MetaSK, "handle", newSlug,
		HandleClaim{Slug: newSlug, UserID: p.UserID})
	if err != nil {
		return fmt.Errorf("encode handle claim: %w", err)
	}

	inserted, err := s.store.PutIfAbsent(ctx, claim)
	if err != nil {
		return fmt.Errorf("claim handle: %w", err)
	}
	if !inserted {
		// Existing claim is fine only when it is already ours.
		existing, err := s.store.Get(ctx, handlePK(newSlug), store.MetaSK)
		if err != nil || existing == nil {
			return ErrHandleTaken
		}
		var hc HandleClaim
		if err := existing.Decode(&hc); err != nil || hc.UserID != p.UserID {
			return ErrHandleTaken
		}
	}

	if oldSlug != "" {
		if err := s.store.Delete(ctx, handlePK(oldSlug), store.MetaSK); err != nil {
			log.Warn().Err(err).Str("slug", oldSlug).Msg("[PROFILE] Old handle release failed")
		}
	}
	return nil
}

func (s *Service) load(ctx context.Context, userID string) (*Profile, error) {
	item, err := s.store.Get(ctx, userPK(userID), ProfileSK)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	var p Profile
	if err := item.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	return &p, nil
}

func (s *Service) loadByHandle(ctx context.Context, handle string) (*Profile, error) {
	slug := utils.NormalizeHandle(handle)
	if slug == "" {
		return nil, ErrNotFound
	}
	item, err := s.store.Get(ctx, handlePK(slug), store.MetaSK)
	if err != nil || item == nil {
		return nil, ErrNotFound
	}
	var hc HandleClaim
	if err := item.Decode(&hc); err != nil {
		return nil, ErrNotFound
	}
	return s.load(ctx, hc.UserID)
}

func extOf(filename string) string {
	for i := len(filename) - 1; i >= 0; i-- {
		if filename[i] == '.' {
			if i == len(filename)-1 {
				return "jpg"
			}
			return filename[i+1:]
		}
	}
	return "jpg"
}
