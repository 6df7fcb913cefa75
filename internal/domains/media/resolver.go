package media

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

// ObjectStorage is the slice of the storage collaborator the media
// domain needs. Satisfied by storage.MinIOStorage.
type ObjectStorage interface {
	PresignedGetURL(ctx context.Context, key string) (string, error)
	PresignedPutURL(ctx context.Context, key string) (string, error)
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys []string) error
}

var imageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
	"gif":  true,
}

// IsThumbnailEligible reports whether a storage key can serve as a
// thumbnail. The same predicate classifies stored thumbnail keys and
// just-uploaded primary keys.
func IsThumbnailEligible(key string) bool {
	if key == "" {
		return false
	}
	if strings.HasPrefix(key, "thumbnails/") {
		return true
	}
	if strings.HasPrefix(key, "media/image") {
		return true
	}
	return imageExtensions[extOf(key)]
}

// Enriched is a media record plus its derived presentation fields.
// URLs are presigned per request, never persisted.
type Enriched struct {
	Media
	URL          string    `json:"url,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Type         string    `json:"type"`
	FileURLs     []FileURL `json:"fileUrls,omitempty"`
}

// FileURL pairs an auxiliary file with its retrieval URL.
type FileURL struct {
	File
	URL string `json:"url,omitempty"`
}

// Resolver expands stored media references into consumable URLs.
type Resolver struct {
	store   store.Store
	storage ObjectStorage
}

func NewResolver(st store.Store, storage ObjectStorage) *Resolver {
	return &Resolver{store: st, storage: storage}
}

// Enrich attaches retrieval URLs to a record. When an image item has no
// distinct thumbnail the primary URL doubles as the thumbnail URL.
func (r *Resolver) Enrich(ctx context.Context, m Media) Enriched {
	e := Enriched{Media: m, Type: m.MediaType}

	if m.S3Key != "" {
		e.URL = r.presign(ctx, m.S3Key)
	}

	// A stored key only surfaces when the same predicate that gates
	// writes accepts it; anything else falls through as if unset.
	switch {
	case IsThumbnailEligible(m.ThumbnailKey):
		e.ThumbnailURL = r.presign(ctx, m.ThumbnailKey)
	case m.MediaType == KindImage:
		e.ThumbnailURL = e.URL
	}

	for _, f := range m.Files {
		e.FileURLs = append(e.FileURLs, FileURL{File: f, URL: r.presign(ctx, f.S3Key)})
	}

	return e
}

func (r *Resolver) EnrichMany(ctx context.Context, items []Media) []Enriched {
	out := make([]Enriched, 0, len(items))
	for _, m := range items {
		out = append(out, r.Enrich(ctx, m))
	}
	return out
}

// ResolveByIDs looks up and enriches a list of media ids. Ids that no
// longer resolve are skipped, a dangling reference never fails the batch.
func (r *Resolver) ResolveByIDs(ctx context.Context, ids []string) []Enriched {
	out := make([]Enriched, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		item, err := r.store.Get(ctx, pkFor(id), store.MetaSK)
		if err != nil || item == nil {
			continue
		}
		var m Media
		if err := item.Decode(&m); err != nil {
			continue
		}
		out = append(out, r.Enrich(ctx, m))
	}
	return out
}

// ThumbnailURLFor resolves the display thumbnail for an entity holding
// a media list: the explicit reference wins, otherwise the first
// image-kind item in stored order.
func (r *Resolver) ThumbnailURLFor(ctx context.Context, thumbnailMediaID string, mediaIDs []string) string {
	if thumbnailMediaID != "" {
		if resolved := r.ResolveByIDs(ctx, []string{thumbnailMediaID}); len(resolved) > 0 {
			if u := resolved[0].ThumbnailURL; u != "" {
				return u
			}
			return resolved[0].URL
		}
	}
	for _, e := range r.ResolveByIDs(ctx, mediaIDs) {
		if e.MediaType == KindImage {
			if e.ThumbnailURL != "" {
				return e.ThumbnailURL
			}
			return e.URL
		}
	}
	return ""
}

func (r *Resolver) presign(ctx context.Context, key string) string {
	u, err := r.storage.PresignedGetURL(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[MEDIA] Presign failed")
		return ""
	}
	return u
}
