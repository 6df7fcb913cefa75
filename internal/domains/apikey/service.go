package apikey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

const (
	EntityType = "apikey"

	// ScopeEmbed gates the machine-consumable embed surface.
	ScopeEmbed = "embed"

	cacheTTL = 60 * time.Second
)

var (
	ErrNotFound  = errors.New("api key not found")
	ErrMissingID = errors.New("api key id is required")
)

// Key is one issued API key. The token itself lives only in the
// partition key and in the one-time create response; listings carry the
// masked preview.
type Key struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	KeyPreview string   `json:"keyPreview"`
	Scopes     []string `json:"scopes"`
	Active     bool     `json:"active"`
	CreatedBy  string   `json:"createdBy,omitempty"`
	CreatedAt  string   `json:"createdAt,omitempty"`
}

func pkFor(token string) string { return "APIKEY#" + token }

type Service struct {
	store store.Store
	redis *redis.Client
}

func NewService(st store.Store, rdb *redis.Client) *Service {
	return &Service{store: st, redis: rdb}
}

// Create mints a new key. The full token is returned exactly once.
func (s *Service) Create(ctx context.Context, name string, scopes []string, createdBy string) (map[string]interface{}, error) {
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	if len(scopes) == 0 {
		scopes = []string{ScopeEmbed}
	}

	k := Key{
		ID:         uuid.New().String(),
		Name:       name,
		KeyPreview: token[:8],
		Scopes:     scopes,
		Active:     true,
		CreatedBy:  createdBy,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	item, err := store.NewItem(pkFor(token), store.MetaSK, EntityType, k.CreatedAt+"#"+k.ID, k)
	if err != nil {
		return nil, fmt.Errorf("encode api key: %w", err)
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store api key: %w", err)
	}

	return map[string]interface{}{
		"id":         k.ID,
		"name":       k.Name,
		"key":        token,
		"keyPreview": k.KeyPreview,
		"scopes":     k.Scopes,
		"createdAt":  k.CreatedAt,
	}, nil
}

// List returns every key, masked.
func (s *Service) List(ctx context.Context) ([]Key, error) {
	items, err := s.store.QueryByType(ctx, EntityType, nil)
	if err != nil {
		return nil, err
	}
	out := make([]Key, 0, len(items))
	for _, it := range items {
		var k Key
		if err := it.Decode(&k); err != nil {
			continue
		}
		out = append(out, k)
	}
	return out, nil
}

// Delete removes a key by its record id. Listings never expose the
// token, so deletion scans the type index for the matching id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	items, err := s.store.QueryByType(ctx, EntityType, nil)
	if err != nil {
		return err
	}
	for _, it := range items {
		var k Key
		if err := it.Decode(&k); err != nil {
			continue
		}
		if k.ID == id {
			if err := s.store.Delete(ctx, it.PK, it.SK); err != nil {
				return err
			}
			s.invalidate(ctx, strings.TrimPrefix(it.PK, "APIKEY#"))
			return nil
		}
	}
	return ErrNotFound
}

// ValidateKey checks a presented token against the store, with a short
// redis cache in front so embed traffic doesn't hammer the table.
func (s *Service) ValidateKey(ctx context.Context, token, scope string) bool {
	k, ok := s.lookup(ctx, token)
	if !ok || !k.Active {
		return false
	}
	for _, granted := range k.Scopes {
		if granted == scope || granted == "*" {
			return true
		}
	}
	return false
}

func (s *Service) lookup(ctx context.Context, token string) (*Key, bool) {
	cacheKey := "apikey:" + token

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			if cached == "miss" {
				return nil, false
			}
			var k Key
			if err := json.Unmarshal([]byte(cached), &k); err == nil {
				return &k, true
			}
		}
	}

	item, err := s.store.Get(ctx, pkFor(token), store.MetaSK)
	if err != nil || item == nil {
		s.cacheSet(ctx, cacheKey, "miss")
		return nil, false
	}
	var k Key
	if err := item.Decode(&k); err != nil {
		return nil, false
	}

	if encoded, err := json.Marshal(k); err == nil {
		s.cacheSet(ctx, cacheKey, string(encoded))
	}
	return &k, true
}

func (s *Service) cacheSet(ctx context.Context, key, value string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, key, value, cacheTTL).Err(); err != nil {
		log.Debug().Err(err).Msg("[APIKEY] Cache write failed")
	}
}

func (s *Service) invalidate(ctx context.Context, token string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, "apikey:"+token).Err(); err != nil {
		log.Debug().Err(err).Msg("[APIKEY] Cache invalidation failed")
	}
}
