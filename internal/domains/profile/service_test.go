package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

type stubStorage struct{}

func (stubStorage) PresignedGetURL(_ context.Context, key string) (string, error) {
	return "https://cdn.test/" + key, nil
}
func (stubStorage) PresignedPutURL(_ context.Context, key string) (string, error) {
	return "https://upload.test/" + key, nil
}
func (stubStorage) Upload(context.Context, string, []byte, string) error { return nil }
func (stubStorage) Delete(context.Context, string) error                 { return nil }
func (stubStorage) DeleteMany(context.Context, []string) error           { return nil }

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestGetSelf_CreatesPrivateProfile(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(st, stubStorage{})
	ctx := context.Background()

	p, err := svc.GetSelf(ctx, "u1", "203.0.113.9")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
	assert.False(t, p.Public, "first-touch profiles start private")
	assert.NotEmpty(t, p.LastLoginAt)
	assert.Equal(t, "203.0.113.9", p.LastLoginIP)

	// The auto-created profile is persisted.
	again, err := svc.GetSelf(ctx, "u1", "198.51.100.1")
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.1", again.LastLoginIP)
}

func TestUpdate_HandleClaiming(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(st, stubStorage{})
	ctx := context.Background()

	p, err := svc.Update(ctx, "u1", UpdateReq{Handle: strPtr("The Frontman")})
	require.NoError(t, err)
	assert.Equal(t, "The Frontman", p.Handle)

	// Another user cannot take the same slug, even spelled differently.
	_, err = svc.Update(ctx, "u2", UpdateReq{Handle: strPtr("the_frontman")})
	assert.ErrorIs(t, err, ErrHandleTaken)

	// Re-claiming your own slug is a no-op.
	_, err = svc.Update(ctx, "u1", UpdateReq{Handle: strPtr("the-frontman")})
	require.NoError(t, err)

	// Switching slugs releases the old claim for others.
	_, err = svc.Update(ctx, "u1", UpdateReq{Handle: strPtr("sax-hero")})
	require.NoError(t, err)
	_, err = svc.Update(ctx, "u2", UpdateReq{Handle: strPtr("the-frontman")})
	require.NoError(t, err)
}

func TestLookup_Visibility(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(st, stubStorage{})
	ctx := context.Background()

	_, err := svc.Update(ctx, "u1", UpdateReq{
		DisplayName: strPtr("Sax Hero"),
		Handle:      strPtr("sax-hero"),
	})
	require.NoError(t, err)

	// Private profile is forbidden, not hidden.
	_, err = svc.Lookup(ctx, "sax-hero")
	assert.ErrorIs(t, err, ErrPrivate)

	_, err = svc.Update(ctx, "u1", UpdateReq{Public: boolPtr(true)})
	require.NoError(t, err)

	// Resolvable by handle and by user id.
	byHandle, err := svc.Lookup(ctx, "sax-hero")
	require.NoError(t, err)
	assert.Equal(t, "u1", byHandle.UserID)

	byID, err := svc.Lookup(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Sax Hero", byID.DisplayName)

	// Unknown identifiers are not found.
	_, err = svc.Lookup(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_Validation(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(st, stubStorage{})

	long := make([]byte, 2001)
	for i := range long {
		long[i] = 'x'
	}
	_, err := svc.Update(context.Background(), "u1", UpdateReq{Bio: strPtr(string(long))})
	assert.Error(t, err)
}

func TestPhotoUploadURL_KeyShape(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(st, stubStorage{})

	out, err := svc.PhotoUploadURL(context.Background(), "u1", "face.PNG")
	require.NoError(t, err)
	assert.Contains(t, out["key"], "profiles/u1/")
	assert.Contains(t, out["key"], ".PNG")
	assert.Equal(t, "https://upload.test/"+out["key"], out["uploadUrl"])
}
