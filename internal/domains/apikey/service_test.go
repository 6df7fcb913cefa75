package apikey

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

// Tests run without redis; the service treats a nil client as cache-off.
func newTestService() *Service {
	return NewService(store.NewMemoryStore(), nil)
}

func TestCreate_TokenShownOnce(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "widget key", nil, "admin-1")
	require.NoError(t, err)

	token, _ := created["key"].(string)
	require.Len(t, token, 32, "uuid with hyphens stripped")
	assert.Equal(t, token[:8], created["keyPreview"])
	assert.Equal(t, []string{ScopeEmbed}, created["scopes"], "scopes default to embed")

	// Listings carry only the preview.
	keys, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, token[:8], keys[0].KeyPreview)
	assert.True(t, keys[0].Active)
}

func TestValidateKey_Scopes(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "embed key", []string{ScopeEmbed}, "admin-1")
	require.NoError(t, err)
	token := created["key"].(string)

	assert.True(t, svc.ValidateKey(ctx, token, ScopeEmbed))
	assert.False(t, svc.ValidateKey(ctx, token, "admin"), "ungranted scope")
	assert.False(t, svc.ValidateKey(ctx, "bogus-token", ScopeEmbed))

	wildcard, err := svc.Create(ctx, "master key", []string{"*"}, "admin-1")
	require.NoError(t, err)
	assert.True(t, svc.ValidateKey(ctx, wildcard["key"].(string), "anything"))
}

func TestDelete_ByRecordID(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "doomed", nil, "admin-1")
	require.NoError(t, err)
	token := created["key"].(string)
	id := created["id"].(string)

	require.True(t, svc.ValidateKey(ctx, token, ScopeEmbed))
	require.NoError(t, svc.Delete(ctx, id))
	assert.False(t, svc.ValidateKey(ctx, token, ScopeEmbed))

	assert.ErrorIs(t, svc.Delete(ctx, id), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, ""), ErrMissingID)
}
