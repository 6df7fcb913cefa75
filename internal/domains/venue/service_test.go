package venue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

func strPtr(s string) *string { return &s }

func TestCreate_WebsiteAliasSync(t *testing.T) {
	svc := NewService(store.NewMemoryStore())
	ctx := context.Background()

	v, err := svc.Create(ctx, CreateReq{Name: "Troubadour", WebsiteURL: "https://troubadour.com"}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "https://troubadour.com", v.Website)
	assert.Equal(t, "https://troubadour.com", v.WebsiteURL)

	// Either alias in the update lands in both stored fields.
	updated, err := svc.Update(ctx, UpdateReq{ID: v.ID, Website: strPtr("https://new.example")})
	require.NoError(t, err)
	assert.Equal(t, "https://new.example", updated.Website)
	assert.Equal(t, "https://new.example", updated.WebsiteURL)
}

func TestCreate_RequiresName(t *testing.T) {
	svc := NewService(store.NewMemoryStore())
	_, err := svc.Create(context.Background(), CreateReq{City: "LA"}, "u1")
	assert.Error(t, err)
}

func TestList_AlphabeticalIsCaseInsensitive(t *testing.T) {
	svc := NewService(store.NewMemoryStore())
	ctx := context.Background()

	for _, name := range []string{"the Mint", "Bowery Ballroom", "ZEBULON"} {
		_, err := svc.Create(ctx, CreateReq{Name: name}, "u1")
		require.NoError(t, err)
	}

	venues, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, venues, 3)
	// Index order is reverse of the lowercased name.
	assert.Equal(t, "ZEBULON", venues[0].Name)
	assert.Equal(t, "the Mint", venues[1].Name)
	assert.Equal(t, "Bowery Ballroom", venues[2].Name)
}

func TestUpdateDelete_Guards(t *testing.T) {
	svc := NewService(store.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.Update(ctx, UpdateReq{})
	assert.ErrorIs(t, err, ErrMissingID)

	_, err = svc.Update(ctx, UpdateReq{ID: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, ""), ErrMissingID)

	v, err := svc.Create(ctx, CreateReq{Name: "gone soon"}, "u1")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, v.ID))
	_, err = svc.Get(ctx, v.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
