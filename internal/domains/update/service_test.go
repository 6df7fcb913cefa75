package update

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EchoNin9/orangewhip.surf/internal/domains/media"
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

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	return NewService(st, media.NewResolver(st, stubStorage{})), st
}

// seed stores a post with an explicit creation time so ordering is
// deterministic within a test run.
func seed(t *testing.T, st store.Store, u Update) {
	t.Helper()
	item, err := u.toItem()
	require.NoError(t, err)
	require.NoError(t, st.Put(context.Background(), item))
}

func at(day int) string { return fmt.Sprintf("2024-03-%02dT12:00:00Z", day) }

func TestList_VisibilityAndLimit(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	seed(t, st, Update{ID: "a", Title: "oldest", Visible: true, CreatedAt: at(1)})
	seed(t, st, Update{ID: "b", Title: "hidden", Visible: false, CreatedAt: at(2)})
	seed(t, st, Update{ID: "c", Title: "newest", Visible: true, CreatedAt: at(3)})

	visible, err := svc.List(ctx, false, 0)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "newest", visible[0].Title)
	assert.Equal(t, "oldest", visible[1].Title)

	all, err := svc.List(ctx, true, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := svc.List(ctx, false, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "newest", limited[0].Title)
}

func TestPinned_NewestVisiblePinnedWins(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	_, err := svc.Pinned(ctx)
	assert.ErrorIs(t, err, ErrNotFound, "no pinned post yet")

	seed(t, st, Update{ID: "a", Title: "old pin", Visible: true, Pinned: true, CreatedAt: at(1)})
	seed(t, st, Update{ID: "b", Title: "hidden pin", Visible: false, Pinned: true, CreatedAt: at(5)})
	seed(t, st, Update{ID: "c", Title: "new pin", Visible: true, Pinned: true, CreatedAt: at(3)})

	pinned, err := svc.Pinned(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new pin", pinned.Title, "hidden pins never surface")
}

func TestCreate_DefaultsVisible(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateReq{Title: "tour announcement"}, "u1")
	require.NoError(t, err)
	assert.True(t, u.Visible)
	assert.False(t, u.Pinned)

	_, err = svc.Create(ctx, CreateReq{Content: "no title"}, "u1")
	assert.Error(t, err)
}

func TestEnrich_ProjectsMediaRefs(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	mediaItem, err := store.NewItem("MEDIA#m1", store.MetaSK, media.EntityType, "2024-01-01T00:00:00Z#m1", map[string]interface{}{
		"id":        "m1",
		"mediaType": media.KindImage,
		"s3Key":     "media/image/m1/a.jpg",
		"files":     []map[string]string{{"s3Key": "media/image/m1/a.jpg", "filename": "a.jpg"}},
		"public":    true,
	})
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, mediaItem))

	u, err := svc.Create(ctx, CreateReq{Title: "with photo", MediaIDs: []string{"m1", "dangling"}}, "u1")
	require.NoError(t, err)

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.Media, 1, "dangling reference skipped")
	ref := got.Media[0]
	assert.Equal(t, "m1", ref.ID)
	assert.Equal(t, media.KindImage, ref.Type)
	assert.Equal(t, "a.jpg", ref.Filename)
	assert.Equal(t, "https://cdn.test/media/image/m1/a.jpg", ref.URL)
}
