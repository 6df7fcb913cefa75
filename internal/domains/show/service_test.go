package show

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EchoNin9/orangewhip.surf/internal/domains/media"
	"github.com/EchoNin9/orangewhip.surf/internal/domains/venue"
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

func newTestService(t *testing.T) (*Service, *venue.Service, store.Store) {
	t.Helper()
	st := store.NewMemoryStore()
	venues := venue.NewService(st)
	resolver := media.NewResolver(st, stubStorage{})
	return NewService(st, venues, resolver), venues, st
}

func isoDate(daysFromNow int) string {
	return time.Now().UTC().AddDate(0, 0, daysFromNow).Format("2006-01-02")
}

func TestList_PartitionAndOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	mk := func(title string, daysFromNow int) {
		t.Helper()
		_, err := svc.Create(ctx, CreateReq{Title: title, Date: isoDate(daysFromNow)}, "u1")
		require.NoError(t, err)
	}
	mk("next month", 30)
	mk("last year", -365)
	mk("tonight", 0)
	mk("last week", -7)
	mk("next week", 7)

	listing, err := svc.List(ctx)
	require.NoError(t, err)

	// A show dated today counts as upcoming, and upcoming sorts ascending.
	titles := func(es []Enriched) []string {
		out := make([]string, len(es))
		for i, e := range es {
			out[i] = e.Title
		}
		return out
	}
	assert.Equal(t, []string{"tonight", "next week", "next month"}, titles(listing.Upcoming))
	// Past sorts descending, most recent first.
	assert.Equal(t, []string{"last week", "last year"}, titles(listing.Past))
}

func TestCreate_RequiresValidDate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateReq{Title: "no date"}, "u1")
	assert.Error(t, err)

	_, err = svc.Create(ctx, CreateReq{Title: "bad date", Date: "July 4th"}, "u1")
	assert.Error(t, err)

	_, err = svc.Create(ctx, CreateReq{Date: isoDate(1)}, "u1")
	assert.Error(t, err, "title required")
}

func TestGet_EnrichesVenue(t *testing.T) {
	svc, venues, _ := newTestService(t)
	ctx := context.Background()

	v, err := venues.Create(ctx, venue.CreateReq{Name: "The Mint", City: "LA"}, "u1")
	require.NoError(t, err)

	sh, err := svc.Create(ctx, CreateReq{Title: "album release", Date: isoDate(3), VenueID: v.ID}, "u1")
	require.NoError(t, err)

	got, err := svc.Get(ctx, sh.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Venue)
	assert.Equal(t, "The Mint", got.Venue.Name)
}

func TestGet_DanglingVenueRendersWithoutVenue(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	sh, err := svc.Create(ctx, CreateReq{Title: "warehouse gig", Date: isoDate(3), VenueID: "gone"}, "u1")
	require.NoError(t, err)

	got, err := svc.Get(ctx, sh.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Venue)
}

func TestUpdate_DateMovesSortKey(t *testing.T) {
	svc, _, st := newTestService(t)
	ctx := context.Background()

	sh, err := svc.Create(ctx, CreateReq{Title: "movable", Date: "2024-01-01"}, "u1")
	require.NoError(t, err)

	newDate := "2024-06-01"
	_, err = svc.Update(ctx, UpdateReq{ID: sh.ID, Date: &newDate})
	require.NoError(t, err)

	items, err := st.QueryByType(ctx, EntityType, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2024-06-01#"+sh.ID, items[0].EntitySK)
}

func TestUpdateDelete_MissingAndAbsent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, UpdateReq{})
	assert.ErrorIs(t, err, ErrMissingID)

	_, err = svc.Update(ctx, UpdateReq{ID: "nope"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, ""), ErrMissingID)

	_, err = svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
