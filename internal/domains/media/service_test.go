package media

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EchoNin9/orangewhip.surf/internal/infrastructure/ai"
	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

type fakeStorage struct {
	deleted  []string
	uploaded map[string][]byte
	failDel  map[string]bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploaded: map[string][]byte{}, failDel: map[string]bool{}}
}

func (f *fakeStorage) PresignedGetURL(_ context.Context, key string) (string, error) {
	return "https://cdn.test/" + key, nil
}

func (f *fakeStorage) PresignedPutURL(_ context.Context, key string) (string, error) {
	return "https://upload.test/" + key, nil
}

func (f *fakeStorage) Upload(_ context.Context, key string, data []byte, _ string) error {
	f.uploaded[key] = data
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	if f.failDel[key] {
		return fmt.Errorf("delete %s: simulated fault", key)
	}
	return nil
}

func (f *fakeStorage) DeleteMany(ctx context.Context, keys []string) error {
	var errs []error
	for _, key := range keys {
		if err := f.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type fakeDispatcher struct {
	scheduled []string
}

func (f *fakeDispatcher) ScheduleThumbnail(_ context.Context, mediaID, s3Key string) {
	f.scheduled = append(f.scheduled, mediaID+"|"+s3Key)
}

func newTestService(t *testing.T) (*Service, *store.MemoryStore, *fakeStorage, *fakeDispatcher) {
	t.Helper()
	st := store.NewMemoryStore()
	fs := newFakeStorage()
	fd := &fakeDispatcher{}
	resolver := NewResolver(st, fs)
	svc := NewService(st, fs, resolver, fd, ai.Disabled{}, MaxFiles, 50*1024*1024)
	return svc, st, fs, fd
}

func boolPtr(b bool) *bool { return &b }

func TestCreate_DefaultsAndScheduling(t *testing.T) {
	svc, _, _, fd := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, CreateReq{
		Title:     "Live at the Mint",
		MediaType: KindImage,
		Files: []File{
			{S3Key: "media/image/x/a.jpg", ContentType: "image/jpeg"},
			{S3Key: "media/image/x/b.jpg", ContentType: "image/jpeg"},
		},
	}, "u1")
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID)
	assert.True(t, m.Public, "visibility defaults to public")
	assert.Equal(t, "media/image/x/a.jpg", m.S3Key, "primary key follows the first file")
	assert.Equal(t, CategoryNone, m.CategoryID)
	require.Len(t, fd.scheduled, 1)
	assert.Equal(t, m.ID+"|media/image/x/a.jpg", fd.scheduled[0])
}

func TestCreate_FileCap(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	files := make([]File, 0, MaxFiles+1)
	for i := 0; i <= MaxFiles; i++ {
		files = append(files, File{S3Key: fmt.Sprintf("media/image/x/%d.jpg", i)})
	}

	_, err := svc.Create(ctx, CreateReq{Title: "too many", MediaType: KindImage, Files: files}, "u1")
	assert.ErrorIs(t, err, ErrTooManyFiles)

	// Exactly at the cap is fine.
	_, err = svc.Create(ctx, CreateReq{Title: "at cap", MediaType: KindImage, Files: files[:MaxFiles]}, "u1")
	assert.NoError(t, err)
}

func TestCreate_ValidationErrors(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateReq{MediaType: KindImage}, "u1")
	assert.Error(t, err, "missing title")

	_, err = svc.Create(ctx, CreateReq{Title: "x", MediaType: "document"}, "u1")
	assert.Error(t, err, "unknown kind")
}

func TestGetByID_PrivateVisibility(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, CreateReq{
		Title:     "rehearsal take",
		MediaType: KindVideo,
		S3Key:     "media/video/x/take.mp4",
		Public:    boolPtr(false),
	}, "u1")
	require.NoError(t, err)

	// Hidden items answer not-found to untrusted callers.
	_, err = svc.GetByID(ctx, m.ID, false)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.GetByID(ctx, m.ID, true)
	require.NoError(t, err)
	assert.Equal(t, m.ID, got.ID)
}

func TestList_FiltersKindVisibilityAndQuery(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	mk := func(title, kind string, public bool, cats []string) {
		t.Helper()
		_, err := svc.Create(ctx, CreateReq{
			Title: title, MediaType: kind, S3Key: "media/" + kind + "/x/f.bin",
			Public: boolPtr(public), Categories: cats,
		}, "u1")
		require.NoError(t, err)
	}
	mk("Summer Tour Poster", KindImage, true, []string{"cat-posters"})
	mk("Soundcheck Clip", KindVideo, true, nil)
	mk("Secret Demo", KindAudio, false, nil)

	public, err := svc.List(ctx, "", "", nil)
	require.NoError(t, err)
	assert.Len(t, public, 2, "private item excluded")

	images, err := svc.List(ctx, KindImage, "", nil)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "Summer Tour Poster", images[0].Title)

	byQuery, err := svc.List(ctx, "", "TOUR", nil)
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "Summer Tour Poster", byQuery[0].Title)

	byCat, err := svc.List(ctx, "", "", []string{"cat-posters"})
	require.NoError(t, err)
	assert.Len(t, byCat, 1)

	all, err := svc.ListAll(ctx, "", "", nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdate_FileDiffDeletesRemovedObjects(t *testing.T) {
	svc, _, fs, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, CreateReq{
		Title:     "gallery",
		MediaType: KindImage,
		Files: []File{
			{S3Key: "media/image/x/keep.jpg"},
			{S3Key: "media/image/x/drop.jpg"},
		},
	}, "u1")
	require.NoError(t, err)

	next := []File{{S3Key: "media/image/x/keep.jpg"}}
	updated, err := svc.Update(ctx, UpdateReq{ID: m.ID, Files: &next})
	require.NoError(t, err)

	assert.Equal(t, []string{"media/image/x/drop.jpg"}, fs.deleted)
	assert.Equal(t, "media/image/x/keep.jpg", updated.S3Key)
}

func TestUpdate_MissingID(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.Update(context.Background(), UpdateReq{})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestDelete_CascadesStorageBestEffort(t *testing.T) {
	svc, st, fs, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, CreateReq{
		Title:     "doomed",
		MediaType: KindImage,
		S3Key:     "media/image/x/primary.jpg",
		Files: []File{
			{S3Key: "media/image/x/primary.jpg"},
			{S3Key: "media/image/x/extra.jpg"},
		},
	}, "u1")
	require.NoError(t, err)

	// One storage deletion fails; the record must still go away.
	fs.failDel["media/image/x/extra.jpg"] = true

	require.NoError(t, svc.Delete(ctx, m.ID))
	assert.ElementsMatch(t, []string{"media/image/x/primary.jpg", "media/image/x/extra.jpg"}, fs.deleted,
		"every key attempted exactly once despite duplication")

	row, err := st.Get(ctx, "MEDIA#"+m.ID, store.MetaSK)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestPickThumbnailKey(t *testing.T) {
	files := []File{
		{S3Key: "media/video/x/clip.mp4", ContentType: "video/mp4"},
		{S3Key: "media/video/x/cover.png", ContentType: "image/png"},
	}

	// Eligible request wins.
	assert.Equal(t, "thumbnails/x/t.jpg", pickThumbnailKey("thumbnails/x/t.jpg", files))
	// Ineligible request falls back to the first image-capable file.
	assert.Equal(t, "media/video/x/cover.png", pickThumbnailKey("media/video/x/clip.mp4", files))
	// Nothing image-capable yields no thumbnail.
	assert.Equal(t, "", pickThumbnailKey("", files[:1]))
}

func TestUploadURL_KeyShape(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	out, err := svc.UploadURL(context.Background(), UploadURLReq{Filename: "photo.PNG"})
	require.NoError(t, err)
	assert.NotEmpty(t, out["mediaId"])
	assert.Contains(t, out["key"], "media/image/"+out["mediaId"]+"/")
	assert.Contains(t, out["key"], ".png", "extension lowercased")
	assert.Equal(t, "https://upload.test/"+out["key"], out["uploadUrl"])
}

func TestSetThumbnailKey(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, CreateReq{Title: "clip", MediaType: KindVideo, S3Key: "media/video/x/clip.mp4"}, "u1")
	require.NoError(t, err)
	require.Empty(t, m.ThumbnailKey)

	require.NoError(t, svc.SetThumbnailKey(ctx, m.ID, "thumbnails/"+m.ID+"/thumb.jpg"))

	got, err := svc.Load(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "thumbnails/"+m.ID+"/thumb.jpg", got.ThumbnailKey)

	assert.ErrorIs(t, svc.SetThumbnailKey(ctx, "nope", "thumbnails/nope/thumb.jpg"), ErrNotFound)
}

func TestSetThumbnailKey_RejectsIneligibleKey(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, CreateReq{Title: "clip", MediaType: KindVideo, S3Key: "media/video/x/clip.mp4"}, "u1")
	require.NoError(t, err)

	// A raw transcoder output is not a displayable thumbnail.
	err = svc.SetThumbnailKey(ctx, m.ID, "outputs/"+m.ID+"/clip-720p.mp4")
	assert.ErrorIs(t, err, ErrBadThumbnailKey)

	got, err := svc.Load(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ThumbnailKey, "rejected key never persisted")
}

func TestSearch_MatchesAISummary(t *testing.T) {
	svc, st, _, _ := newTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, CreateReq{Title: "Untitled 04", MediaType: KindAudio, S3Key: "media/audio/x/take4.flac"}, "u1")
	require.NoError(t, err)

	m.AISummary = "rough acoustic demo recorded backstage"
	item, err := m.toItem()
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, item))

	hits, err := svc.List(ctx, "", "backstage", nil)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Untitled 04", hits[0].Title)

	none, err := svc.List(ctx, "", "soundboard", nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestImportFromURL_DefaultsTitle(t *testing.T) {
	svc, _, fs, _ := newTestService(t)
	ctx := context.Background()

	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "audio/flac")
		_, _ = w.Write([]byte("not really flac"))
	}))
	defer src.Close()
	svc.httpClient = src.Client()

	m, err := svc.ImportFromURL(ctx, ImportReq{URL: src.URL + "/bootleg.flac"}, "u1")
	require.NoError(t, err)

	assert.Equal(t, "Imported media", m.Title, "untitled imports get a default")
	assert.Equal(t, KindAudio, m.MediaType, "kind inferred from content type")
	assert.Contains(t, fs.uploaded, m.S3Key)
}
