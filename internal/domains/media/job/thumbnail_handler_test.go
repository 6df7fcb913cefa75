package job

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EchoNin9/orangewhip.surf/internal/domains/media"
	"github.com/EchoNin9/orangewhip.surf/internal/infrastructure/ai"
	"github.com/EchoNin9/orangewhip.surf/internal/infrastructure/queue"
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

type stubDispatcher struct{}

func (stubDispatcher) ScheduleThumbnail(context.Context, string, string) {}

func newMediaService(t *testing.T) *media.Service {
	t.Helper()
	st := store.NewMemoryStore()
	resolver := media.NewResolver(st, stubStorage{})
	return media.NewService(st, stubStorage{}, resolver, stubDispatcher{}, ai.Disabled{}, 0, 50*1024*1024)
}

func TestTranscodeComplete_AppliesDefaultKey(t *testing.T) {
	svc := newMediaService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, media.CreateReq{Title: "clip", MediaType: media.KindVideo, S3Key: "media/video/x/clip.mp4"}, "u1")
	require.NoError(t, err)

	task, err := queue.NewTranscodeCompleteTask(queue.TranscodeCompletePayload{MediaID: m.ID, Status: "COMPLETE"})
	require.NoError(t, err)

	h := NewTranscodeCompleteHandler(svc)
	require.NoError(t, h.ProcessTask(ctx, task))

	got, err := svc.Load(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "thumbnails/"+m.ID+"/thumb.jpg", got.ThumbnailKey)
}

func TestTranscodeComplete_DropsIneligibleCallbackKey(t *testing.T) {
	svc := newMediaService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, media.CreateReq{Title: "clip", MediaType: media.KindVideo, S3Key: "media/video/x/clip.mp4"}, "u1")
	require.NoError(t, err)

	task, err := queue.NewTranscodeCompleteTask(queue.TranscodeCompletePayload{
		MediaID:      m.ID,
		ThumbnailKey: "outputs/" + m.ID + "/clip-720p.mp4",
		Status:       "COMPLETE",
	})
	require.NoError(t, err)

	h := NewTranscodeCompleteHandler(svc)
	// No retry: a raw transcoder output stays ineligible forever.
	require.NoError(t, h.ProcessTask(ctx, task))

	got, err := svc.Load(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ThumbnailKey)
}

func TestMediaIDFromKey(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"media/image/abc-123/photo.jpg", "abc-123"},
		{"media/video/vid-9/clip.mp4", "vid-9"},
		{"media/image/abc/nested/extra.jpg", "abc"},
		{"media/image/short", ""},
		{"press/f1/scan.pdf", ""},
		{"thumbnails/m1/thumb.jpg", ""},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, mediaIDFromKey(tc.key), "key %q", tc.key)
	}
}
