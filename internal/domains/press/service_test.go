package press

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

type fakeStorage struct {
	deleted []string
}

func (f *fakeStorage) PresignedGetURL(_ context.Context, key string) (string, error) {
	return "https://cdn.test/" + key, nil
}
func (f *fakeStorage) PresignedPutURL(_ context.Context, key string) (string, error) {
	return "https://upload.test/" + key, nil
}
func (f *fakeStorage) Upload(context.Context, string, []byte, string) error { return nil }
func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}
func (f *fakeStorage) DeleteMany(_ context.Context, keys []string) error {
	f.deleted = append(f.deleted, keys...)
	return nil
}

func boolPtr(b bool) *bool { return &b }

func TestGet_PrivateAnswersNotFound(t *testing.T) {
	fs := &fakeStorage{}
	svc := NewService(store.NewMemoryStore(), fs)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateReq{Title: "embargoed interview", Public: boolPtr(false)}, "u1")
	require.NoError(t, err)

	_, err = svc.Get(ctx, p.ID, false)
	assert.ErrorIs(t, err, ErrNotFound, "hidden items do not leak their existence")

	got, err := svc.Get(ctx, p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestList_VisibilityGate(t *testing.T) {
	fs := &fakeStorage{}
	svc := NewService(store.NewMemoryStore(), fs)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateReq{Title: "public review"}, "u1")
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateReq{Title: "draft scan", Public: boolPtr(false)}, "u1")
	require.NoError(t, err)

	public, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "public review", public[0].Title)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEnrich_AttachmentAliases(t *testing.T) {
	fs := &fakeStorage{}
	svc := NewService(store.NewMemoryStore(), fs)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateReq{
		Title: "magazine feature",
		FileAttachments: []Attachment{
			{S3Key: "press/f1/scan.pdf", Filename: "scan.pdf"},
		},
	}, "u1")
	require.NoError(t, err)

	got, err := svc.Get(ctx, p.ID, true)
	require.NoError(t, err)
	require.Len(t, got.FileAttachments, 1)
	assert.Equal(t, "https://cdn.test/press/f1/scan.pdf", got.FileAttachments[0].URL)
	// Older clients read the legacy field name.
	assert.Equal(t, got.FileAttachments, got.Attachments)
}

func TestDelete_CascadesAttachments(t *testing.T) {
	fs := &fakeStorage{}
	svc := NewService(store.NewMemoryStore(), fs)
	ctx := context.Background()

	p, err := svc.Create(ctx, CreateReq{
		Title: "doomed",
		FileAttachments: []Attachment{
			{S3Key: "press/f1/a.pdf"},
			{S3Key: "press/f2/b.jpg"},
		},
	}, "u1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.ElementsMatch(t, []string{"press/f1/a.pdf", "press/f2/b.jpg"}, fs.deleted)

	_, err = svc.Get(ctx, p.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadURL_KeyShape(t *testing.T) {
	fs := &fakeStorage{}
	svc := NewService(store.NewMemoryStore(), fs)

	out, err := svc.UploadURL(context.Background(), "clipping.pdf")
	require.NoError(t, err)
	assert.NotEmpty(t, out["fileId"])
	assert.Equal(t, "press/"+out["fileId"]+"/clipping.pdf", out["key"])
	assert.Equal(t, "https://upload.test/"+out["key"], out["uploadUrl"])
}
