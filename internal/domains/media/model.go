package media

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

const (
	EntityType = "media"

	// MaxFiles is the default cap on auxiliary files per item, used
	// when MEDIA_MAX_FILES is unset. Over-cap requests are rejected,
	// never truncated.
	MaxFiles = 15

	// CategoryNone is the denormalized primary-category value for
	// uncategorized items, used for index partitioning.
	CategoryNone = "NONE"
)

// Media kinds
const (
	KindImage = "image"
	KindVideo = "video"
	KindAudio = "audio"
)

// File is one auxiliary file attached to a media item.
type File struct {
	S3Key       string `json:"s3Key"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// Media is the stored record for one gallery item.
type Media struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	MediaType    string   `json:"mediaType"`
	Format       string   `json:"format,omitempty"`
	Dimensions   string   `json:"dimensions,omitempty"`
	Filesize     int64    `json:"filesize,omitempty"`
	S3Key        string   `json:"s3Key,omitempty"`
	ThumbnailKey string   `json:"thumbnailKey,omitempty"`
	Files        []File   `json:"files,omitempty"`
	Categories   []string `json:"categories,omitempty"`
	CategoryID   string   `json:"categoryId"`
	Public       bool     `json:"public"`
	AddedBy      string   `json:"addedBy,omitempty"`
	AddedAt      string   `json:"addedAt,omitempty"`
	AISummary    string   `json:"aiSummary,omitempty"`
}

func pkFor(id string) string { return "MEDIA#" + id }

func (m *Media) toItem() (store.Item, error) {
	return store.NewItem(pkFor(m.ID), store.MetaSK, EntityType, m.AddedAt+"#"+m.ID, m)
}

// normalizeCategories keeps the stored category list and the
// denormalized primary category in sync on every write.
func (m *Media) normalizeCategories() {
	if len(m.Categories) > 0 {
		m.CategoryID = m.Categories[0]
	} else {
		m.CategoryID = CategoryNone
	}
}

// CreateReq is the POST /media body.
type CreateReq struct {
	Title        string   `json:"title"`
	MediaType    string   `json:"mediaType"`
	Format       string   `json:"format"`
	Dimensions   string   `json:"dimensions"`
	Filesize     int64    `json:"filesize"`
	S3Key        string   `json:"s3Key"`
	ThumbnailKey string   `json:"thumbnailKey"`
	Files        []File   `json:"files"`
	Categories   []string `json:"categories"`
	Public       *bool    `json:"public"`
}

func (r CreateReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.MediaType, validation.Required,
			validation.In(KindImage, KindVideo, KindAudio)),
	)
}

// UpdateReq is the PUT /media body. Nil fields are left alone,
// read-modify-write of named fields only.
type UpdateReq struct {
	ID           string    `json:"id"`
	Title        *string   `json:"title"`
	MediaType    *string   `json:"mediaType"`
	Format       *string   `json:"format"`
	Dimensions   *string   `json:"dimensions"`
	Filesize     *int64    `json:"filesize"`
	ThumbnailKey *string   `json:"thumbnailKey"`
	Files        *[]File   `json:"files"`
	Categories   *[]string `json:"categories"`
	Public       *bool     `json:"public"`
}

// UploadURLReq asks for a presigned upload slot.
type UploadURLReq struct {
	MediaType string `json:"mediaType"`
	Filename  string `json:"filename"`
	MediaID   string `json:"mediaId"`
}

// ImportReq is the POST /media/import-from-url body.
type ImportReq struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	MediaType  string   `json:"mediaType"`
	Categories []string `json:"categories"`
	Public     *bool    `json:"public"`
}

func (r ImportReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.URL, validation.Required),
	)
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func extOf(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return "bin"
	}
	return strings.ToLower(filename[i+1:])
}
