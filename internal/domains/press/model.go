package press

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

const EntityType = "press"

// Attachment is one stored file on a press item.
type Attachment struct {
	S3Key       string `json:"s3Key"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// Press is one press item (article scan, review, interview).
type Press struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description,omitempty"`
	FileAttachments []Attachment `json:"fileAttachments,omitempty"`
	Links           []string     `json:"links,omitempty"`
	Public          bool         `json:"public"`
	Pinned          bool         `json:"pinned"`
	AddedBy         string       `json:"addedBy,omitempty"`
	CreatedAt       string       `json:"createdAt,omitempty"`
	UpdatedAt       string       `json:"updatedAt,omitempty"`
}

// EnrichedAttachment adds a presigned retrieval URL.
type EnrichedAttachment struct {
	Attachment
	URL string `json:"url,omitempty"`
}

// Enriched is the read shape. Attachments mirrors FileAttachments for
// clients that predate the field rename.
type Enriched struct {
	Press
	FileAttachments []EnrichedAttachment `json:"fileAttachments,omitempty"`
	Attachments     []EnrichedAttachment `json:"attachments,omitempty"`
}

func pkFor(id string) string { return "PRESS#" + id }

func (p *Press) toItem() (store.Item, error) {
	return store.NewItem(pkFor(p.ID), store.MetaSK, EntityType, p.CreatedAt+"#"+p.ID, p)
}

type CreateReq struct {
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	FileAttachments []Attachment `json:"fileAttachments"`
	Links           []string     `json:"links"`
	Public          *bool        `json:"public"`
	Pinned          bool         `json:"pinned"`
}

func (r CreateReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
	)
}

type UpdateReq struct {
	ID              string        `json:"id"`
	Title           *string       `json:"title"`
	Description     *string       `json:"description"`
	FileAttachments *[]Attachment `json:"fileAttachments"`
	Links           *[]string     `json:"links"`
	Public          *bool         `json:"public"`
	Pinned          *bool         `json:"pinned"`
}

// UploadURLReq asks for a presigned attachment slot.
type UploadURLReq struct {
	Filename string `json:"filename"`
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
