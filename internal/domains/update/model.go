package update

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/EchoNin9/orangewhip.surf/internal/domains/media"
	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

const EntityType = "update"

// Update is one news post. Hidden posts (Visible false) stay out of the
// public listing but remain editable.
type Update struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content,omitempty"`
	MediaIDs  []string `json:"mediaIds,omitempty"`
	Visible   bool     `json:"visible"`
	Pinned    bool     `json:"pinned"`
	AddedBy   string   `json:"addedBy,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

// MediaRef is the projection shape attached to posts for display.
type MediaRef struct {
	ID           string `json:"id"`
	URL          string `json:"url,omitempty"`
	Type         string `json:"type"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Filename     string `json:"filename,omitempty"`
}

// Enriched is a post plus its resolved media projections.
type Enriched struct {
	Update
	Media []MediaRef `json:"media,omitempty"`
}

func pkFor(id string) string { return "UPDATE#" + id }

func (u *Update) toItem() (store.Item, error) {
	return store.NewItem(pkFor(u.ID), store.MetaSK, EntityType, u.CreatedAt+"#"+u.ID, u)
}

func project(items []media.Enriched) []MediaRef {
	out := make([]MediaRef, 0, len(items))
	for _, e := range items {
		filename := ""
		if len(e.Files) > 0 {
			filename = e.Files[0].Filename
		}
		out = append(out, MediaRef{
			ID:           e.ID,
			URL:          e.URL,
			Type:         e.Type,
			ThumbnailURL: e.ThumbnailURL,
			Filename:     filename,
		})
	}
	return out
}

type CreateReq struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	MediaIDs []string `json:"mediaIds"`
	Visible  *bool    `json:"visible"`
	Pinned   bool     `json:"pinned"`
}

func (r CreateReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
	)
}

type UpdateReq struct {
	ID       string    `json:"id"`
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	MediaIDs *[]string `json:"mediaIds"`
	Visible  *bool     `json:"visible"`
	Pinned   *bool     `json:"pinned"`
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
