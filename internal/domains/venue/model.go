package venue

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

const EntityType = "venue"

// Venue is one place shows happen. Website and WebsiteURL hold the same
// value, older clients read one, newer ones the other.
type Venue struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Website      string `json:"website,omitempty"`
	WebsiteURL   string `json:"websiteUrl,omitempty"`
	Info         string `json:"info,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Capacity     int    `json:"capacity,omitempty"`
	AddedBy      string `json:"addedBy,omitempty"`
	AddedAt      string `json:"addedAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

func pkFor(id string) string { return "VENUE#" + id }

func (v *Venue) toItem() (store.Item, error) {
	sortKey := strings.ToLower(v.Name) + "#" + v.ID
	return store.NewItem(pkFor(v.ID), store.MetaSK, EntityType, sortKey, v)
}

// syncWebsite keeps the two website fields identical, last non-empty wins.
func (v *Venue) syncWebsite() {
	if v.Website == "" {
		v.Website = v.WebsiteURL
	}
	v.WebsiteURL = v.Website
}

type CreateReq struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Website      string `json:"website"`
	WebsiteURL   string `json:"websiteUrl"`
	Info         string `json:"info"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Capacity     int    `json:"capacity"`
}

func (r CreateReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

type UpdateReq struct {
	ID           string  `json:"id"`
	Name         *string `json:"name"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Website      *string `json:"website"`
	WebsiteURL   *string `json:"websiteUrl"`
	Info         *string `json:"info"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	Capacity     *int    `json:"capacity"`
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
