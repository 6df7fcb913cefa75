package show

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/EchoNin9/orangewhip.surf/internal/domains/media"
	"github.com/EchoNin9/orangewhip.surf/internal/domains/venue"
	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

const EntityType = "show"

// Show is one gig. Date is an ISO date (YYYY-MM-DD); the entity sort
// key leads with it so index order is chronological.
type Show struct {
	ID               string   `json:"id"`
	Date             string   `json:"date"`
	Title            string   `json:"title"`
	Description      string   `json:"description,omitempty"`
	VenueID          string   `json:"venueId,omitempty"`
	TicketURL        string   `json:"ticketUrl,omitempty"`
	SetTime          string   `json:"setTime,omitempty"`
	MediaIDs         []string `json:"mediaIds,omitempty"`
	ThumbnailMediaID string   `json:"thumbnailMediaId,omitempty"`
	AddedBy          string   `json:"addedBy,omitempty"`
	AddedAt          string   `json:"addedAt,omitempty"`
	UpdatedAt        string   `json:"updatedAt,omitempty"`
}

// Enriched carries the derived display fields alongside the record.
type Enriched struct {
	Show
	Venue        *venue.Venue     `json:"venue,omitempty"`
	Media        []media.Enriched `json:"media,omitempty"`
	ThumbnailURL string           `json:"thumbnailUrl,omitempty"`
}

func pkFor(id string) string { return "SHOW#" + id }

func (s *Show) toItem() (store.Item, error) {
	return store.NewItem(pkFor(s.ID), store.MetaSK, EntityType, s.Date+"#"+s.ID, s)
}

type CreateReq struct {
	Date             string   `json:"date"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	VenueID          string   `json:"venueId"`
	TicketURL        string   `json:"ticketUrl"`
	SetTime          string   `json:"setTime"`
	MediaIDs         []string `json:"mediaIds"`
	ThumbnailMediaID string   `json:"thumbnailMediaId"`
}

func (r CreateReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Date, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.Title, validation.Required),
	)
}

type UpdateReq struct {
	ID               string    `json:"id"`
	Date             *string   `json:"date"`
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	VenueID          *string   `json:"venueId"`
	TicketURL        *string   `json:"ticketUrl"`
	SetTime          *string   `json:"setTime"`
	MediaIDs         *[]string `json:"mediaIds"`
	ThumbnailMediaID *string   `json:"thumbnailMediaId"`
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}
