package profile

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

const (
	EntityType = "profile"

	// ProfileSK co-locates the profile row with the user's membership
	// rows under the same partition.
	ProfileSK = "PROFILE"
)

// Profile is a user's public-facing page data. Handle is stored as
// entered; uniqueness is enforced on its normalized slug.
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	Handle      string `json:"handle,omitempty"`
	Bio         string `json:"bio,omitempty"`
	PhotoKey    string `json:"photoKey,omitempty"`
	Public      bool   `json:"public"`
	LastLoginAt string `json:"lastLoginAt,omitempty"`
	LastLoginIP string `json:"lastLoginIp,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// HandleClaim is the slug→owner row backing handle uniqueness.
type HandleClaim struct {
	Slug   string `json:"slug"`
	UserID string `json:"userId"`
}

func userPK(userID string) string { return "USER#" + userID }
func handlePK(slug string) string { return "HANDLE#" + slug }

func (p *Profile) toItem() (store.Item, error) {
	return store.NewItem(userPK(p.UserID), ProfileSK, EntityType, p.UserID, p)
}

type UpdateReq struct {
	DisplayName *string `json:"displayName"`
	Handle      *string `json:"handle"`
	Bio         *string `json:"bio"`
	PhotoKey    *string `json:"photoKey"`
	Public      *bool   `json:"public"`
}

func (r UpdateReq) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.Length(0, 120)),
		validation.Field(&r.Handle, validation.Length(0, 60)),
		validation.Field(&r.Bio, validation.Length(0, 2000)),
		validation.Field(&r.PhotoKey, is.PrintableASCII),
	)
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
