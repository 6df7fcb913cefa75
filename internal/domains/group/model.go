package group

import (
	"strings"
	"time"

	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

const (
	EntityType           = "group"
	MembershipEntityType = "membership"
)

// Group is a store-backed custom group, a second authorization axis
// separate from the identity-provider role hierarchy. Name is the
// identity, normalized to lowercase.
type Group struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SelfJoin    bool   `json:"selfJoin"`
	AddedBy     string `json:"addedBy,omitempty"`
	AddedAt     string `json:"addedAt,omitempty"`
}

// Membership rows exist in both directions and are created and removed
// together: USER#id/GROUP#name and GROUP#name/MEMBER#id.
type Membership struct {
	UserID    string `json:"userId"`
	GroupName string `json:"groupName"`
	AddedAt   string `json:"addedAt,omitempty"`
}

func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func groupPK(name string) string  { return "GROUP#" + name }
func userPK(userID string) string { return "USER#" + userID }

func (g *Group) toItem() (store.Item, error) {
	return store.NewItem(groupPK(g.Name), store.MetaSK, EntityType, g.Name, g)
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
