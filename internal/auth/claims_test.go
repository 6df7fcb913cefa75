package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGroups_ClaimShapes(t *testing.T) {
	// The provider stringifies the groups claim four different ways
	// depending on the gateway in front of it. All must normalize to
	// the same set.
	cases := []struct {
		name string
		raw  interface{}
	}{
		{"native list", []interface{}{"admin", "band"}},
		{"json encoded string", `["admin","band"]`},
		{"stringified list unquoted", `[admin, band]`},
		{"whitespace separated", `admin band`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, []string{"admin", "band"}, ParseGroups(tc.raw))
		})
	}
}

func TestParseGroups_Malformed(t *testing.T) {
	assert.Empty(t, ParseGroups(nil))
	assert.Empty(t, ParseGroups(42))
	assert.Empty(t, ParseGroups(""))
	assert.Empty(t, ParseGroups("[]"))
}

func TestParseGroups_NormalizesCaseAndDuplicates(t *testing.T) {
	got := ParseGroups([]interface{}{"Admin", "ADMIN", " band "})
	assert.Equal(t, []string{"admin", "band"}, got)
}

func TestRoleFromGroups_PicksHighest(t *testing.T) {
	assert.Equal(t, RoleAdmin, RoleFromGroups([]string{"band", "admin"}))
	assert.Equal(t, RoleEditor, RoleFromGroups([]string{"editor", "fanclub"}))
	assert.Equal(t, RoleGuest, RoleFromGroups([]string{"fanclub"}))
	assert.Equal(t, RoleGuest, RoleFromGroups(nil))
}

func TestRoleSatisfies(t *testing.T) {
	ordered := []Role{RoleGuest, RoleBand, RoleEditor, RoleManager, RoleAdmin}
	for i, r := range ordered {
		for j, min := range ordered {
			assert.Equal(t, i >= j, r.Satisfies(min),
				"role %s vs minimum %s", r, min)
		}
	}
}
