package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

// Resolver verifies bearer tokens and turns verified claims into an
// Identity. No verified claims means the caller is anonymous; raw
// headers are never parsed as a substitute.
type Resolver struct {
	secret      string
	groupsClaim string
	store       store.Store
}

func NewResolver(secret, groupsClaim string, st store.Store) *Resolver {
	return &Resolver{secret: secret, groupsClaim: groupsClaim, store: st}
}

// ResolveToken verifies the token and builds the caller's Identity.
// Returns an error for missing/invalid tokens (the caller is then
// anonymous); custom-group lookup failures degrade to an empty list.
func (r *Resolver) ResolveToken(ctx context.Context, tokenString string) (*Identity, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(r.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	email, _ := claims["email"].(string)

	rawGroups := claims[r.groupsClaim]
	if rawGroups == nil {
		// Some gateway configurations rewrite the claim name.
		rawGroups = claims["cognito_groups"]
	}
	groups := ParseGroups(rawGroups)

	ident := &Identity{
		UserID:       sub,
		Email:        email,
		Groups:       groups,
		Role:         RoleFromGroups(groups),
		CustomGroups: r.customGroups(ctx, sub),
	}
	return ident, nil
}

// customGroups fetches store-backed memberships for the user.
// Faults degrade to empty, custom groups are non-critical enrichment.
func (r *Resolver) customGroups(ctx context.Context, userID string) []string {
	rows, err := r.store.QueryPrefix(ctx, "USER#"+userID, "GROUP#")
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("[AUTH] Custom group lookup failed")
		return []string{}
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name, ok := row.Attrs["groupName"].(string); ok && name != "" {
			names = append(names, name)
		}
	}
	return names
}
