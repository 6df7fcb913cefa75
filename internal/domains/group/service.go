package group

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/EchoNin9/orangewhip.surf/internal/store"
)

var (
	ErrNotFound    = errors.New("group not found")
	ErrMissingName = errors.New("group name is required")
	ErrNoSelfJoin  = errors.New("group does not allow self-join")
)

type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

func (s *Service) List(ctx context.Context) ([]Group, error) {
	items, err := s.store.QueryByType(ctx, EntityType, nil)
	if err != nil {
		return nil, err
	}
	out := make([]Group, 0, len(items))
	for _, it := range items {
		var g Group
		if err := it.Decode(&g); err != nil {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, name string) (*Group, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, ErrMissingName
	}
	item, err := s.store.Get(ctx, groupPK(name), store.MetaSK)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	var g Group
	if err := item.Decode(&g); err != nil {
		return nil, fmt.Errorf("decode group %s: %w", name, err)
	}
	return &g, nil
}

func (s *Service) Create(ctx context.Context, name, description string, selfJoin bool, addedBy string) (*Group, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, ErrMissingName
	}

	g := Group{
		Name:        name,
		Description: description,
		SelfJoin:    selfJoin,
		AddedBy:     addedBy,
		AddedAt:     nowISO(),
	}

	item, err := g.toItem()
	if err != nil {
		return nil, fmt.Errorf("encode group: %w", err)
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store group: %w", err)
	}
	return &g, nil
}

func (s *Service) Update(ctx context.Context, name string, description *string, selfJoin *bool) (*Group, error) {
	g, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if description != nil {
		g.Description = *description
	}
	if selfJoin != nil {
		g.SelfJoin = *selfJoin
	}

	item, err := g.toItem()
	if err != nil {
		return nil, fmt.Errorf("encode group: %w", err)
	}
	if err := s.store.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("store group: %w", err)
	}
	return g, nil
}

// Delete removes the group and cascades every membership row, both
// directions.
func (s *Service) Delete(ctx context.Context, name string) error {
	g, err := s.Get(ctx, name)
	if err != nil {
		return err
	}

	members, err := s.Members(ctx, g.Name)
	if err != nil {
		return err
	}
	for _, m := range members {
		if err := s.removeMembership(ctx, m.UserID, g.Name); err != nil {
			return err
		}
	}
	return s.store.Delete(ctx, groupPK(g.Name), store.MetaSK)
}

// Join adds the caller to a self-joinable group. Admin-driven adds go
// through AddMember, which skips the self-join gate.
func (s *Service) Join(ctx context.Context, userID, name string) error {
	g, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	if !g.SelfJoin {
		return ErrNoSelfJoin
	}
	return s.addMembership(ctx, userID, g.Name)
}

func (s *Service) Leave(ctx context.Context, userID, name string) error {
	name = NormalizeName(name)
	if name == "" {
		return ErrMissingName
	}
	return s.removeMembership(ctx, userID, name)
}

// AddMember is the admin path, membership without the self-join check.
func (s *Service) AddMember(ctx context.Context, userID, name string) error {
	g, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	return s.addMembership(ctx, userID, g.Name)
}

func (s *Service) RemoveMember(ctx context.Context, userID, name string) error {
	return s.Leave(ctx, userID, name)
}

// Members lists the group→member rows.
func (s *Service) Members(ctx context.Context, name string) ([]Membership, error) {
	items, err := s.store.QueryPrefix(ctx, groupPK(NormalizeName(name)), "MEMBER#")
	if err != nil {
		return nil, err
	}
	return decodeMemberships(items), nil
}

// GroupsOf lists a user's memberships. A degraded store yields an
// empty list, membership is non-critical enrichment on most paths.
func (s *Service) GroupsOf(ctx context.Context, userID string) []Membership {
	items, err := s.store.QueryPrefix(ctx, userPK(userID), "GROUP#")
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("[GROUP] Membership lookup failed")
		return []Membership{}
	}
	return decodeMemberships(items)
}

// addMembership writes both directions of the membership.
func (s *Service) addMembership(ctx context.Context, userID, name string) error {
	m := Membership{UserID: userID, GroupName: name, AddedAt: nowISO()}

	userRow, err := store.NewItem(userPK(userID), groupPK(name), MembershipEntityType, name+"#"+userID, m)
	if err != nil {
		return fmt.Errorf("encode membership: %w", err)
	}
	groupRow, err := store.NewItem(groupPK(name), "MEMBER#"+userID, MembershipEntityType, name+"#"+userID, m)
	if err != nil {
		return fmt.Errorf("encode membership: %w", err)
	}

	if err := s.store.Put(ctx, userRow); err != nil {
		return fmt.Errorf("store membership: %w", err)
	}
	if err := s.store.Put(ctx, groupRow); err != nil {
		return fmt.Errorf("store membership: %w", err)
	}
	return nil
}

func (s *Service) removeMembership(ctx context.Context, userID, name string) error {
	if err := s.store.Delete(ctx, userPK(userID), groupPK(name)); err != nil {
		return fmt.Errorf("remove membership: %w", err)
	}
	if err := s.store.Delete(ctx, groupPK(name), "MEMBER#"+userID); err != nil {
		return fmt.Errorf("remove membership: %w", err)
	}
	return nil
}

func decodeMemberships(items []store.Item) []Membership {
	out := make([]Membership, 0, len(items))
	for _, it := range items {
		var m Membership
		if err := it.Decode(&m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}
