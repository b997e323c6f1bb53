package routes

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"lampions/internal/address"
	"lampions/internal/domain"
)

// Filter restricts List to active or inactive routes.
type Filter int

const (
	All Filter = iota
	ActiveOnly
	InactiveOnly
)

// Update describes a partial route update. A nil Active and empty strings
// leave the corresponding fields untouched; the meta field cannot be
// cleared, only replaced.
type Update struct {
	Forward string
	Active  *bool
	Meta    string
}

func (u Update) empty() bool {
	return u.Forward == "" && u.Active == nil && u.Meta == ""
}

// Service manages the route list for a single mail domain.
type Service struct {
	store  domain.RouteStore
	mailer domain.Mailer
	domain string
}

// New returns a route service for mailDomain.
func New(store domain.RouteStore, mailer domain.Mailer, mailDomain string) *Service {
	return &Service{store: store, mailer: mailer, domain: mailDomain}
}

// List returns routes matching filter, newest first.
func (s *Service) List(ctx context.Context, filter Filter) ([]domain.Route, error) {
	routes, err := s.store.Routes(ctx)
	if err != nil {
		return nil, err
	}
	filtered := routes[:0]
	for _, route := range routes {
		switch filter {
		case ActiveOnly:
			if !route.Active {
				continue
			}
		case InactiveOnly:
			if route.Active {
				continue
			}
		}
		filtered = append(filtered, route)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Created().After(filtered[j].Created())
	})
	return filtered, nil
}

// Add creates a route for alias pointing at forward. The alias must be
// unused and form a valid address on the domain; forward must be a
// verified address.
func (s *Service) Add(ctx context.Context, alias, forward string, active bool, meta string) (domain.Route, error) {
	routes, err := s.store.Routes(ctx)
	if err != nil {
		return domain.Route{}, err
	}
	if _, ok := findAlias(routes, alias); ok {
		return domain.Route{}, fmt.Errorf("%w: %q", domain.ErrDuplicateAlias, alias)
	}
	if !address.ValidAlias(alias, s.domain) {
		return domain.Route{}, fmt.Errorf("invalid alias %q", alias)
	}
	if err := s.verifyForward(ctx, forward); err != nil {
		return domain.Route{}, err
	}

	createdAt := time.Now().UTC().Format(domain.CreatedAtFormat)
	route := domain.Route{
		ID:        address.RouteID(alias, forward, createdAt),
		Active:    active,
		Alias:     alias,
		Forward:   forward,
		CreatedAt: createdAt,
		Meta:      meta,
	}
	// The stored document keeps newest routes first.
	routes = append([]domain.Route{route}, routes...)
	if err := s.store.PutRoutes(ctx, routes); err != nil {
		return domain.Route{}, err
	}
	return route, nil
}

// Modify applies upd to the route for alias.
func (s *Service) Modify(ctx context.Context, alias string, upd Update) (domain.Route, error) {
	routes, err := s.store.Routes(ctx)
	if err != nil {
		return domain.Route{}, err
	}
	i, ok := findAlias(routes, alias)
	if !ok {
		return domain.Route{}, fmt.Errorf("%w: %q", domain.ErrRouteNotFound, alias)
	}
	if upd.empty() {
		return domain.Route{}, domain.ErrNothingToDo
	}
	if upd.Forward != "" {
		if err := s.verifyForward(ctx, upd.Forward); err != nil {
			return domain.Route{}, err
		}
		routes[i].Forward = upd.Forward
	}
	if upd.Active != nil {
		routes[i].Active = *upd.Active
	}
	if upd.Meta != "" {
		routes[i].Meta = upd.Meta
	}
	if err := s.store.PutRoutes(ctx, routes); err != nil {
		return domain.Route{}, err
	}
	return routes[i], nil
}

// Remove deletes the route for alias.
func (s *Service) Remove(ctx context.Context, alias string) error {
	routes, err := s.store.Routes(ctx)
	if err != nil {
		return err
	}
	i, ok := findAlias(routes, alias)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrRouteNotFound, alias)
	}
	routes = append(routes[:i], routes[i+1:]...)
	return s.store.PutRoutes(ctx, routes)
}

// verifyForward checks that forward is a valid, SES-verified address.
func (s *Service) verifyForward(ctx context.Context, forward string) error {
	if !address.Valid(forward) {
		return fmt.Errorf("invalid email address %q", forward)
	}
	verified, err := s.mailer.VerifiedAddresses(ctx)
	if err != nil {
		return err
	}
	for _, addr := range verified {
		if strings.EqualFold(addr, forward) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", domain.ErrForwardNotVerified, forward)
}

func findAlias(routes []domain.Route, alias string) (int, bool) {
	for i, route := range routes {
		if strings.EqualFold(route.Alias, alias) {
			return i, true
		}
	}
	return 0, false
}
