package domain

import "errors"

var (
	// ErrNotInitialized is returned when the config lacks a region or
	// domain, i.e. before 'lampions init' has been run.
	ErrNotInitialized = errors.New("Lampions is not initialized yet. Call 'lampions init' first")

	// ErrDuplicateAlias is returned when adding a route whose alias exists.
	ErrDuplicateAlias = errors.New("route for alias already exists")

	// ErrRouteNotFound is returned when no route matches the given alias.
	ErrRouteNotFound = errors.New("no route found for alias")

	// ErrForwardNotVerified is returned when a forward address is not in
	// the backend's verified identity list.
	ErrForwardNotVerified = errors.New("forwarding address is not verified")

	// ErrNothingToDo is returned by route updates with no change flags.
	ErrNothingToDo = errors.New("nothing to do")

	// ErrNoMatchingRoute is returned when no active route matches any
	// recipient of an inbound message.
	ErrNoMatchingRoute = errors.New("no matching route for recipients")

	// ErrNoRecipients is returned when an alias has no recorded
	// recipient relations.
	ErrNoRecipients = errors.New("no recipients defined for alias")

	// ErrUnknownRecipient is returned when an address hash cannot be
	// resolved to a correspondent.
	ErrUnknownRecipient = errors.New("failed to resolve recipient")
)
