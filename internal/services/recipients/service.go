package recipients

import (
	"context"
	"fmt"

	"lampions/internal/address"
	"lampions/internal/domain"
)

// Service maintains the recipient relations for a single mail domain.
type Service struct {
	store  domain.RecipientStore
	domain string
}

// New returns a recipient service for mailDomain.
func New(store domain.RecipientStore, mailDomain string) *Service {
	return &Service{store: store, domain: mailDomain}
}

// All returns every recorded relation.
func (s *Service) All(ctx context.Context) (domain.RecipientRelations, error) {
	return s.store.Recipients(ctx)
}

// ForAlias returns the hash -> reply-to map for alias.
func (s *Service) ForAlias(ctx context.Context, alias string) (map[string]string, error) {
	rel, err := s.store.Recipients(ctx)
	if err != nil {
		return nil, err
	}
	forAlias, ok := rel[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrNoRecipients, alias)
	}
	return forAlias, nil
}

// Lookup resolves an alias and address hash to the stored reply-to address.
func (s *Service) Lookup(ctx context.Context, alias, hash string) (string, error) {
	rel, err := s.store.Recipients(ctx)
	if err != nil {
		return "", err
	}
	if _, ok := rel[alias]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrNoRecipients, alias)
	}
	replyTo, ok := rel.Lookup(alias, hash)
	if !ok {
		return "", fmt.Errorf("%w for alias %q and hash %q", domain.ErrUnknownRecipient, alias, hash)
	}
	return replyTo, nil
}

// Resolve resolves a full reply address of the form <alias>+<hash>@<domain>.
func (s *Service) Resolve(ctx context.Context, replyAddress string) (string, error) {
	alias, hash, err := address.ParseReply(replyAddress, s.domain)
	if err != nil {
		return "", err
	}
	return s.Lookup(ctx, alias, hash)
}

// Record stores the relation for a correspondent writing to alias and
// returns the hashed reply address to use as sender.
func (s *Service) Record(ctx context.Context, alias, correspondent, replyTo string) (string, error) {
	hash := address.Hash(correspondent)
	rel, err := s.store.Recipients(ctx)
	if err != nil {
		return "", err
	}
	rel.Set(alias, hash, replyTo)
	if err := s.store.PutRecipients(ctx, rel); err != nil {
		return "", err
	}
	return address.FormatReply(alias, hash, s.domain), nil
}

// Rendered maps hashes in rel to full reply addresses for display.
func (s *Service) Rendered(rel domain.RecipientRelations) map[string]map[string]string {
	out := make(map[string]map[string]string, len(rel))
	for alias, forAlias := range rel {
		rendered := make(map[string]string, len(forAlias))
		for hash, replyTo := range forAlias {
			rendered[address.FormatReply(alias, hash, s.domain)] = replyTo
		}
		out[alias] = rendered
	}
	return out
}
