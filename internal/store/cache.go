package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	backend "github.com/redis/go-redis/v9"

	"lampions/internal/domain"
)

const (
	routesCacheKey     = "lampions:routes"
	recipientsCacheKey = "lampions:recipients"

	// DefaultCacheTTL bounds how stale the relay's view of the route
	// documents can get after an out-of-band CLI edit.
	DefaultCacheTTL = 30 * time.Second
)

// Cache is a redis read-through cache in front of the S3 route and
// recipient documents. Writes go to the inner store first and invalidate
// the cached copy.
type Cache struct {
	routes     domain.RouteStore
	recipients domain.RecipientStore
	client     *backend.Client
	ttl        time.Duration
}

// NewCache wraps the given stores with a cache using client.
func NewCache(routes domain.RouteStore, recipients domain.RecipientStore, client *backend.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{routes: routes, recipients: recipients, client: client, ttl: ttl}
}

func (c *Cache) Routes(ctx context.Context) ([]domain.Route, error) {
	b, err := c.client.Get(ctx, routesCacheKey).Bytes()
	if err == nil {
		var routes []domain.Route
		if json.Unmarshal(b, &routes) == nil {
			return routes, nil
		}
	} else if !errors.Is(err, backend.Nil) {
		// Redis being down must not take mail delivery with it; fall
		// through to the inner store.
		return c.routes.Routes(ctx)
	}

	routes, err := c.routes.Routes(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(routes); err == nil {
		_ = c.client.Set(ctx, routesCacheKey, b, c.ttl).Err()
	}
	return routes, nil
}

func (c *Cache) PutRoutes(ctx context.Context, routes []domain.Route) error {
	if err := c.routes.PutRoutes(ctx, routes); err != nil {
		return err
	}
	_ = c.client.Del(ctx, routesCacheKey).Err()
	return nil
}

func (c *Cache) Recipients(ctx context.Context) (domain.RecipientRelations, error) {
	b, err := c.client.Get(ctx, recipientsCacheKey).Bytes()
	if err == nil {
		var rel domain.RecipientRelations
		if json.Unmarshal(b, &rel) == nil {
			return rel, nil
		}
	} else if !errors.Is(err, backend.Nil) {
		return c.recipients.Recipients(ctx)
	}

	rel, err := c.recipients.Recipients(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(rel); err == nil {
		_ = c.client.Set(ctx, recipientsCacheKey, b, c.ttl).Err()
	}
	return rel, nil
}

func (c *Cache) PutRecipients(ctx context.Context, recipients domain.RecipientRelations) error {
	if err := c.recipients.PutRecipients(ctx, recipients); err != nil {
		return err
	}
	_ = c.client.Del(ctx, recipientsCacheKey).Err()
	return nil
}

var (
	_ domain.RouteStore     = (*Cache)(nil)
	_ domain.RecipientStore = (*Cache)(nil)
)
