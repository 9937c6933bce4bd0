package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/securelog/admin-api/internal/core/domain"
	"github.com/securelog/admin-api/internal/core/ports"
	"github.com/securelog/admin-api/internal/pkg/metrics"
)

const defaultRoleTTL = time.Hour

// RoleCache decorates a ports.RoleRepository with a Redis read-through cache
// of role ids keyed by role name.
// Key format: role:<ROLE_NAME>
//
// Redis failures never fail a lookup; the cache falls through to the store.
type RoleCache struct {
	client *redis.Client
	next   ports.RoleRepository
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRoleCache wraps next. A non-positive ttl selects one hour.
func NewRoleCache(client *redis.Client, next ports.RoleRepository, ttl time.Duration, logger zerolog.Logger) *RoleCache {
	if ttl <= 0 {
		ttl = defaultRoleTTL
	}
	return &RoleCache{client: client, next: next, ttl: ttl, logger: logger}
}

func (c *RoleCache) FindByName(ctx context.Context, name domain.AppRole) (*domain.Role, error) {
	raw, err := c.client.Get(ctx, c.key(name)).Result()
	switch {
	case err == nil:
		if id, perr := strconv.ParseInt(raw, 10, 64); perr == nil {
			metrics.RoleCacheLookupsTotal.WithLabelValues("hit").Inc()
			return &domain.Role{ID: id, Name: name}, nil
		}
		c.logger.Warn().Str("role", name.String()).Str("value", raw).Msg("discarding malformed cached role id")
	case errors.Is(err, redis.Nil):
	default:
		metrics.RoleCacheLookupsTotal.WithLabelValues("error").Inc()
		c.logger.Warn().Err(err).Str("role", name.String()).Msg("role cache read failed")
		return c.next.FindByName(ctx, name)
	}

	metrics.RoleCacheLookupsTotal.WithLabelValues("miss").Inc()
	role, err := c.next.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	c.store(ctx, role)
	return role, nil
}

func (c *RoleCache) Create(ctx context.Context, name domain.AppRole) (*domain.Role, error) {
	role, err := c.next.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	c.store(ctx, role)
	return role, nil
}

func (c *RoleCache) List(ctx context.Context) ([]*domain.Role, error) {
	return c.next.List(ctx)
}

func (c *RoleCache) store(ctx context.Context, role *domain.Role) {
	if err := c.client.Set(ctx, c.key(role.Name), strconv.FormatInt(role.ID, 10), c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("role", role.Name.String()).Msg("role cache write failed")
	}
}

func (c *RoleCache) key(name domain.AppRole) string {
	return fmt.Sprintf("role:%s", name)
}
