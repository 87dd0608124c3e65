// Package directory resolves platform user principals to display profiles
// through a TTL-bounded read-through cache over the remote user directory.
package directory

import (
	"context"
	"sync"
	"time"

	"github.com/soyeahso/ocbridge/internal/domain"
	"github.com/soyeahso/ocbridge/internal/logging"
)

// DefaultTTL bounds how long a cached profile is served without a fresh
// remote lookup.
const DefaultTTL = 15 * time.Minute

type cachedProfile struct {
	profile   domain.UserProfile
	expiresAt time.Time
}

// Cache is a read-through profile cache. Entries are last-write-wins and
// safely recomputed on miss, so a single lock around the map is all the
// coordination needed.
type Cache struct {
	lookup         Lookup
	defaultGateway string
	ttl            time.Duration
	now            func() time.Time
	log            *logging.Logger

	mu      sync.RWMutex
	entries map[string]cachedProfile
}

// NewCache creates a profile cache over the given lookup service. A zero
// ttl selects DefaultTTL.
func NewCache(lookup Lookup, defaultGateway string, ttl time.Duration, log *logging.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		lookup:         lookup,
		defaultGateway: defaultGateway,
		ttl:            ttl,
		now:            time.Now,
		entries:        make(map[string]cachedProfile),
		log:            log.Sub("directory-cache"),
	}
}

// GetProfile returns the profile for a user, served from cache while fresh.
// Remote failures are logged and degrade to "not found" rather than
// propagating.
func (c *Cache) GetProfile(ctx context.Context, apiGateway, userID string) (domain.UserProfile, bool) {
	gateway := apiGateway
	if gateway == "" {
		gateway = c.defaultGateway
	}
	key := gateway + ":" + userID

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.expiresAt) {
		return entry.profile, true
	}

	profiles, err := c.lookup.LookupProfiles(ctx, []string{userID})
	if err != nil {
		c.log.Warn().Err(err).Str("userId", userID).Msg("profile lookup failed")
		return domain.UserProfile{}, false
	}
	if len(profiles) == 0 {
		return domain.UserProfile{}, false
	}

	profile := profiles[0]
	c.mu.Lock()
	c.entries[key] = cachedProfile{
		profile:   profile,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()

	return profile, true
}
