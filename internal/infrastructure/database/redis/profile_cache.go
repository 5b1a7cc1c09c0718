package redis

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/singleflight"

	"github.com/radassist/report-engine/internal/domain/keyword"
	"github.com/radassist/report-engine/internal/domain/profile"
	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
	"github.com/radassist/report-engine/pkg/types/common"
)

// ProfileContextCache implements profile.ContextLoader with a Redis
// read-through cache in front of the profile and keyword repositories.
// Concurrent misses for the same profile are collapsed with singleflight so a
// cold cache cannot stampede PostgreSQL.
type ProfileContextCache struct {
	client   *Client
	profiles profile.Repository
	keywords keyword.Repository
	logger   logging.Logger
	group    singleflight.Group
}

// NewProfileContextCache builds the cache-backed loader.
func NewProfileContextCache(client *Client, profiles profile.Repository, keywords keyword.Repository, log logging.Logger) *ProfileContextCache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ProfileContextCache{
		client:   client,
		profiles: profiles,
		keywords: keywords,
		logger:   log,
	}
}

// Load resolves the classification context for a profile, preferring the
// cache.  Cache failures degrade to a direct repository load.
func (c *ProfileContextCache) Load(ctx context.Context, profileID common.ID) (profile.Context, error) {
	key := c.client.Key("profile-context", string(profileID))

	if raw, hit, err := c.client.Get(ctx, key); err == nil && hit {
		var pc profile.Context
		if jsonErr := json.Unmarshal([]byte(raw), &pc); jsonErr == nil {
			return pc, nil
		}
		c.logger.Warn("corrupt profile context cache entry, reloading",
			logging.String("key", key))
	} else if err != nil {
		c.logger.Warn("profile context cache read failed",
			logging.Err(err), logging.String("key", key))
	}

	v, err, _ := c.group.Do(string(profileID), func() (interface{}, error) {
		return c.loadOrigin(ctx, profileID, key)
	})
	if err != nil {
		return profile.Context{}, err
	}
	return v.(profile.Context), nil
}

// Invalidate drops the cached context, e.g. after a profile or keyword edit.
func (c *ProfileContextCache) Invalidate(ctx context.Context, profileID common.ID) error {
	return c.client.Delete(ctx, c.client.Key("profile-context", string(profileID)))
}

func (c *ProfileContextCache) loadOrigin(ctx context.Context, profileID common.ID, key string) (interface{}, error) {
	p, err := c.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	words, err := c.keywords.Words(ctx, profileID)
	if err != nil {
		return nil, err
	}

	pc := profile.ContextOf(p, words)
	if raw, err := json.Marshal(pc); err == nil {
		if err := c.client.Set(ctx, key, string(raw)); err != nil {
			c.logger.Warn("profile context cache write failed",
				logging.Err(err), logging.String("key", key))
		}
	}
	return pc, nil
}
