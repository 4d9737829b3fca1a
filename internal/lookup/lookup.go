// Package lookup resolves permalinked takes, serving repeat reads from cache.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/legm/internal/cache"
	"github.com/ppiankov/legm/internal/model"
	"go.uber.org/zap"
)

// Fetcher retrieves a single take from the service
type Fetcher interface {
	GetTake(ctx context.Context, id int64) (*model.TakeDetail, error)
	BaseURL() string
}

// Lookup fetches takes by id through an optional cache
type Lookup struct {
	fetcher Fetcher
	cache   cache.Cache // nil disables caching
	ttl     time.Duration
	logger  *zap.Logger
}

// New creates a Lookup. Pass a nil cache to always hit the service.
func New(fetcher Fetcher, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Lookup {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lookup{
		fetcher: fetcher,
		cache:   c,
		ttl:     ttl,
		logger:  logger.Named("lookup"),
	}
}

// GetTake returns the take with the given id
func (l *Lookup) GetTake(ctx context.Context, id int64) (*model.TakeDetail, error) {
	key := cache.TakeKey(l.fetcher.BaseURL(), id)

	if l.cache != nil {
		if raw, ok := l.cache.Get(key); ok {
			// re-run the contract check, the disk layer may predate a schema change
			detail, err := model.DecodeTakeDetail(raw)
			if err == nil {
				l.logger.Debug("cache hit", zap.Int64("take_id", id))
				return detail, nil
			}
			l.logger.Warn("dropping stale cache entry", zap.Int64("take_id", id), zap.Error(err))
			_ = l.cache.Delete(key)
		}
	}

	detail, err := l.fetcher.GetTake(ctx, id)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		raw, err := json.Marshal(detail)
		if err != nil {
			return nil, fmt.Errorf("encode take %d: %w", id, err)
		}
		if err := l.cache.Set(key, raw, l.ttl); err != nil {
			l.logger.Warn("cache write failed", zap.Int64("take_id", id), zap.Error(err))
		}
	}

	return detail, nil
}
