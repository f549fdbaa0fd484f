package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-grading-api/internal/validation"
)

// LookupService answers exists/unique rules through the repository, remembering positive
// existence answers in the cache. Uniqueness is always asked fresh because a cached
// "unique" can go stale the moment another row is written.
type LookupService struct {
	repo    validation.Lookup
	cache   *CacheService
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewLookupService constructs a lookup service. cache and metrics may be nil.
func NewLookupService(repo validation.Lookup, cache *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *LookupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupService{repo: repo, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

func existsKey(table, column string, value interface{}) string {
	return fmt.Sprintf("exists:%s:%s:%s", table, column, validation.Canonical(value))
}

// Exists reports whether a referenced row exists.
func (s *LookupService) Exists(ctx context.Context, table, column string, value interface{}) (bool, error) {
	key := existsKey(table, column, value)
	var cached bool
	if hit, _ := s.cache.Get(ctx, key, &cached); hit && cached {
		s.metrics.ObserveLookup("exists", table, "cache", 0)
		return true, nil
	}

	start := time.Now()
	found, err := s.repo.Exists(ctx, table, column, value)
	if err != nil {
		s.metrics.ObserveLookup("exists", table, "error", time.Since(start))
		s.logger.Warn("exists lookup failed", zap.String("table", table), zap.String("column", column), zap.Error(err))
		return false, err
	}
	s.metrics.ObserveLookup("exists", table, result(found), time.Since(start))

	if found {
		_ = s.cache.Set(ctx, key, true, s.ttl)
	}
	return found, nil
}

// IsUnique reports whether no other row holds value in table.column.
func (s *LookupService) IsUnique(ctx context.Context, table, column string, value interface{}, exceptID string) (bool, error) {
	start := time.Now()
	unique, err := s.repo.IsUnique(ctx, table, column, value, exceptID)
	if err != nil {
		s.metrics.ObserveLookup("unique", table, "error", time.Since(start))
		s.logger.Warn("unique lookup failed", zap.String("table", table), zap.String("column", column), zap.Error(err))
		return false, err
	}
	s.metrics.ObserveLookup("unique", table, result(unique), time.Since(start))
	return unique, nil
}

func result(ok bool) string {
	if ok {
		return "hit"
	}
	return "miss"
}
