// Package cachedsource serves ledger pages from a cache in front of a
// ledger source.
package cachedsource

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/infrastructure/metrics"
	"github.com/iho/lpledger/internal/usecase"
)

// DefaultTTL is used when no TTL is configured.
const DefaultTTL = 30 * time.Second

const (
	keyPrefix           = "ledger:"
	collectionKeyPrefix = "ledger-all:"
)

// LedgerSource implements usecase.LedgerCollector. Single pages and whole
// collections are cached for the configured TTL under separate keys, so a
// collection is always served from one snapshot and never assembled from
// pages cached at different times. Cache failures fall through to the
// wrapped source.
type LedgerSource struct {
	next    usecase.LedgerSource
	cache   usecase.Cache
	ttl     time.Duration
	backend string
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewLedgerSource creates a new LedgerSource. backend labels the cache
// metrics.
func NewLedgerSource(
	next usecase.LedgerSource,
	cache usecase.Cache,
	ttl time.Duration,
	backend string,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *LedgerSource {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LedgerSource{
		next:    next,
		cache:   cache,
		ttl:     ttl,
		backend: backend,
		logger:  logger,
		metrics: metrics,
	}
}

// FetchLedger returns the cached page for q, or fetches and caches it.
// Errors from the wrapped source are never cached.
func (s *LedgerSource) FetchLedger(ctx context.Context, q usecase.LedgerQuery) (*usecase.LedgerPage, error) {
	key, err := CacheKey(q)
	if err != nil {
		return nil, err
	}

	cached, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var page usecase.LedgerPage
		if err := json.Unmarshal([]byte(cached), &page); err == nil {
			s.hit()
			return &page, nil
		}
		s.logger.Warn().Str("key", key).Msg("discarding undecodable cached ledger page")
	case errors.Is(err, usecase.ErrCacheMiss):
	default:
		s.logger.Warn().Err(err).Str("key", key).Msg("ledger cache read failed")
	}
	s.miss()

	page, err := s.next.FetchLedger(ctx, q)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(page)
	if err != nil {
		return page, nil
	}
	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("ledger cache write failed")
	}

	return page, nil
}

// CollectLedger returns every entry of q from one cached snapshot, or pages
// through the wrapped source and caches the assembled collection.
func (s *LedgerSource) CollectLedger(ctx context.Context, q usecase.LedgerQuery) ([]domain.LedgerEntry, error) {
	key, err := CollectionKey(q)
	if err != nil {
		return nil, err
	}

	cached, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var entries []domain.LedgerEntry
		if err := json.Unmarshal([]byte(cached), &entries); err == nil && entries != nil {
			s.hit()
			return entries, nil
		}
		s.logger.Warn().Str("key", key).Msg("discarding undecodable cached ledger collection")
	case errors.Is(err, usecase.ErrCacheMiss):
	default:
		s.logger.Warn().Err(err).Str("key", key).Msg("ledger cache read failed")
	}
	s.miss()

	entries, err := usecase.CollectPages(ctx, s.next, q)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return entries, nil
	}
	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("ledger cache write failed")
	}

	return entries, nil
}

func (s *LedgerSource) hit() {
	if s.metrics != nil {
		s.metrics.CacheHits.WithLabelValues(s.backend).Inc()
	}
}

func (s *LedgerSource) miss() {
	if s.metrics != nil {
		s.metrics.CacheMisses.WithLabelValues(s.backend).Inc()
	}
}

// cacheKey is the query identity. Date buckets are resolved to absolute
// bounds so a relative bucket does not outlive its day.
type cacheKey struct {
	Page      int                   `json:"page"`
	Limit     int                   `json:"limit"`
	SortBy    string                `json:"sortBy"`
	SortOrder string                `json:"sortOrder"`
	Start     *time.Time            `json:"start,omitempty"`
	End       *time.Time            `json:"end,omitempty"`
	Criteria  domain.FilterCriteria `json:"criteria"`
}

// CacheKey returns the cache key of one ledger page.
func CacheKey(q usecase.LedgerQuery) (string, error) {
	return queryKey(keyPrefix, q)
}

// CollectionKey returns the cache key of the whole collection matching q.
// Paging fields do not take part in it.
func CollectionKey(q usecase.LedgerQuery) (string, error) {
	q.Page, q.Limit = 0, 0
	return queryKey(collectionKeyPrefix, q)
}

func queryKey(prefix string, q usecase.LedgerQuery) (string, error) {
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}

	k := cacheKey{
		Page:      q.Page,
		Limit:     q.Limit,
		SortBy:    string(q.SortBy),
		SortOrder: string(q.SortOrder),
		Criteria:  q.Criteria,
	}
	k.Start, k.End = q.Criteria.Bounds(now)
	k.Criteria.DateRange = domain.DateRangeAll
	k.Criteria.StartDate = nil
	k.Criteria.EndDate = nil

	raw, err := json.Marshal(k)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return prefix + q.AccountID + ":" + hex.EncodeToString(sum[:16]), nil
}
