package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/infrastructure/metrics"
)

// LedgerSession collects every source page of an account and keeps the
// last successfully fetched collection per account. Fetches that name a view
// are tagged with a request token; a response whose token has been
// superseded by a newer fetch for the same account and view is discarded.
// Fetches without a view never supersede each other.
type LedgerSession struct {
	source  LedgerSource
	idGen   IDGenerator
	logger  zerolog.Logger
	metrics *metrics.Metrics

	mu        sync.Mutex
	latest    map[viewKey]string
	lastKnown map[string][]domain.LedgerEntry
}

// NewLedgerSession creates a new LedgerSession.
func NewLedgerSession(
	source LedgerSource,
	idGen IDGenerator,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *LedgerSession {
	return &LedgerSession{
		source:    source,
		idGen:     idGen,
		logger:    logger,
		metrics:   metrics,
		latest:    make(map[viewKey]string),
		lastKnown: make(map[string][]domain.LedgerEntry),
	}
}

// Fetch collects all pages matching q (q.Page and q.Limit are ignored).
//
// On success the collection replaces the last-known state of the account.
// When the source fails the last-known collection is returned together with
// an error wrapping domain.ErrSourceUnavailable. A superseded fetch returns
// domain.ErrStaleResponse and leaves the state untouched.
func (s *LedgerSession) Fetch(ctx context.Context, q LedgerQuery) ([]domain.LedgerEntry, error) {
	key := viewKey{accountID: q.AccountID, viewID: q.ViewID}
	token := s.begin(key)

	entries, err := s.fetchAll(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != "" && s.latest[key] != token {
		if s.metrics != nil {
			s.metrics.StaleResponses.Inc()
		}
		s.logger.Debug().
			Str("account_id", q.AccountID).
			Str("view_id", q.ViewID).
			Str("token", token).
			Msg("discarding superseded ledger response")
		return nil, fmt.Errorf("%w: request %s", domain.ErrStaleResponse, token)
	}
	delete(s.latest, key)

	if err != nil {
		if s.metrics != nil {
			s.metrics.SourceErrors.WithLabelValues("fetch_ledger").Inc()
		}
		s.logger.Warn().
			Err(err).
			Str("account_id", q.AccountID).
			Msg("ledger fetch failed, keeping last known entries")
		return cloneEntries(s.lastKnown[q.AccountID]), fetchError(err)
	}

	if s.metrics != nil {
		s.metrics.EntriesFetched.Add(float64(len(entries)))
	}
	s.lastKnown[q.AccountID] = entries

	return cloneEntries(entries), nil
}

// LastKnown returns the last successfully fetched collection of an account.
func (s *LedgerSession) LastKnown(accountID string) []domain.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cloneEntries(s.lastKnown[accountID])
}

type viewKey struct {
	accountID string
	viewID    string
}

// begin registers a new fetch for key and returns its token, or "" when the
// fetch belongs to no view.
func (s *LedgerSession) begin(key viewKey) string {
	if key.viewID == "" {
		return ""
	}
	token := s.idGen.Generate()

	s.mu.Lock()
	s.latest[key] = token
	s.mu.Unlock()

	return token
}

func (s *LedgerSession) fetchAll(ctx context.Context, q LedgerQuery) ([]domain.LedgerEntry, error) {
	if c, ok := s.source.(LedgerCollector); ok {
		return c.CollectLedger(ctx, q)
	}
	return CollectPages(ctx, s.source, q)
}

// CollectPages reads every page of q from source (q.Page and q.Limit are
// ignored) and joins them in source order.
func CollectPages(ctx context.Context, source LedgerSource, q LedgerQuery) ([]domain.LedgerEntry, error) {
	q.Limit = FetchPageSize

	var entries []domain.LedgerEntry
	for page := 1; page <= MaxFetchPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		q.Page = page
		result, err := source.FetchLedger(ctx, q)
		if err != nil {
			return nil, err
		}

		entries = append(entries, result.Entries...)

		if result.Pages > 0 {
			if page >= result.Pages {
				break
			}
			continue
		}
		if len(result.Entries) < q.Limit {
			break
		}
	}

	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	return entries, nil
}

// fetchError makes sure a failed fetch matches domain.ErrSourceUnavailable.
func fetchError(err error) error {
	if errors.Is(err, domain.ErrSourceUnavailable) || errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
}

// sourceError is fetchError that also keeps rejections by the source as is.
func sourceError(err error) error {
	if errors.Is(err, domain.ErrSourceRejected) {
		return err
	}
	return fetchError(err)
}

func cloneEntries(entries []domain.LedgerEntry) []domain.LedgerEntry {
	if entries == nil {
		return nil
	}
	out := make([]domain.LedgerEntry, len(entries))
	copy(out, entries)
	return out
}
