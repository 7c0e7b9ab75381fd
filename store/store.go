package store

import (
	"context"
	"strconv"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-category-cache/cache"
	"github.com/goliatone/go-category-cache/category"
)

const keyName = "categories"

// Source fetches every category record from the upstream system.
type Source interface {
	FetchCategories(ctx context.Context) ([]category.WireRecord, error)
}

// ErrorHandler receives every failed fetch.
type ErrorHandler func(err error)

// Option configures a Store.
type Option func(*Store)

// WithConfig sets the cache backend configuration. Ignored when
// WithCacheService is also given.
func WithConfig(cfg cache.Config) Option {
	return func(s *Store) {
		s.config = cfg
	}
}

// WithCacheService replaces the default sturdyc backend.
func WithCacheService(svc cache.CacheService) Option {
	return func(s *Store) {
		s.cache = svc
	}
}

// WithKeySerializer replaces the default key serializer.
func WithKeySerializer(keys cache.KeySerializer) Option {
	return func(s *Store) {
		s.keys = keys
	}
}

// WithLogger sets the logger. Defaults to the logrus standard logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithRegisterer registers the store metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Store) {
		s.registerer = reg
	}
}

// WithErrorHandler sets a hook called once per failed fetch.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(s *Store) {
		s.onError = fn
	}
}

// Store owns the cached category list. It is safe for concurrent use and is
// meant to be shared by every reader and writer in the process.
type Store struct {
	source     Source
	cache      cache.CacheService
	keys       cache.KeySerializer
	config     cache.Config
	logger     logrus.FieldLogger
	registerer prometheus.Registerer
	metrics    *metrics
	onError    ErrorHandler
	now        func() time.Time

	mu          sync.RWMutex
	generation  uint64
	list        []category.Record
	fetchedAt   time.Time
	fingerprint uint64
	lastErr     error
	failures    int
}

// New creates a Store reading from source.
func New(source Source, opts ...Option) (*Store, error) {
	if source == nil {
		return nil, goerrors.New("category source is required", goerrors.CategoryValidation)
	}

	s := &Store{
		source: source,
		config: cache.DefaultConfig(),
		keys:   cache.NewDefaultKeySerializer(),
		logger: logrus.StandardLogger(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cache == nil {
		svc, err := cache.NewCacheService(s.config)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid category cache config")
		}
		s.cache = svc
	}

	s.metrics = newMetrics(s.registerer)
	s.logger = s.logger.WithField("component", "category_store")

	return s, nil
}

// TTL returns how long a fetched list is served.
func (s *Store) TTL() time.Duration {
	return s.config.TTL
}

// Categories returns the current flat list. The returned slice is shared and
// must not be modified.
//
// When the fetch fails the last known good list is returned, or an empty list
// when there is none, together with the fetch error.
func (s *Store) Categories(ctx context.Context) ([]category.Record, error) {
	s.metrics.requests.Inc()

	s.mu.RLock()
	gen := s.generation
	s.mu.RUnlock()

	key := s.keys.SerializeKey(keyName, gen)
	list, err := cache.GetOrFetch(ctx, s.cache, key, func(ctx context.Context) ([]category.Record, error) {
		return s.fetch(ctx, gen)
	})
	if err != nil {
		return s.fallback(), err
	}
	if list == nil {
		list = []category.Record{}
	}
	return list, nil
}

// Invalidate drops the cached list. The next Categories call fetches from the
// source even if a fetch started before Invalidate is still running.
func (s *Store) Invalidate(ctx context.Context) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.list = nil
	s.fetchedAt = time.Time{}
	s.fingerprint = 0
	s.mu.Unlock()

	s.metrics.invalidations.Inc()
	s.metrics.size.Set(0)

	if err := s.cache.DeleteByPrefix(ctx, cache.Prefix(keyName)); err != nil {
		s.logger.WithError(err).Warn("failed to drop cached category lists")
	}
	s.logger.WithField("generation", gen).Debug("category cache invalidated")
}

// Refresh invalidates the cache and fetches a new list.
func (s *Store) Refresh(ctx context.Context) ([]category.Record, error) {
	s.Invalidate(ctx)
	return s.Categories(ctx)
}

func (s *Store) fetch(ctx context.Context, gen uint64) ([]category.Record, error) {
	// the fetch is shared by every waiting caller; one caller giving up must
	// not cancel it for the others
	ctx = context.WithoutCancel(ctx)

	s.metrics.fetches.Inc()
	start := s.now()
	raw, err := s.source.FetchCategories(ctx)
	s.metrics.fetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, s.recordFailure(err)
	}

	records, skipped := category.NormalizeAll(raw)
	fp := category.Fingerprint(records)
	if skipped > 0 {
		s.metrics.skipped.Add(float64(skipped))
		s.logger.WithField("skipped", skipped).Warn("dropped category records without id")
	}

	s.mu.Lock()
	adopted := s.generation == gen
	changed := fp != s.fingerprint
	if adopted {
		s.list = records
		s.fetchedAt = s.now()
		s.fingerprint = fp
		s.lastErr = nil
		s.failures = 0
	}
	s.mu.Unlock()

	if !adopted {
		// invalidated while in flight: the waiting callers get this result
		// but it is never served as the current list
		s.logger.WithField("generation", gen).Debug("discarding category list fetched before invalidation")
		return records, nil
	}

	s.metrics.size.Set(float64(len(records)))
	s.logger.WithFields(logrus.Fields{
		"records":     len(records),
		"generation":  gen,
		"changed":     changed,
		"fingerprint": strconv.FormatUint(fp, 16),
	}).Debug("category list fetched")

	return records, nil
}

func (s *Store) recordFailure(err error) error {
	wrapped := goerrors.Wrap(err, goerrors.CategoryExternal, "fetch categories").
		WithTextCode("CATEGORY_FETCH_FAILED")

	s.metrics.fetchFailures.Inc()

	s.mu.Lock()
	s.lastErr = wrapped
	s.failures++
	failures := s.failures
	hasStale := s.list != nil
	s.mu.Unlock()

	s.logger.WithError(err).WithFields(logrus.Fields{
		"consecutive_failures": failures,
		"serving_stale":        hasStale,
	}).Warn("category fetch failed")

	if s.onError != nil {
		s.onError(wrapped)
	}
	return wrapped
}

func (s *Store) fallback() []category.Record {
	s.mu.RLock()
	list := s.list
	s.mu.RUnlock()

	if list == nil {
		s.metrics.emptyServed.Inc()
		return []category.Record{}
	}
	s.metrics.staleServed.Inc()
	return list
}
