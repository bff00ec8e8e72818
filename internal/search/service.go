package search

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/almoxarifado/catalogo/internal/catalog"
	"github.com/almoxarifado/catalogo/internal/catalog/remote"
)

// Catalog is the remote catalog used by the page.
type Catalog interface {
	Search(ctx context.Context, q remote.Query) ([]catalog.Item, error)
	Get(ctx context.Context, id string) (catalog.Item, error)
	Mode() remote.QueryMode
}

// CacheRecorder observes search cache lookups.
type CacheRecorder interface {
	ObserveCache(result string)
}

// Service runs remote searches on behalf of the page.
type Service struct {
	catalog  Catalog
	cache    *Cache
	logger   *slog.Logger
	recorder CacheRecorder
	flights  singleflight.Group
}

// NewService constructs a Service. cache may be nil.
func NewService(c Catalog, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{catalog: c, cache: cache, logger: logger}
}

// WithRecorder attaches a cache lookup recorder.
func (s *Service) WithRecorder(r CacheRecorder) *Service {
	s.recorder = r
	return s
}

// Run performs the remote search for the current filters and stores the
// price-filtered response in st. Failures are logged and leave no results.
func (s *Service) Run(ctx context.Context, st *State) {
	st.Loading = true
	st.SearchPerformed = true
	defer func() { st.Loading = false }()

	items, err := s.Lookup(ctx, remote.QueryFromCriteria(st.Filters))
	if err != nil {
		s.logger.Error("search catalog", slog.Any("error", err))
		st.Results = []catalog.Item{}
		return
	}
	st.Results = catalog.FilterByPrice(items, st.Filters)
}

// Lookup returns the remote response for q, served from cache when possible.
// Identical concurrent lookups share one outbound request.
func (s *Service) Lookup(ctx context.Context, q remote.Query) ([]catalog.Item, error) {
	mode := s.catalog.Mode()
	key := ""
	if s.cache.Enabled() {
		k, err := s.cache.Key(ctx, mode, q)
		if err != nil {
			s.logger.Warn("search cache key", slog.Any("error", err))
		} else {
			key = k
		}
	}
	if key != "" {
		items, hit, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.observeCache("error")
			s.logger.Warn("search cache get", slog.Any("error", err))
		case hit:
			s.observeCache("hit")
			return items, nil
		default:
			s.observeCache("miss")
		}
	}

	// The cache key carries the version, so lookups after a bump never join
	// a flight that started before it.
	flightKey := key
	if flightKey == "" {
		flightKey = queryDigest(mode, q)
	}
	resultChan := s.flights.DoChan(flightKey, func() (interface{}, error) {
		items, err := s.catalog.Search(ctx, q)
		if err != nil {
			return nil, err
		}
		if key != "" {
			if err := s.cache.Set(ctx, key, items); err != nil {
				s.logger.Warn("search cache set", slog.Any("error", err))
			}
		}
		return items, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]catalog.Item), nil
	}
}

func (s *Service) observeCache(result string) {
	if s.recorder != nil {
		s.recorder.ObserveCache(result)
	}
}

// Item fetches a single item for the detail page.
func (s *Service) Item(ctx context.Context, id string) (catalog.Item, error) {
	return s.catalog.Get(ctx, id)
}

// Invalidate drops cached responses after the catalog changed.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
