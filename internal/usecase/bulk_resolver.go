// Package usecase contains the bulk weather resolution pipeline: the
// orchestrator that resolves a heterogeneous batch of city requests
// concurrently with per-item failure isolation.
package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/weathergate/weather-aggregation-service/internal/domain"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/breaker"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/cache"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/logger"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/timeutil"
)

// DefaultCacheTTL is the lifetime of resolved entries written to the cache.
const DefaultCacheTTL = 5 * time.Minute

// idKeyPrefix namespaces cache keys for id-form requests.
const idKeyPrefix = "cityid_"

// WeatherResolver defines the interface for bulk weather resolution.
type WeatherResolver interface {
	// Execute resolves each city request independently and concurrently,
	// returning per-item results in input order plus a batch summary.
	// Only the whole-batch precondition (empty input) fails the call;
	// every per-item failure is captured inside its CityResult.
	Execute(ctx context.Context, requests []domain.CityRequest) (*domain.BatchResult, error)
}

// Config contains configuration options for the resolver.
type Config struct {
	// CacheTTL is the lifetime for cache writes; zero means DefaultCacheTTL.
	CacheTTL time.Duration

	// Clock overrides the time source; nil means the system clock.
	Clock timeutil.Clock
}

// bulkWeatherResolver implements WeatherResolver.
type bulkWeatherResolver struct {
	provider domain.WeatherProvider
	store    cache.Cache
	gate     *breaker.Gate
	cacheTTL time.Duration
	clock    timeutil.Clock
	log      *logger.Logger
}

// NewBulkWeatherResolver creates a WeatherResolver. The circuit gate for the
// weather provider is looked up once from the registry; an unregistered
// service name is a wiring error and fails construction.
func NewBulkWeatherResolver(
	provider domain.WeatherProvider,
	store cache.Cache,
	gates *breaker.Registry,
	config *Config,
	log *logger.Logger,
) (WeatherResolver, error) {
	gate, err := gates.Gate(breaker.ServiceWeatherProvider)
	if err != nil {
		return nil, err
	}

	ttl := DefaultCacheTTL
	var clock timeutil.Clock = timeutil.NewRealClock()
	if config != nil {
		if config.CacheTTL > 0 {
			ttl = config.CacheTTL
		}
		if config.Clock != nil {
			clock = config.Clock
		}
	}

	return &bulkWeatherResolver{
		provider: provider,
		store:    store,
		gate:     gate,
		cacheTTL: ttl,
		clock:    clock,
		log:      log.WithComponent("bulk_resolver"),
	}, nil
}

// Execute implements WeatherResolver.Execute.
func (r *bulkWeatherResolver) Execute(ctx context.Context, requests []domain.CityRequest) (*domain.BatchResult, error) {
	start := r.clock.Now()

	if len(requests) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	// Buffered channel so no item blocks on delivery
	resultsChan := make(chan domain.CityResult, len(requests))

	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(index int, request domain.CityRequest) {
			defer wg.Done()
			r.resolveItem(ctx, index, request, resultsChan)
		}(i, req)
	}

	// Settle all, discard nothing: every item delivers exactly one result.
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]domain.CityResult, 0, len(requests))
	for result := range resultsChan {
		results = append(results, result)
	}

	// Completion order is non-deterministic; restore input order.
	sort.Slice(results, func(i, j int) bool {
		return results[i].SearchIndex < results[j].SearchIndex
	})

	summary := domain.BatchSummary{Total: len(requests)}
	for _, result := range results {
		if result.Status == domain.StatusFound {
			summary.Found++
			if result.Meta.Cached {
				summary.Cached++
			}
		} else {
			summary.Failed++
		}
	}

	elapsed := r.clock.Now().Sub(start).Milliseconds()

	scoped := r.log
	if reqID := logger.RequestIDFromContext(ctx); reqID != "" {
		scoped = scoped.WithRequestID(reqID)
	}
	scoped.Info().
		Int("total", summary.Total).
		Int("found", summary.Found).
		Int("failed", summary.Failed).
		Int("cached", summary.Cached).
		Int64("elapsed_ms", elapsed).
		Msg("Batch resolved")

	return &domain.BatchResult{
		Cities:    results,
		Summary:   summary,
		ElapsedMs: elapsed,
	}, nil
}

// resolveItem processes one batch item with panic recovery so an unexpected
// failure never aborts the batch.
func (r *bulkWeatherResolver) resolveItem(ctx context.Context, index int, request domain.CityRequest, results chan<- domain.CityResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().
				Int("search_index", index).
				Interface("panic", rec).
				Msg("Item resolution panicked")
			results <- failureResult(index, request, domain.StatusError,
				domain.NewCityNotFound(fmt.Sprintf("internal error: %v", rec)), domain.ResultMeta{})
		}
	}()

	if request.IsIDRequest() {
		results <- r.resolveByID(ctx, index, request)
		return
	}
	results <- r.resolveByName(ctx, index, request)
}

// resolveByID handles the id-form path.
func (r *bulkWeatherResolver) resolveByID(ctx context.Context, index int, request domain.CityRequest) domain.CityResult {
	if !request.HasValidID() {
		return failureResult(index, request, domain.StatusError,
			domain.NewInvalidCityName(request.CityID), domain.ResultMeta{})
	}

	key := idKeyPrefix + request.CityID
	if entry, ok := r.readCache(ctx, key); ok {
		return cachedResult(index, request, key, entry)
	}

	payload, err := breaker.Execute(ctx, r.gate, func(callCtx context.Context) (*domain.WeatherPayload, error) {
		return r.provider.GetByID(callCtx, request.CityID)
	})
	if err != nil || !payload.HasData() {
		message := "city not found"
		if err != nil {
			message = err.Error()
		}
		r.log.Warn().
			Str("city_id", request.CityID).
			Str("reason", message).
			Msg("City ID resolution failed")
		return failureResult(index, request, domain.StatusNotFound,
			domain.NewCityNotFound(message), domain.ResultMeta{CacheKey: key})
	}

	entry := domain.NewCacheEntry(payload)
	r.writeCache(ctx, key, entry)
	return fetchedResult(index, request, key, entry, domain.ResultMeta{})
}

// resolveByName handles the name-form path, iterating fallback variations in
// order until one yields a payload with data.
func (r *bulkWeatherResolver) resolveByName(ctx context.Context, index int, request domain.CityRequest) domain.CityResult {
	name := strings.TrimSpace(request.City)
	if !domain.IsValidCityName(name) {
		return failureResult(index, request, domain.StatusError,
			domain.NewInvalidCityName(request.City), domain.ResultMeta{})
	}

	key := domain.CacheKey(domain.NormalizeName(name), request.Country)
	if entry, ok := r.readCache(ctx, key); ok {
		return cachedResult(index, request, key, entry)
	}

	// Fallback variations are derived from the original, non-normalized
	// name; order defines the retry sequence.
	variations := domain.FallbackNames(request.City)
	attempted := make([]string, 0, len(variations))
	var lastErr error

	for _, variation := range variations {
		attempted = append(attempted, variation)

		cleaned := domain.CleanForAPI(variation)
		payload, err := breaker.Execute(ctx, r.gate, func(callCtx context.Context) (*domain.WeatherPayload, error) {
			return r.provider.GetByNameAndCountry(callCtx, cleaned, request.Country)
		})
		if err != nil {
			lastErr = err
			continue
		}
		if !payload.HasData() {
			// An empty payload advances to the next variation, exactly
			// like a provider error.
			lastErr = fmt.Errorf("no weather data for %q", cleaned)
			continue
		}

		entry := domain.NewCacheEntry(payload)
		r.writeCache(ctx, key, entry)
		return fetchedResult(index, request, key, entry, domain.ResultMeta{
			AttemptedVariations: attempted,
			SuccessfulVariation: variation,
		})
	}

	message := "city not found"
	if lastErr != nil {
		message = lastErr.Error()
	}
	r.log.Warn().
		Str("city", request.City).
		Strs("attempted_variations", attempted).
		Str("reason", message).
		Msg("City name resolution failed")
	return failureResult(index, request, domain.StatusNotFound,
		domain.NewCityNotFound(message), domain.ResultMeta{
			CacheKey:            key,
			AttemptedVariations: attempted,
		})
}

// readCache looks up a key, degrading any cache failure to a miss.
func (r *bulkWeatherResolver) readCache(ctx context.Context, key string) (domain.CacheEntry, bool) {
	entry, ok, err := r.store.Get(ctx, key)
	if err != nil {
		r.log.Warn().Err(err).Str("cache_key", key).Msg("Cache read failed, treating as miss")
		return domain.CacheEntry{}, false
	}
	return entry, ok
}

// writeCache stores an entry best-effort; a failed write never surfaces to
// the caller.
func (r *bulkWeatherResolver) writeCache(ctx context.Context, key string, entry domain.CacheEntry) {
	if err := r.store.Set(ctx, key, entry, r.cacheTTL); err != nil {
		r.log.Warn().Err(err).Str("cache_key", key).Msg("Cache write failed")
	}
}

// cachedResult builds a found result served from cache.
func cachedResult(index int, request domain.CityRequest, key string, entry domain.CacheEntry) domain.CityResult {
	location := entry.Location
	weather := entry.Weather
	return domain.CityResult{
		SearchIndex: index,
		Input:       request,
		Status:      domain.StatusFound,
		Location:    &location,
		Weather:     &weather,
		Meta: domain.ResultMeta{
			Cached:   true,
			CacheKey: key,
			Source:   domain.SourceCache,
		},
	}
}

// fetchedResult builds a found result served from the provider. The meta
// argument carries name-path diagnostics; cache key and source are filled in
// here.
func fetchedResult(index int, request domain.CityRequest, key string, entry domain.CacheEntry, meta domain.ResultMeta) domain.CityResult {
	location := entry.Location
	weather := entry.Weather
	meta.Cached = false
	meta.CacheKey = key
	meta.Source = domain.SourceAPI
	return domain.CityResult{
		SearchIndex: index,
		Input:       request,
		Status:      domain.StatusFound,
		Location:    &location,
		Weather:     &weather,
		Meta:        meta,
	}
}

// failureResult builds a not-found or error result.
func failureResult(index int, request domain.CityRequest, status domain.ResultStatus, resolveErr *domain.ResolveError, meta domain.ResultMeta) domain.CityResult {
	return domain.CityResult{
		SearchIndex: index,
		Input:       request,
		Status:      status,
		Error:       resolveErr.Info(),
		Meta:        meta,
	}
}

// Ensure bulkWeatherResolver implements WeatherResolver at compile time.
var _ WeatherResolver = (*bulkWeatherResolver)(nil)
