package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathergate/weather-aggregation-service/internal/domain"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/cache"
	"github.com/weathergate/weather-aggregation-service/test/mock"
)

// TestConcurrentBatches_SharedCache runs many identical batches in parallel
// against one resolver and verifies every batch settles correctly while the
// shared cache absorbs most provider traffic.
func TestConcurrentBatches_SharedCache(t *testing.T) {
	// Arrange
	provider := mock.NewProvider("openweather").
		WithCity("London", mock.SamplePayload("London", "GB", 15.4))

	store := cache.NewMemoryCache()
	resolver := CreateResolver(provider, store)

	const batches = 10
	results := make([]*domain.BatchResult, batches)
	errs := make([]error, batches)

	// Act
	var wg sync.WaitGroup
	for i := 0; i < batches; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n], errs[n] = resolver.Execute(context.Background(), []domain.CityRequest{
				CityByName("London", "GB"),
			})
		}(i)
	}
	wg.Wait()

	// Assert - every batch found the city regardless of interleaving
	for i := 0; i < batches; i++ {
		require.NoError(t, errs[i])
		require.Len(t, results[i].Cities, 1)
		assert.Equal(t, domain.StatusFound, results[i].Cities[0].Status)
	}

	// Concurrent first calls may race past the cache, but a later batch run
	// sequentially must hit it.
	followUp, err := resolver.Execute(context.Background(), []domain.CityRequest{
		CityByName("London", "GB"),
	})
	require.NoError(t, err)
	assert.True(t, followUp.Cities[0].Meta.Cached)
	assert.GreaterOrEqual(t, provider.CallCountFor("London"), 1)
}

// TestLargeBatch_PreservesOrder resolves a full-width batch of distinct
// cities and verifies results come back in input order with correct payloads.
func TestLargeBatch_PreservesOrder(t *testing.T) {
	// Arrange
	provider := mock.NewProvider("openweather")
	const size = 15
	names := make([]string, size)
	requests := make([]domain.CityRequest, size)
	for i := 0; i < size; i++ {
		names[i] = fmt.Sprintf("City%d", i)
		provider.WithCity(names[i], mock.SamplePayload(names[i], "GB", float64(10+i)))
		requests[i] = CityByName(names[i], "GB")
	}

	resolver := CreateResolver(provider, cache.NewMemoryCache())

	// Act
	result, err := resolver.Execute(context.Background(), requests)

	// Assert
	require.NoError(t, err)
	require.Len(t, result.Cities, size)
	assert.Equal(t, size, result.Summary.Found)

	for i, city := range result.Cities {
		assert.Equal(t, i, city.SearchIndex)
		require.NotNil(t, city.Location)
		assert.Equal(t, names[i], city.Location.Name)
		assert.Equal(t, 10+i, city.Weather.Temperature)
	}
}

// TestConcurrentBatches_MixedOutcomes runs parallel batches where some items
// fail and verifies failures stay isolated to their own item in their own
// batch.
func TestConcurrentBatches_MixedOutcomes(t *testing.T) {
	// Arrange
	provider := mock.NewProvider("openweather").
		WithCity("London", mock.SamplePayload("London", "GB", 15.4)).
		WithCity("Paris", mock.SamplePayload("Paris", "FR", 18.9))

	resolver := CreateResolver(provider, cache.NewMemoryCache())

	requests := []domain.CityRequest{
		CityByName("London", "GB"),
		CityByName("Nowhere", ""),
		CityByName("Paris", "FR"),
	}

	const batches = 5
	results := make([]*domain.BatchResult, batches)
	errs := make([]error, batches)

	// Act
	var wg sync.WaitGroup
	for i := 0; i < batches; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results[n], errs[n] = resolver.Execute(context.Background(), requests)
		}(i)
	}
	wg.Wait()

	// Assert
	for i := 0; i < batches; i++ {
		require.NoError(t, errs[i])
		result := results[i]
		require.Len(t, result.Cities, 3)

		assert.Equal(t, domain.StatusFound, result.Cities[0].Status)
		assert.Equal(t, domain.StatusNotFound, result.Cities[1].Status)
		assert.Equal(t, domain.StatusFound, result.Cities[2].Status)

		assert.Equal(t, 2, result.Summary.Found)
		assert.Equal(t, 1, result.Summary.Failed)
	}
}

// TestConcurrentBatches_SlowItemDoesNotBlockSiblings verifies a slow provider
// response for one item never delays an independent cached item beyond the
// batch's own bookkeeping.
func TestConcurrentBatches_SlowItemDoesNotBlockSiblings(t *testing.T) {
	// Arrange - warm the cache for London with a fast provider
	fast := mock.NewProvider("fast").
		WithCity("London", mock.SamplePayload("London", "GB", 15.4))
	store := cache.NewMemoryCache()
	warm := CreateResolver(fast, store)
	_, err := warm.Execute(context.Background(), []domain.CityRequest{CityByName("London", "GB")})
	require.NoError(t, err)

	// Same cache, but the provider now stalls on every call.
	slow := mock.NewProvider("slow").WithDelay(300 * time.Millisecond)
	gateCfg := LenientGateConfig()
	gateCfg.CallTimeout = 100 * time.Millisecond
	resolver := CreateResolverWithConfig(slow, store, nil, gateCfg)

	// Act
	result, err := resolver.Execute(context.Background(), []domain.CityRequest{
		CityByName("London", "GB"),
		CityByName("Berlin", "DE"),
	})

	// Assert - cached item resolves, slow item fails on its own timeout
	require.NoError(t, err)
	london := result.Cities[0]
	assert.Equal(t, domain.StatusFound, london.Status)
	assert.True(t, london.Meta.Cached)
	assert.Equal(t, 0, slow.CallCountFor("London"))

	berlin := result.Cities[1]
	assert.Equal(t, domain.StatusNotFound, berlin.Status)
	require.NotNil(t, berlin.Error)
}
