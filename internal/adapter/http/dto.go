package http

import (
	"github.com/weathergate/weather-aggregation-service/internal/domain"
	"github.com/weathergate/weather-aggregation-service/internal/infrastructure/cache"
)

// BulkWeatherResponseDTO is the data transfer object for bulk resolution
// responses. It matches the expected API output format.
type BulkWeatherResponseDTO struct {
	Cities    []CityResultDTO `json:"cities"`
	Summary   SummaryDTO      `json:"summary"`
	ElapsedMs int64           `json:"elapsed_ms"`
}

// CityResultDTO is the data transfer object for one batch item.
type CityResultDTO struct {
	SearchIndex int                      `json:"searchIndex"`
	Input       CityInputDTO             `json:"input"`
	Status      string                   `json:"status"`
	Location    *domain.ResolvedLocation `json:"location"`
	Weather     *domain.ResolvedWeather  `json:"weather"`
	Error       *ErrorInfoDTO            `json:"error"`
	Meta        ResultMetaDTO            `json:"meta"`
}

// CityInputDTO echoes the caller's request for one item.
type CityInputDTO struct {
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	CityID  string `json:"cityId,omitempty"`
}

// ErrorInfoDTO carries the per-item error code and message.
type ErrorInfoDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResultMetaDTO carries per-item resolution diagnostics.
type ResultMetaDTO struct {
	Cached              bool     `json:"cached"`
	CacheKey            string   `json:"cacheKey,omitempty"`
	AttemptedVariations []string `json:"attemptedVariations,omitempty"`
	SuccessfulVariation string   `json:"successfulVariation,omitempty"`
	Source              string   `json:"source,omitempty"`
}

// SummaryDTO aggregates per-item outcomes.
type SummaryDTO struct {
	Total  int `json:"total"`
	Found  int `json:"found"`
	Failed int `json:"failed"`
	Cached int `json:"cached"`
}

// CacheStatsDTO is the response body for the cache stats endpoint.
type CacheStatsDTO struct {
	Size      int      `json:"size"`
	Keys      []string `json:"keys"`
	Connected *bool    `json:"connected,omitempty"`
}

// CacheClearedDTO is the response body for the cache clear endpoint.
type CacheClearedDTO struct {
	Cleared bool `json:"cleared"`
}

// ToBulkWeatherResponseDTO converts a domain BatchResult to its DTO.
func ToBulkWeatherResponseDTO(result *domain.BatchResult) *BulkWeatherResponseDTO {
	if result == nil {
		return nil
	}

	dto := &BulkWeatherResponseDTO{
		Cities: make([]CityResultDTO, len(result.Cities)),
		Summary: SummaryDTO{
			Total:  result.Summary.Total,
			Found:  result.Summary.Found,
			Failed: result.Summary.Failed,
			Cached: result.Summary.Cached,
		},
		ElapsedMs: result.ElapsedMs,
	}

	for i, city := range result.Cities {
		dto.Cities[i] = ToCityResultDTO(&city)
	}

	return dto
}

// ToCityResultDTO converts a domain CityResult to a CityResultDTO.
func ToCityResultDTO(result *domain.CityResult) CityResultDTO {
	dto := CityResultDTO{
		SearchIndex: result.SearchIndex,
		Input: CityInputDTO{
			City:    result.Input.City,
			Country: result.Input.Country,
			CityID:  result.Input.CityID,
		},
		Status:   string(result.Status),
		Location: result.Location,
		Weather:  result.Weather,
		Meta: ResultMetaDTO{
			Cached:              result.Meta.Cached,
			CacheKey:            result.Meta.CacheKey,
			AttemptedVariations: result.Meta.AttemptedVariations,
			SuccessfulVariation: result.Meta.SuccessfulVariation,
			Source:              result.Meta.Source,
		},
	}

	if result.Error != nil {
		dto.Error = &ErrorInfoDTO{
			Code:    string(result.Error.Code),
			Message: result.Error.Message,
		}
	}

	return dto
}

// ToCacheStatsDTO converts cache stats to their DTO.
func ToCacheStatsDTO(stats cache.Stats) *CacheStatsDTO {
	keys := stats.Keys
	if keys == nil {
		keys = []string{}
	}
	return &CacheStatsDTO{
		Size:      stats.Size,
		Keys:      keys,
		Connected: stats.Connected,
	}
}
