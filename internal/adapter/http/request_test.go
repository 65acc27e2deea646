package http

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathergate/weather-aggregation-service/internal/domain"
)

// validBulkRequest returns a minimal valid request for mutation in tests.
func validBulkRequest() BulkWeatherRequest {
	return BulkWeatherRequest{
		Cities: []domain.CityRequest{
			{City: "London", Country: "GB"},
		},
	}
}

func TestBulkWeatherRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *BulkWeatherRequest)
		wantField string
		wantMsg   string
	}{
		{
			name:   "valid single name request",
			mutate: func(r *BulkWeatherRequest) {},
		},
		{
			name: "valid id request",
			mutate: func(r *BulkWeatherRequest) {
				r.Cities = []domain.CityRequest{{CityID: "2643743"}}
			},
		},
		{
			name: "valid name without country",
			mutate: func(r *BulkWeatherRequest) {
				r.Cities = []domain.CityRequest{{City: "Paris"}}
			},
		},
		{
			name: "mixed name and id items",
			mutate: func(r *BulkWeatherRequest) {
				r.Cities = []domain.CityRequest{
					{City: "London", Country: "GB"},
					{CityID: "2643743"},
				}
			},
		},
		{
			name: "nil cities",
			mutate: func(r *BulkWeatherRequest) {
				r.Cities = nil
			},
			wantField: "cities",
			wantMsg:   "non-empty",
		},
		{
			name: "empty cities",
			mutate: func(r *BulkWeatherRequest) {
				r.Cities = []domain.CityRequest{}
			},
			wantField: "cities",
			wantMsg:   "non-empty",
		},
		{
			name: "batch over the cap",
			mutate: func(r *BulkWeatherRequest) {
				r.Cities = make([]domain.CityRequest, MaxBatchSize+1)
				for i := range r.Cities {
					r.Cities[i] = domain.CityRequest{City: "London"}
				}
			},
			wantField: "cities",
			wantMsg:   "cannot exceed 15",
		},
		{
			name: "item with neither city nor id",
			mutate: func(r *BulkWeatherRequest) {
				r.Cities = []domain.CityRequest{{Country: "GB"}}
			},
			wantField: "cities[0]",
			wantMsg:   "city or cityId",
		},
		{
			name: "item with both city and id",
			mutate: func(r *BulkWeatherRequest) {
				r.Cities = []domain.CityRequest{{City: "London", CityID: "2643743"}}
			},
			wantField: "cities[0]",
			wantMsg:   "mutually exclusive",
		},
		{
			name: "bad country code",
			mutate: func(r *BulkWeatherRequest) {
				r.Cities = []domain.CityRequest{{City: "London", Country: "GBR"}}
			},
			wantField: "cities[0].country",
			wantMsg:   "2-letter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBulkRequest()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var verrs *ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Contains(t, verrs.ToMap()[tt.wantField], tt.wantMsg)
		})
	}
}

func TestBulkWeatherRequestValidateBatchSizeBoundary(t *testing.T) {
	req := BulkWeatherRequest{
		Cities: make([]domain.CityRequest, MaxBatchSize),
	}
	for i := range req.Cities {
		req.Cities[i] = domain.CityRequest{City: "London"}
	}
	assert.NoError(t, req.Validate())
}

func TestBulkWeatherRequestValidateReportsEveryBadItem(t *testing.T) {
	req := BulkWeatherRequest{
		Cities: []domain.CityRequest{
			{City: "London", Country: "GB"},
			{},
			{City: "Paris", Country: "FRANCE"},
		},
	}

	err := req.Validate()
	require.Error(t, err)

	var verrs *ValidationErrors
	require.True(t, errors.As(err, &verrs))
	details := verrs.ToMap()
	assert.Len(t, details, 2)
	assert.Contains(t, details, "cities[1]")
	assert.Contains(t, details, "cities[2].country")
}

func TestValidationErrorsError(t *testing.T) {
	verrs := &ValidationErrors{}
	assert.Equal(t, "validation failed", verrs.Error())
	assert.False(t, verrs.HasErrors())

	verrs.Add("cities", "cities must be a non-empty array")
	assert.True(t, verrs.HasErrors())
	assert.Equal(t, "cities must be a non-empty array", verrs.Error())
}
