package pulse

import (
	"context"
	"time"

	"github.com/Adda-Baaj/geopulse/internal/domain"
	"github.com/Adda-Baaj/geopulse/internal/metrics"
	"github.com/Adda-Baaj/geopulse/internal/mockdata"
	"github.com/Adda-Baaj/geopulse/pkg/providers"
)

// FetchWeather returns current conditions for a random subset of the
// configured cities. Weather clients are tried in order; the first one
// returning any snapshot wins. It never fails.
func (s *Service) FetchWeather(ctx context.Context) []domain.WeatherData {
	if s.useMock {
		if err := sleep(ctx, s.mockDelay); err != nil {
			return []domain.WeatherData{}
		}
		metrics.RecordFallback("weather", "mock_mode")
		return mockdata.Weather()
	}
	if len(s.weather) == 0 || len(s.cities) == 0 {
		metrics.RecordFallback("weather", "no_providers")
		return mockdata.Weather()
	}

	cities := s.pickCities()
	for _, c := range s.weather {
		start := time.Now()
		got, err := c.Current(ctx, cities)
		outcome := providers.Outcome(err)
		if err != nil && len(got) > 0 {
			outcome = "partial"
		}
		metrics.RecordProviderCall(c.ID(), outcome, time.Since(start).Seconds())

		if err != nil {
			s.log.WarnObj("weather provider errors", "provider_error", map[string]any{
				"provider_id": c.ID(),
				"fetched":     len(got),
				"requested":   len(cities),
				"error":       err.Error(),
			})
		}
		if len(got) > 0 {
			return got
		}
	}

	metrics.RecordFallback("weather", "failure")
	return mockdata.Weather()
}

func (s *Service) pickCities() []providers.City {
	k := s.sampleSize
	if k > len(s.cities) {
		k = len(s.cities)
	}
	idx := s.sample(len(s.cities), k)
	out := make([]providers.City, 0, len(idx))
	for _, i := range idx {
		if i >= 0 && i < len(s.cities) {
			out = append(out, s.cities[i])
		}
	}
	return out
}
