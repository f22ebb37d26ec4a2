package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/Adda-Baaj/geopulse/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	TypeOpenWeather        = "openweather"
	openWeatherDefaultBase = "https://api.openweathermap.org/data/2.5/weather"
)

// openWeatherClient issues one current-weather call per city, concurrently.
type openWeatherClient struct {
	baseClient
}

// NewOpenWeatherClient builds an OpenWeatherMap client.
func NewOpenWeatherClient(cfg Provider, client HTTPClient, apiKey string) WeatherClient {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &openWeatherClient{baseClient{cfg: cfg, client: client, apiKey: apiKey}}
}

type openWeatherPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (c *openWeatherClient) Current(ctx context.Context, cities []City) ([]domain.WeatherData, error) {
	if err := c.requireKey(); err != nil {
		return nil, err
	}

	results := make([]*domain.WeatherData, len(cities))
	errs := make([]error, len(cities))

	// each goroutine owns its slot; failures never cancel siblings
	var g errgroup.Group
	for i, city := range cities {
		g.Go(func() error {
			w, err := c.fetchCity(ctx, city)
			if err != nil {
				errs[i] = fmt.Errorf("city %s: %w", city.Name, err)
				return nil
			}
			results[i] = &w
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.WeatherData, 0, len(cities))
	for _, w := range results {
		if w != nil {
			out = append(out, *w)
		}
	}
	return out, errors.Join(errs...)
}

func (c *openWeatherClient) fetchCity(ctx context.Context, city City) (domain.WeatherData, error) {
	params := url.Values{}
	if city.Lat != 0 || city.Lon != 0 {
		params.Set("lat", strconv.FormatFloat(city.Lat, 'f', 4, 64))
		params.Set("lon", strconv.FormatFloat(city.Lon, 'f', 4, 64))
	} else {
		q := city.Name
		if city.Country != "" {
			q += "," + city.Country
		}
		params.Set("q", q)
	}
	params.Set("units", "metric")
	params.Set("appid", c.apiKey)

	body, err := c.getJSON(ctx, endpointOr(c.cfg, openWeatherDefaultBase), params, nil)
	if err != nil {
		return domain.WeatherData{}, err
	}

	var p openWeatherPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return domain.WeatherData{}, failure(c.cfg.ID, 0, "decode weather", err)
	}

	w := domain.WeatherData{
		ID:          p.ID,
		Name:        firstNonEmpty(p.Name, city.Name),
		Country:     firstNonEmpty(p.Sys.Country, city.Country),
		Temp:        roundInt(p.Main.Temp),
		FeelsLike:   roundInt(p.Main.FeelsLike),
		Humidity:    p.Main.Humidity,
		WindSpeed:   roundTenth(p.Wind.Speed),
		Pressure:    p.Main.Pressure,
		Coordinates: domain.Coordinates{Lat: p.Coord.Lat, Lon: p.Coord.Lon},
	}
	if len(p.Weather) > 0 {
		w.Condition = p.Weather[0].Main
		w.Description = p.Weather[0].Description
	}
	return w, nil
}

func roundInt(v float64) int { return int(math.Round(v)) }

func roundTenth(v float64) float64 { return math.Round(v*10) / 10 }
