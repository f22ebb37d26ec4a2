package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"

	"github.com/Adda-Baaj/geopulse/internal/domain"
)

const (
	TypeOpenMeteo        = "openmeteo"
	openMeteoDefaultBase = "https://api.open-meteo.com/v1/forecast"
	openMeteoFields      = "temperature_2m,apparent_temperature,relative_humidity_2m,surface_pressure,wind_speed_10m,weather_code"
	kmhPerMs             = 3.6
)

// openMeteoClient fetches every city in one grouped call. It needs no API key.
type openMeteoClient struct {
	baseClient
	newID func() int64
}

// NewOpenMeteoClient builds an Open-Meteo client.
func NewOpenMeteoClient(cfg Provider, client HTTPClient) WeatherClient {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &openMeteoClient{
		baseClient: baseClient{cfg: cfg, client: client},
		newID:      func() int64 { return rand.Int64N(1_000_000) + 1 },
	}
}

type openMeteoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   struct {
		Temperature      float64 `json:"temperature_2m"`
		ApparentTemp     float64 `json:"apparent_temperature"`
		RelativeHumidity float64 `json:"relative_humidity_2m"`
		SurfacePressure  float64 `json:"surface_pressure"`
		WindSpeed        float64 `json:"wind_speed_10m"`
		WeatherCode      int     `json:"weather_code"`
	} `json:"current"`
}

func (c *openMeteoClient) Current(ctx context.Context, cities []City) ([]domain.WeatherData, error) {
	if len(cities) == 0 {
		return nil, nil
	}

	lats := make([]string, len(cities))
	lons := make([]string, len(cities))
	for i, city := range cities {
		lats[i] = strconv.FormatFloat(city.Lat, 'f', 4, 64)
		lons[i] = strconv.FormatFloat(city.Lon, 'f', 4, 64)
	}

	params := url.Values{}
	params.Set("latitude", strings.Join(lats, ","))
	params.Set("longitude", strings.Join(lons, ","))
	params.Set("current", openMeteoFields)

	body, err := c.getJSON(ctx, endpointOr(c.cfg, openMeteoDefaultBase), params, nil)
	if err != nil {
		return nil, err
	}

	locations, err := decodeOpenMeteo(body)
	if err != nil {
		return nil, failure(c.cfg.ID, 0, "decode weather", err)
	}

	kmh := ConfigString(c.cfg, ConfigWindUnitKey, "kmh") == "kmh"
	out := make([]domain.WeatherData, 0, len(locations))
	for i, loc := range locations {
		if i >= len(cities) {
			break
		}
		city := cities[i]
		wind := loc.Current.WindSpeed
		if kmh {
			wind = wind / kmhPerMs
		}
		condition, description := wmoCondition(loc.Current.WeatherCode)
		out = append(out, domain.WeatherData{
			ID:          c.newID(),
			Name:        city.Name,
			Country:     city.Country,
			Temp:        roundInt(loc.Current.Temperature),
			FeelsLike:   roundInt(loc.Current.ApparentTemp),
			Condition:   condition,
			Description: description,
			Humidity:    roundInt(loc.Current.RelativeHumidity),
			WindSpeed:   roundTenth(wind),
			Pressure:    roundInt(loc.Current.SurfacePressure),
			Coordinates: domain.Coordinates{Lat: loc.Latitude, Lon: loc.Longitude},
		})
	}
	return out, nil
}

// decodeOpenMeteo handles the single-location object and the multi-location array.
func decodeOpenMeteo(body []byte) ([]openMeteoLocation, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var locs []openMeteoLocation
		if err := json.Unmarshal(trimmed, &locs); err != nil {
			return nil, err
		}
		return locs, nil
	}
	var loc openMeteoLocation
	if err := json.Unmarshal(trimmed, &loc); err != nil {
		return nil, err
	}
	return []openMeteoLocation{loc}, nil
}

// wmoCondition maps WMO weather interpretation codes to a short condition and description.
func wmoCondition(code int) (string, string) {
	switch {
	case code == 0:
		return "Clear", "clear sky"
	case code == 1:
		return "Clouds", "mainly clear"
	case code == 2:
		return "Clouds", "partly cloudy"
	case code == 3:
		return "Clouds", "overcast"
	case code == 45 || code == 48:
		return "Fog", "fog"
	case code >= 51 && code <= 57:
		return "Drizzle", "drizzle"
	case code >= 61 && code <= 67:
		return "Rain", "rain"
	case code >= 71 && code <= 77:
		return "Snow", "snow"
	case code >= 80 && code <= 82:
		return "Rain", "rain showers"
	case code == 85 || code == 86:
		return "Snow", "snow showers"
	case code >= 95:
		return "Thunderstorm", "thunderstorm"
	default:
		return "Unknown", "unknown"
	}
}
