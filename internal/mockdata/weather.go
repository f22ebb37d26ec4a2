package mockdata

import "github.com/Adda-Baaj/geopulse/internal/domain"

var weather = []domain.WeatherData{
	{ID: 2643743, Name: "London", Country: "GB", Temp: 11, FeelsLike: 9, Condition: "Clouds", Description: "overcast clouds", Humidity: 82, WindSpeed: 4.6, Pressure: 1011, Coordinates: domain.Coordinates{Lat: 51.5074, Lon: -0.1278}},
	{ID: 5128581, Name: "New York", Country: "US", Temp: 16, FeelsLike: 15, Condition: "Clear", Description: "clear sky", Humidity: 54, WindSpeed: 3.1, Pressure: 1018, Coordinates: domain.Coordinates{Lat: 40.7128, Lon: -74.006}},
	{ID: 1850147, Name: "Tokyo", Country: "JP", Temp: 19, FeelsLike: 19, Condition: "Rain", Description: "light rain", Humidity: 77, WindSpeed: 2.7, Pressure: 1009, Coordinates: domain.Coordinates{Lat: 35.6762, Lon: 139.6503}},
	{ID: 703448, Name: "Kyiv", Country: "UA", Temp: 8, FeelsLike: 5, Condition: "Clouds", Description: "broken clouds", Humidity: 71, WindSpeed: 5.2, Pressure: 1014, Coordinates: domain.Coordinates{Lat: 50.4501, Lon: 30.5234}},
	{ID: 281184, Name: "Jerusalem", Country: "IL", Temp: 24, FeelsLike: 24, Condition: "Clear", Description: "clear sky", Humidity: 38, WindSpeed: 3.9, Pressure: 1013, Coordinates: domain.Coordinates{Lat: 31.7683, Lon: 35.2137}},
	{ID: 1816670, Name: "Beijing", Country: "CN", Temp: 14, FeelsLike: 12, Condition: "Haze", Description: "haze", Humidity: 45, WindSpeed: 2.1, Pressure: 1020, Coordinates: domain.Coordinates{Lat: 39.9042, Lon: 116.4074}},
	{ID: 1273294, Name: "Delhi", Country: "IN", Temp: 31, FeelsLike: 33, Condition: "Haze", Description: "haze", Humidity: 48, WindSpeed: 1.8, Pressure: 1008, Coordinates: domain.Coordinates{Lat: 28.6139, Lon: 77.209}},
	{ID: 184745, Name: "Nairobi", Country: "KE", Temp: 22, FeelsLike: 22, Condition: "Clouds", Description: "scattered clouds", Humidity: 60, WindSpeed: 4.1, Pressure: 1017, Coordinates: domain.Coordinates{Lat: -1.2921, Lon: 36.8219}},
}

// Weather returns the fixed fallback weather snapshots.
func Weather() []domain.WeatherData {
	out := make([]domain.WeatherData, len(weather))
	copy(out, weather)
	return out
}
