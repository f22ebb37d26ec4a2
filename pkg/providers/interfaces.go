package providers

import (
	"context"

	"github.com/Adda-Baaj/geopulse/internal/domain"
	"github.com/Adda-Baaj/geopulse/pkg/httpclient"
)

// Client is the common identity of every configured provider client.
// Concrete capabilities live in the narrower interfaces below.
type Client interface {
	ID() string
	Kind() string
	DisplayName() string
}

// SearchClient runs one free-text search and returns the raw provider payload.
type SearchClient interface {
	Client
	Search(ctx context.Context, query string, page int) ([]byte, error)
}

// HeadlinesClient returns top headlines for a category.
type HeadlinesClient interface {
	Client
	Headlines(ctx context.Context, category string, page int) ([]byte, error)
}

// WeatherClient fetches current conditions for a set of cities. It returns
// every snapshot it could get plus the joined errors of the ones it could not.
type WeatherClient interface {
	Client
	Current(ctx context.Context, cities []City) ([]domain.WeatherData, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within providers.
type HTTPClient = httpclient.Client
