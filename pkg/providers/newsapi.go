package providers

import (
	"context"
	"net/url"
	"strconv"
)

const (
	TypeNewsAPI        = "newsapi"
	newsAPIDefaultBase = "https://newsapi.org/v2/everything"
)

// newsAPIClient searches the NewsAPI "everything" endpoint.
type newsAPIClient struct {
	baseClient
}

// NewNewsAPIClient builds a NewsAPI search client. An empty apiKey yields a
// client whose calls fail with ErrUnavailable without touching the network.
func NewNewsAPIClient(cfg Provider, client HTTPClient, apiKey string) SearchClient {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &newsAPIClient{baseClient{cfg: cfg, client: client, apiKey: apiKey}}
}

func (c *newsAPIClient) Search(ctx context.Context, query string, page int) ([]byte, error) {
	if err := c.requireKey(); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", c.cfg.Language)
	params.Set("sortBy", ConfigString(c.cfg, ConfigSortByKey, "publishedAt"))
	params.Set("pageSize", strconv.Itoa(c.cfg.PageSize))
	params.Set("page", strconv.Itoa(page))

	// key travels in a header so it never lands in request logs
	return c.getJSON(ctx, endpointOr(c.cfg, newsAPIDefaultBase), params, map[string]string{
		"X-Api-Key": c.apiKey,
	})
}
