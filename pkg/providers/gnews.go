package providers

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

const (
	TypeGNews                 = "gnews"
	gnewsDefaultSearchBase    = "https://gnews.io/api/v4/search"
	gnewsDefaultHeadlinesBase = "https://gnews.io/api/v4/top-headlines"
)

// GNewsCategories are the categories accepted by the top-headlines endpoint.
var GNewsCategories = []string{
	"general", "world", "nation", "business", "technology",
	"entertainment", "sports", "science", "health",
}

// IsGNewsCategory reports whether category is accepted by GNews.
func IsGNewsCategory(category string) bool {
	for _, c := range GNewsCategories {
		if c == category {
			return true
		}
	}
	return false
}

// gnewsClient covers both GNews search and top-headlines.
type gnewsClient struct {
	baseClient
}

// GNewsClient can serve as a search fallback and as the headlines source.
type GNewsClient interface {
	SearchClient
	HeadlinesClient
}

// NewGNewsClient builds a GNews client.
func NewGNewsClient(cfg Provider, client HTTPClient, apiKey string) GNewsClient {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &gnewsClient{baseClient{cfg: cfg, client: client, apiKey: apiKey}}
}

func (c *gnewsClient) Search(ctx context.Context, query string, page int) ([]byte, error) {
	if err := c.requireKey(); err != nil {
		return nil, err
	}
	params := c.params(page)
	params.Set("q", query)
	params.Set("sortby", "publishedAt")
	return c.getJSON(ctx, endpointOr(c.cfg, gnewsDefaultSearchBase), params, nil)
}

func (c *gnewsClient) Headlines(ctx context.Context, category string, page int) ([]byte, error) {
	if err := c.requireKey(); err != nil {
		return nil, err
	}
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = "general"
	}
	params := c.params(page)
	params.Set("category", category)
	endpoint := ConfigString(c.cfg, ConfigHeadlinesURLKey, gnewsDefaultHeadlinesBase)
	return c.getJSON(ctx, endpoint, params, nil)
}

func (c *gnewsClient) params(page int) url.Values {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("lang", c.cfg.Language)
	params.Set("max", strconv.Itoa(c.cfg.PageSize))
	params.Set("page", strconv.Itoa(page))
	params.Set("apikey", c.apiKey)
	return params
}
