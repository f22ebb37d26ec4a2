package providers

import (
	"context"
	"net/url"
	"strconv"
)

const (
	TypeYouTube        = "youtube"
	youTubeDefaultBase = "https://www.googleapis.com/youtube/v3/search"
	youTubeMaxResults  = 50
)

// youTubeClient searches recent videos through the YouTube Data API.
type youTubeClient struct {
	baseClient
}

// NewYouTubeClient builds a YouTube video search client.
func NewYouTubeClient(cfg Provider, client HTTPClient, apiKey string) SearchClient {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &youTubeClient{baseClient{cfg: cfg, client: client, apiKey: apiKey}}
}

// Search ignores page: the API pages with opaque tokens, so only the first page is served.
func (c *youTubeClient) Search(ctx context.Context, query string, _ int) ([]byte, error) {
	if err := c.requireKey(); err != nil {
		return nil, err
	}
	size := c.cfg.PageSize
	if size > youTubeMaxResults {
		size = youTubeMaxResults
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("order", "date")
	params.Set("q", query)
	params.Set("relevanceLanguage", c.cfg.Language)
	params.Set("maxResults", strconv.Itoa(size))
	params.Set("key", c.apiKey)
	return c.getJSON(ctx, endpointOr(c.cfg, youTubeDefaultBase), params, nil)
}
