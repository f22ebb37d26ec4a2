package providers

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"unicode/utf8"
)

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// baseClient holds what every HTTP-backed provider client shares.
type baseClient struct {
	cfg    Provider
	client HTTPClient
	apiKey string
}

func (b *baseClient) ID() string          { return b.cfg.ID }
func (b *baseClient) Kind() string        { return b.cfg.Type }
func (b *baseClient) DisplayName() string { return b.cfg.Name }

// getJSON issues one bounded GET and classifies the outcome.
// A 2xx response with a body that is not JSON counts as a failure.
func (b *baseClient) getJSON(ctx context.Context, endpoint string, params url.Values, headers map[string]string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.Timeout())
	defer cancel()

	target := endpoint
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		target = endpoint + sep + params.Encode()
	}

	resp, err := b.client.Get(ctx, target, mergeHeaders(Headers(b.cfg), headers))
	if err != nil {
		return nil, failure(b.cfg.ID, 0, "request", err)
	}

	status := resp.StatusCode()
	body := resp.Body()
	switch {
	case status >= 200 && status < 300:
	case b.cfg.IsQuotaStatus(status):
		return nil, quota(b.cfg.ID, status, responseSnippet(body))
	default:
		return nil, failure(b.cfg.ID, status, responseSnippet(body), nil)
	}

	if !json.Valid(body) {
		return nil, failure(b.cfg.ID, status, "malformed json body", nil)
	}
	return body, nil
}

func (b *baseClient) requireKey() error {
	if b.apiKey == "" {
		return unavailable(b.cfg.ID, "api key missing (env "+b.cfg.APIKeyEnv+")")
	}
	return nil
}

func mergeHeaders(base, extra map[string]string) map[string]string {
	if len(extra) == 0 {
		return base
	}
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func endpointOr(cfg Provider, fallback string) string {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/")
	}
	return fallback
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
