package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response exposes what provider clients and the extractor read back.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client issues bounded GETs. Tests swap it for httptest-backed or canned fakes.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// BrowserUserAgent is sent to origins that reject the default Go agent.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Option tweaks the underlying resty client.
type Option func(*resty.Client)

// WithUserAgent sets a default User-Agent for every request.
func WithUserAgent(ua string) Option {
	return func(c *resty.Client) {
		if ua != "" {
			c.SetHeader("User-Agent", ua)
		}
	}
}

// WithBaseURL prefixes relative request URLs.
func WithBaseURL(base string) Option {
	return func(c *resty.Client) {
		if base != "" {
			c.SetBaseURL(base)
		}
	}
}

// RestyClient is the resty-backed Client.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient builds a Client whose requests are capped at timeout.
func NewRestyClient(timeout time.Duration, opts ...Option) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(timeout, opts...)}
}

// NewRestyHTTPClient returns the raw resty client for callers that POST or set a base URL.
func NewRestyHTTPClient(timeout time.Duration, opts ...Option) *resty.Client {
	return newRestyBaseClient(timeout, opts...)
}

func newRestyBaseClient(timeout time.Duration, opts ...Option) *resty.Client {
	c := resty.New()
	c.SetTimeout(timeout)
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get sends headers with the request. Non-2xx statuses are not errors.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
