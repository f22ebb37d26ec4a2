package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Adda-Baaj/geopulse/pkg/httpclient"
)

func testProvider(id, typ, role, base string) Provider {
	return sanitizeProvider(Provider{ID: id, Name: strings.ToUpper(id), Type: typ, Role: role, BaseURL: base})
}

func TestNewsAPIClassification(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		quota   []int
		wantErr error
	}{
		{name: "success", status: http.StatusOK, body: `{"articles":[]}`},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`, wantErr: ErrQuotaExceeded},
		{name: "payment required", status: http.StatusPaymentRequired, body: `{}`, quota: []int{429, 402}, wantErr: ErrQuotaExceeded},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, wantErr: ErrProviderFailure},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{}`, wantErr: ErrProviderFailure},
		{name: "html body", status: http.StatusOK, body: `<html></html>`, wantErr: ErrProviderFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("X-Api-Key") != "secret" {
					t.Errorf("api key header missing")
				}
				if r.URL.Query().Get("q") != `Gaza OR "Middle East"` {
					t.Errorf("unexpected q %q", r.URL.Query().Get("q"))
				}
				if r.URL.Query().Get("sortBy") != "publishedAt" || r.URL.Query().Get("page") != "2" {
					t.Errorf("unexpected params %v", r.URL.Query())
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			cfg := testProvider("newsapi", TypeNewsAPI, RoleNews, srv.URL)
			if tc.quota != nil {
				cfg.QuotaStatuses = tc.quota
			}
			c := NewNewsAPIClient(cfg, httpclient.NewRestyClient(2*time.Second), "secret")
			_, err := c.Search(context.Background(), `Gaza OR "Middle East"`, 2)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestMissingKeyIsUnavailableWithoutNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	client := httpclient.NewRestyClient(time.Second)
	clients := []SearchClient{
		NewNewsAPIClient(testProvider("n", TypeNewsAPI, RoleNews, srv.URL), client, ""),
		NewGNewsClient(testProvider("g", TypeGNews, RoleNews, srv.URL), client, ""),
		NewYouTubeClient(testProvider("y", TypeYouTube, RoleVideo, srv.URL), client, ""),
	}
	for _, c := range clients {
		_, err := c.Search(context.Background(), "x", 1)
		if !errors.Is(err, ErrUnavailable) {
			t.Fatalf("%s: expected ErrUnavailable, got %v", c.ID(), err)
		}
		if Outcome(err) != "unavailable" {
			t.Fatalf("unexpected outcome %q", Outcome(err))
		}
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("expected no network calls, got %d", hits)
	}
}

func TestProviderTimeoutIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewGNewsClient(testProvider("g", TypeGNews, RoleNews, srv.URL), httpclient.NewRestyClient(5*time.Second), "k")
	_, err := c.Search(ctx, "x", 1)
	if !errors.Is(err, ErrProviderFailure) || IsQuota(err) {
		t.Fatalf("expected failure, got %v", err)
	}
}

func TestGNewsHeadlinesUsesCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/top" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("category") != "general" || r.URL.Query().Get("apikey") != "k" {
			t.Errorf("unexpected params %v", r.URL.Query())
		}
		_, _ = w.Write([]byte(`{"articles":[]}`))
	}))
	defer srv.Close()

	cfg := testProvider("g", TypeGNews, RoleHeadlines, "")
	cfg.Config[ConfigHeadlinesURLKey] = srv.URL + "/top"
	c := NewGNewsClient(cfg, httpclient.NewRestyClient(time.Second), "k")
	if _, err := c.Headlines(context.Background(), "", 1); err != nil {
		t.Fatalf("Headlines: %v", err)
	}
}

func TestYouTubeCapsMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("maxResults") != "50" || q.Get("type") != "video" || q.Get("order") != "date" {
			t.Errorf("unexpected params %v", q)
		}
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	cfg := testProvider("y", TypeYouTube, RoleVideo, srv.URL)
	cfg.PageSize = 80
	c := NewYouTubeClient(cfg, httpclient.NewRestyClient(time.Second), "k")
	if _, err := c.Search(context.Background(), "x", 3); err != nil {
		t.Fatalf("Search: %v", err)
	}
}

func TestOpenWeatherFanOutDropsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("units") != "metric" {
			t.Errorf("expected metric units")
		}
		if r.URL.Query().Get("q") == "Nowhere" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"id":703448,"name":"Kyiv","coord":{"lat":50.45,"lon":30.52},"sys":{"country":"UA"},
			"main":{"temp":12.6,"feels_like":10.2,"humidity":70,"pressure":1012},
			"weather":[{"main":"Clouds","description":"broken clouds"}],"wind":{"speed":4.26}}`))
	}))
	defer srv.Close()

	c := NewOpenWeatherClient(testProvider("ow", TypeOpenWeather, RoleWeather, srv.URL), httpclient.NewRestyClient(time.Second), "k")
	got, err := c.Current(context.Background(), []City{{Name: "Kyiv", Lat: 50.45, Lon: 30.52}, {Name: "Nowhere"}})
	if err == nil {
		t.Fatalf("expected joined error for failing city")
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(got))
	}
	w := got[0]
	if w.Temp != 13 || w.FeelsLike != 10 || w.Condition != "Clouds" || w.Country != "UA" || w.WindSpeed != 4.3 {
		t.Fatalf("unexpected snapshot %#v", w)
	}
}

func TestOpenMeteoGroupedCall(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		q, _ := url.ParseQuery(r.URL.RawQuery)
		if q.Get("latitude") != "51.5074,35.6762" {
			t.Errorf("unexpected latitude %q", q.Get("latitude"))
		}
		_, _ = w.Write([]byte(`[
			{"latitude":51.5,"longitude":-0.12,"current":{"temperature_2m":9.4,"apparent_temperature":7.5,"relative_humidity_2m":81,"surface_pressure":1009.6,"wind_speed_10m":18,"weather_code":61}},
			{"latitude":35.7,"longitude":139.7,"current":{"temperature_2m":21.5,"apparent_temperature":21,"relative_humidity_2m":55,"surface_pressure":1015,"wind_speed_10m":7.2,"weather_code":0}}
		]`))
	}))
	defer srv.Close()

	c := NewOpenMeteoClient(testProvider("om", TypeOpenMeteo, RoleWeather, srv.URL), httpclient.NewRestyClient(time.Second))
	got, err := c.Current(context.Background(), []City{
		{Name: "London", Country: "GB", Lat: 51.5074, Lon: -0.1278},
		{Name: "Tokyo", Country: "JP", Lat: 35.6762, Lon: 139.6503},
	})
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected one grouped call, got %d", calls)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(got))
	}
	if got[0].Name != "London" || got[0].Condition != "Rain" || got[0].WindSpeed != 5 || got[0].Pressure != 1010 {
		t.Fatalf("unexpected London snapshot %#v", got[0])
	}
	if got[1].Condition != "Clear" || got[1].Temp != 22 || got[1].WindSpeed != 2 {
		t.Fatalf("unexpected Tokyo snapshot %#v", got[1])
	}
}
