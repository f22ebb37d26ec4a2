package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Adda-Baaj/geopulse/internal/config"
	"github.com/Adda-Baaj/geopulse/internal/domain"
	"github.com/Adda-Baaj/geopulse/internal/mockdata"
)

const testProviders = `
providers:
  - id: newsapi
    name: NewsAPI
    type: newsapi
    role: news
    api_key_env: GEOPULSE_TEST_NEWS_KEY
cities:
  - { name: Kyiv, country: UA, lat: 50.45, lon: 30.52 }
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		ProvidersFile:          writeFile(t, "providers.yaml", testProviders),
		UseMockData:            true,
		WeatherSampleSize:      4,
		StorageType:            "bbolt",
		BBoltPath:              filepath.Join(t.TempDir(), "cache.db"),
		StorageTTL:             time.Hour,
		SummaryTTL:             time.Hour,
		StorageCleanupInterval: time.Hour,
		RelayInterval:          time.Minute,
		RelayCrisisInterval:    15 * time.Second,
		RelayRegions:           []string{"Arctic"},
		SummarizeRateLimit:     5,
		SummarizeRateWindow:    time.Minute,
		LLMTimeout:             time.Second,
		HTTPAddr:               "127.0.0.1:0",
	}
}

func TestNewPulseServiceServesMockData(t *testing.T) {
	svc, err := NewPulseService(testConfig(t), nil)
	if err != nil {
		t.Fatalf("NewPulseService: %v", err)
	}

	items := svc.FetchPulseData(context.Background(), domain.FetchOptions{Region: domain.RegionArctic})
	if len(items) < mockdata.MinItems {
		t.Fatalf("expected at least %d mock items, got %d", mockdata.MinItems, len(items))
	}
	for _, it := range items {
		if !it.HasTag(string(domain.RegionArctic)) {
			t.Fatalf("item %s missing region tag: %v", it.ID, it.Tags)
		}
	}
}

func TestNewPulseServiceMissingRegistry(t *testing.T) {
	cfg := testConfig(t)
	cfg.ProvidersFile = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := NewPulseService(cfg, nil); err == nil {
		t.Fatalf("expected error for missing providers file")
	}
}

func TestNewRelayRejectsUnknownRegion(t *testing.T) {
	cfg := testConfig(t)
	cfg.RelayRegions = []string{"Atlantis"}
	if _, err := NewRelay(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for unknown relay region")
	}
}

func TestNewRelayRequiresEnabledPublishers(t *testing.T) {
	cfg := testConfig(t)
	cfg.PublishersFile = writeFile(t, "publishers.yaml", `
publishers:
  - id: hook
    type: http
    enabled: false
    http:
      url: http://localhost:9000
`)
	if _, err := NewRelay(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error when every publisher is disabled")
	}
}

func TestNewRelayUsesCrisisInterval(t *testing.T) {
	cfg := testConfig(t)
	cfg.RelayCrisisMode = true
	cfg.PublishersFile = writeFile(t, "publishers.yaml", `
publishers:
  - id: hook
    type: http
    http:
      url: http://localhost:9000
`)
	r, err := NewRelay(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewRelay: %v", err)
	}
	defer r.close()
	if r.interval != 15*time.Second || !r.crisis {
		t.Fatalf("crisis relay should poll every 15s, got %s", r.interval)
	}
}

func TestNewAPIWithoutModelKey(t *testing.T) {
	api, err := NewAPI(testConfig(t), nil)
	if err != nil {
		t.Fatalf("NewAPI: %v", err)
	}
	defer closeStore(api.store, api.log)
	if api.echo == nil || api.limiter == nil {
		t.Fatalf("api not fully wired")
	}
}
