package app

import (
	"fmt"
	"os"

	"github.com/Adda-Baaj/geopulse/internal/config"
	"github.com/Adda-Baaj/geopulse/internal/logger"
	"github.com/Adda-Baaj/geopulse/internal/pulse"
	"github.com/Adda-Baaj/geopulse/internal/storage"
	"github.com/Adda-Baaj/geopulse/pkg/providers"
)

// NewPulseService loads the provider registry and wires the aggregator.
func NewPulseService(cfg *config.Config, log logger.Logger) (*pulse.Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	reg, err := providers.LoadRegistry(cfg.ProvidersFile)
	if err != nil {
		return nil, fmt.Errorf("load providers registry: %w", err)
	}
	all := reg.All()
	ids := make([]string, 0, len(all))
	for _, p := range all {
		ids = append(ids, p.ID)
	}
	log.InfoObj("providers registry loaded", "providers_meta", map[string]any{
		"count":  len(ids),
		"ids":    ids,
		"cities": len(reg.Cities()),
	})

	set, err := providers.BuildAll(reg, providers.Deps{
		HTTP:   providers.DefaultHTTPClient(),
		Getenv: os.Getenv,
	})
	if err != nil {
		return nil, fmt.Errorf("build providers: %w", err)
	}

	return pulse.NewService(set, pulse.Options{
		UseMock:           cfg.UseMockData,
		MockDelay:         cfg.MockDelay,
		WeatherSampleSize: cfg.WeatherSampleSize,
		Logger:            log,
	}), nil
}

// OpenStore initializes the configured storage backend.
func OpenStore(cfg *config.Config, log logger.Logger) (storage.Store, error) {
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ItemTTL:         cfg.StorageTTL,
		SummaryTTL:      cfg.SummaryTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	logger.Ensure(log).InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"item_ttl_seconds":         int(cfg.StorageTTL.Seconds()),
		"summary_ttl_seconds":      int(cfg.SummaryTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})
	return store, nil
}

func closeStore(store storage.Store, log logger.Logger) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		log.ErrorObj("storage close failed", "error", err)
	}
}
