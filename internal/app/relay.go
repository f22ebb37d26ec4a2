package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Adda-Baaj/geopulse/internal/config"
	"github.com/Adda-Baaj/geopulse/internal/domain"
	"github.com/Adda-Baaj/geopulse/internal/logger"
	"github.com/Adda-Baaj/geopulse/internal/relay"
	"github.com/Adda-Baaj/geopulse/internal/storage"
	"github.com/Adda-Baaj/geopulse/pkg/publishers"
)

// Relay is the live-wire runtime. It polls the aggregated feed and pushes
// unseen items to the configured publishers.
type Relay struct {
	service  *relay.Service
	fanout   *publishers.Fanout
	store    storage.Store
	regions  []domain.Region
	crisis   bool
	interval time.Duration
	log      logger.Logger
}

// NewRelay builds a relay runtime from config files.
func NewRelay(ctx context.Context, cfg *config.Config, log logger.Logger) (*Relay, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	regions := make([]domain.Region, 0, len(cfg.RelayRegions))
	for _, name := range cfg.RelayRegions {
		r, err := domain.ParseRegion(name)
		if err != nil {
			return nil, fmt.Errorf("relay regions: %w", err)
		}
		regions = append(regions, r)
	}
	if len(regions) == 0 {
		regions = []domain.Region{domain.RegionGlobal}
	}

	feed, err := NewPulseService(cfg, log)
	if err != nil {
		return nil, err
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	summaries := make([]map[string]string, 0, len(enabled))
	for _, p := range enabled {
		summaries = append(summaries, map[string]string{"id": p.ID, "type": p.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	store, err := OpenStore(cfg, log)
	if err != nil {
		_ = fanout.Close()
		return nil, err
	}

	interval := cfg.RelayInterval
	if cfg.RelayCrisisMode {
		interval = cfg.RelayCrisisInterval
	}

	return &Relay{
		service:  relay.NewService(feed, fanout, store, log),
		fanout:   fanout,
		store:    store,
		regions:  regions,
		crisis:   cfg.RelayCrisisMode,
		interval: interval,
		log:      log,
	}, nil
}

// Run starts the relay loop until the context is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	if r == nil || r.service == nil {
		return fmt.Errorf("relay is not initialized")
	}
	defer r.close()

	r.log.InfoObj("relay loop starting", "relay_state", map[string]any{
		"regions":          r.regions,
		"crisis_mode":      r.crisis,
		"publishers_count": r.fanout.Size(),
		"interval":         r.interval.String(),
	})

	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.InfoObj("relay loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Relay) runOnce(ctx context.Context) {
	start := time.Now()
	stats, err := r.service.Run(ctx, r.regions, r.crisis)
	if err != nil {
		r.log.ErrorObj("relay pass failed", "error", err)
	}
	r.log.InfoObj("relay pass completed", "relay_meta", map[string]any{
		"stats":      stats,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
}

func (r *Relay) close() {
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("publisher close failed", "error", err)
	}
	closeStore(r.store, r.log)
}
