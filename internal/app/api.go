package app

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/geopulse/internal/config"
	"github.com/Adda-Baaj/geopulse/internal/extract"
	"github.com/Adda-Baaj/geopulse/internal/logger"
	"github.com/Adda-Baaj/geopulse/internal/paywall"
	"github.com/Adda-Baaj/geopulse/internal/ratelimit"
	"github.com/Adda-Baaj/geopulse/internal/server"
	"github.com/Adda-Baaj/geopulse/internal/storage"
	"github.com/Adda-Baaj/geopulse/internal/summarize"
	"github.com/Adda-Baaj/geopulse/pkg/llm"
	"github.com/labstack/echo/v4"
)

// API is the HTTP runtime serving the dashboard.
type API struct {
	cfg     *config.Config
	echo    *echo.Echo
	limiter *ratelimit.Limiter
	store   storage.Store
	log     logger.Logger
}

// NewAPI wires the aggregator, briefing pipeline and paywall behind echo.
func NewAPI(cfg *config.Config, log logger.Logger) (*API, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	feed, err := NewPulseService(cfg, log)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(cfg, log)
	if err != nil {
		return nil, err
	}

	// a missing key leaves the model nil; Summarize then reports the service as unavailable
	var model llm.Client
	gemini, err := llm.NewGeminiClient(llm.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Referer: cfg.GeminiReferer,
		Timeout: cfg.LLMTimeout,
	})
	if err != nil {
		log.WarnObj("summarization model disabled", "llm_error", err.Error())
	} else {
		model = gemini
	}

	limiter := ratelimit.New(cfg.SummarizeRateLimit, cfg.SummarizeRateWindow)
	gate := paywall.NewGate(cfg.PaywallUnlockDelay)
	briefings := summarize.NewService(summarize.Deps{
		Limiter:   limiter,
		Gate:      gate,
		Extractor: extract.NewExtractor(nil),
		Model:     model,
		Cache:     store,
		Logger:    log,
	})

	e := server.New(server.Deps{
		Feed:         feed,
		Briefings:    briefings,
		Paywall:      gate,
		BlockedPaths: cfg.BlockedPaths,
		Logger:       log,
	})

	return &API{cfg: cfg, echo: e, limiter: limiter, store: store, log: log}, nil
}

// Run serves HTTP until the context is cancelled.
func (a *API) Run(ctx context.Context) error {
	if a == nil || a.echo == nil {
		return fmt.Errorf("api is not initialized")
	}
	defer closeStore(a.store, a.log)

	go a.limiter.Run(ctx, a.cfg.RateLimitSweepInterval)

	return server.Serve(ctx, a.echo, a.cfg.HTTPAddr, a.log)
}
