package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Adda-Baaj/geopulse/internal/domain"
	"github.com/Adda-Baaj/geopulse/internal/logger"
	"github.com/Adda-Baaj/geopulse/internal/summarize"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Feed is the aggregator surface served over HTTP.
type Feed interface {
	FetchPulseData(ctx context.Context, opts domain.FetchOptions) []domain.PulseItem
	FetchGNews(ctx context.Context, category string, page int) []domain.PulseItem
	FetchWeather(ctx context.Context) []domain.WeatherData
}

// Briefings produces AI summaries and extracted article text.
type Briefings interface {
	Summarize(ctx context.Context, clientID, url string) summarize.Result
	Content(ctx context.Context, clientID, url string) summarize.ContentResult
}

// Paywall tracks per-client briefing access.
type Paywall interface {
	HasAccess(clientID string) bool
	Unlock(ctx context.Context, clientID string) error
	UnlockedAt(clientID string) (time.Time, bool)
}

// Deps are the collaborators behind the API routes.
type Deps struct {
	Feed         Feed
	Briefings    Briefings
	Paywall      Paywall
	BlockedPaths []string
	Logger       logger.Logger
}

// New builds the echo instance with middleware and routes.
func New(d Deps) *echo.Echo {
	log := logger.Ensure(d.Logger)
	h := &handlers{feed: d.Feed, briefings: d.Briefings, paywall: d.Paywall, log: log}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.DebugObj("http request", "http_request", map[string]any{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
			})
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(AccessFilter(d.BlockedPaths))

	e.GET("/healthz", h.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	api.GET("/pulse", h.pulse)
	api.GET("/headlines", h.headlines)
	api.GET("/weather", h.weather)
	api.POST("/summarize", h.summarize)
	api.GET("/content", h.content)
	api.GET("/paywall", h.paywallStatus)
	api.POST("/paywall/unlock", h.unlock)

	return e
}

// Serve runs e on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, e *echo.Echo, addr string, log logger.Logger) error {
	log = logger.Ensure(log)
	errCh := make(chan error, 1)
	go func() {
		log.InfoObj("http server listening", "http_addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.InfoObj("http server stopped", "http_addr", addr)
	return nil
}
