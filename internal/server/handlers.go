package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Adda-Baaj/geopulse/internal/domain"
	"github.com/Adda-Baaj/geopulse/internal/logger"
	"github.com/labstack/echo/v4"
)

type errorBody struct {
	Error string `json:"error"`
}

type summarizeRequest struct {
	URL string `json:"url"`
}

type paywallStatus struct {
	Access     bool       `json:"access"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

type handlers struct {
	feed      Feed
	briefings Briefings
	paywall   Paywall
	log       logger.Logger
}

func (h *handlers) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) pulse(c echo.Context) error {
	region, err := domain.ParseRegion(c.QueryParam("region"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: err.Error()})
	}
	opts := domain.FetchOptions{
		Query:        c.QueryParam("q"),
		Region:       region,
		IsCrisisMode: queryBool(c, "crisis"),
		Page:         queryInt(c, "page", 1),
	}
	return c.JSON(http.StatusOK, h.feed.FetchPulseData(c.Request().Context(), opts))
}

func (h *handlers) headlines(c echo.Context) error {
	items := h.feed.FetchGNews(c.Request().Context(), c.QueryParam("category"), queryInt(c, "page", 1))
	return c.JSON(http.StatusOK, items)
}

func (h *handlers) weather(c echo.Context) error {
	return c.JSON(http.StatusOK, h.feed.FetchWeather(c.Request().Context()))
}

// summarize always answers 200; failures travel in the result's error field.
func (h *handlers) summarize(c echo.Context) error {
	var req summarizeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Invalid request body."})
	}
	res := h.briefings.Summarize(c.Request().Context(), clientID(c.Request()), req.URL)
	return c.JSON(http.StatusOK, res)
}

func (h *handlers) content(c echo.Context) error {
	res := h.briefings.Content(c.Request().Context(), clientID(c.Request()), c.QueryParam("url"))
	return c.JSON(http.StatusOK, res)
}

func (h *handlers) paywallStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.status(clientID(c.Request())))
}

func (h *handlers) unlock(c echo.Context) error {
	id := clientID(c.Request())
	if err := h.paywall.Unlock(c.Request().Context(), id); err != nil {
		h.log.WarnObj("paywall unlock failed", "paywall_error", map[string]any{
			"client_id": id,
			"error":     err.Error(),
		})
		return c.JSON(http.StatusBadRequest, errorBody{Error: "Unable to unlock access."})
	}
	return c.JSON(http.StatusOK, h.status(id))
}

func (h *handlers) status(id string) paywallStatus {
	st := paywallStatus{Access: h.paywall.HasAccess(id)}
	if at, ok := h.paywall.UnlockedAt(id); ok {
		st.UnlockedAt = &at
	}
	return st
}

func queryBool(c echo.Context, name string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(c.QueryParam(name)))
	return err == nil && v
}

func queryInt(c echo.Context, name string, def int) int {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
