package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/geopulse/pkg/httpclient"
	"github.com/go-resty/resty/v2"
)

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	cfg  Config
	http *resty.Client
}

// NewGeminiClient builds a Gemini client. It fails when no API key is configured.
func NewGeminiClient(cfg Config) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingKey
	}
	cfg = cfg.withDefaults()
	return &GeminiClient{
		cfg:  cfg,
		http: httpclient.NewRestyHTTPClient(cfg.Timeout, httpclient.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/"))),
	}, nil
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Generate sends prompt as a single user turn and returns the joined text parts.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	gReq := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}
	if c.cfg.MaxTokens > 0 || c.cfg.Temperature > 0 {
		gReq.GenerationConfig = &geminiGenConfig{
			MaxOutputTokens: c.cfg.MaxTokens,
			Temperature:     c.cfg.Temperature,
		}
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", c.cfg.APIKey).
		SetBody(gReq)
	if c.cfg.Referer != "" {
		req.SetHeader("Referer", c.cfg.Referer)
	}

	resp, err := req.Post(fmt.Sprintf("/models/%s:generateContent", c.cfg.Model))
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}

	var gResp geminiResponse
	if err := json.Unmarshal(resp.Body(), &gResp); err != nil {
		return "", fmt.Errorf("unmarshal response (status %d): %w", resp.StatusCode(), err)
	}

	if gResp.Error != nil {
		return "", fmt.Errorf("gemini api error (%d %s): %s", gResp.Error.Code, gResp.Error.Status, gResp.Error.Message)
	}
	if resp.IsError() {
		return "", fmt.Errorf("gemini api status %d", resp.StatusCode())
	}

	if len(gResp.Candidates) == 0 || len(gResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content in gemini response")
	}

	var b strings.Builder
	for _, p := range gResp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("empty gemini response (finish reason %s)", gResp.Candidates[0].FinishReason)
	}
	return text, nil
}
