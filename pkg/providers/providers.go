package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Package providers contains pluggable provider configs (YAML/JSON), the
// per-provider HTTP clients and the payload normalizer.

// Provider roles decide where the aggregator slots a configured client.
const (
	RoleNews      = "news"
	RoleVideo     = "video"
	RoleHeadlines = "headlines"
	RoleWeather   = "weather"
)

// Provider describes one external API entry from providers.yaml.
type Provider struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Type           string         `json:"type" yaml:"type"`
	Role           string         `json:"role" yaml:"role"`
	BaseURL        string         `json:"base_url" yaml:"base_url"`
	APIKeyEnv      string         `json:"api_key_env" yaml:"api_key_env"`
	PageSize       int            `json:"page_size" yaml:"page_size"`
	Language       string         `json:"language" yaml:"language"`
	TimeoutSeconds int            `json:"timeout_seconds" yaml:"timeout_seconds"`
	QuotaStatuses  []int          `json:"quota_statuses" yaml:"quota_statuses"`
	Enabled        *bool          `json:"enabled" yaml:"enabled"`
	Config         map[string]any `json:"config" yaml:"config"`
}

// City is a weather location.
type City struct {
	Name    string  `json:"name" yaml:"name"`
	Country string  `json:"country" yaml:"country"`
	Lat     float64 `json:"lat" yaml:"lat"`
	Lon     float64 `json:"lon" yaml:"lon"`
}

type registryFile struct {
	Providers []Provider `json:"providers" yaml:"providers"`
	Cities    []City     `json:"cities" yaml:"cities"`
}

// Registry is the validated content of a providers file. It is read-only after load.
type Registry struct {
	providers []Provider
	idx       map[string]Provider
	cities    []City
}

const (
	defaultPageSize       = 20
	defaultLanguage       = "en"
	defaultTimeoutSeconds = 10
)

// LoadRegistry loads the provider registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("providers file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open providers file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read providers file: %w", err)
	}

	return ParseRegistry(raw, filepath.Ext(path))
}

// ParseRegistry validates raw registry content; ext selects the decoder (".yaml", ".yml", ".json" or "" to try all).
func ParseRegistry(raw []byte, ext string) (*Registry, error) {
	file, err := parseRegistry(raw, ext)
	if err != nil {
		return nil, err
	}

	if len(file.Providers) == 0 {
		return nil, errors.New("providers file contains no providers entries")
	}

	reg := &Registry{
		providers: make([]Provider, 0, len(file.Providers)),
		idx:       make(map[string]Provider, len(file.Providers)),
	}
	for i := range file.Providers {
		p := sanitizeProvider(file.Providers[i])
		if err := validateProvider(p); err != nil {
			return nil, fmt.Errorf("provider[%d]: %w", i, err)
		}
		if _, exists := reg.idx[p.ID]; exists {
			return nil, fmt.Errorf("duplicate provider id %q", p.ID)
		}
		reg.providers = append(reg.providers, p)
		reg.idx[p.ID] = p
	}

	for i, c := range file.Cities {
		c.Name = strings.TrimSpace(c.Name)
		c.Country = strings.TrimSpace(c.Country)
		if c.Name == "" {
			return nil, fmt.Errorf("cities[%d]: name is required", i)
		}
		reg.cities = append(reg.cities, c)
	}

	return reg, nil
}

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return registryFile{}, errors.New("providers file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (registryFile, error) {
	var reg registryFile
	if err := fn(data, &reg); err != nil {
		return registryFile{}, fmt.Errorf("decode %s providers: %w", name, err)
	}
	return reg, nil
}

func sanitizeProvider(p Provider) Provider {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Type = strings.ToLower(strings.TrimSpace(p.Type))
	p.Role = strings.ToLower(strings.TrimSpace(p.Role))
	p.BaseURL = strings.TrimSpace(p.BaseURL)
	p.APIKeyEnv = strings.TrimSpace(p.APIKeyEnv)
	p.Language = strings.TrimSpace(p.Language)

	if p.Config == nil {
		p.Config = map[string]any{}
	}
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.Language == "" {
		p.Language = defaultLanguage
	}
	if p.TimeoutSeconds <= 0 {
		p.TimeoutSeconds = defaultTimeoutSeconds
	}
	if len(p.QuotaStatuses) == 0 {
		p.QuotaStatuses = []int{429}
	}
	if p.Enabled == nil {
		def := true
		p.Enabled = &def
	}

	return p
}

func validateProvider(p Provider) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required for provider %q", p.ID)
	}
	if p.Type == "" {
		return fmt.Errorf("type is required for provider %q", p.ID)
	}
	switch p.Role {
	case RoleNews, RoleVideo, RoleHeadlines, RoleWeather:
	case "":
		return fmt.Errorf("role is required for provider %q", p.ID)
	default:
		return fmt.Errorf("unknown role %q for provider %q", p.Role, p.ID)
	}
	return nil
}

// All returns every configured provider in file order.
func (r *Registry) All() []Provider {
	if r == nil {
		return nil
	}
	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// ByID returns the provider entry for the given id, if loaded.
func (r *Registry) ByID(id string) (Provider, bool) {
	if r == nil {
		return Provider{}, false
	}
	p, ok := r.idx[strings.TrimSpace(id)]
	return p, ok
}

// ByRole returns the enabled providers with the given role in file order.
// File order is the rotation order.
func (r *Registry) ByRole(role string) []Provider {
	if r == nil {
		return nil
	}
	var out []Provider
	for _, p := range r.providers {
		if p.Role == role && p.EnabledValue() {
			out = append(out, p)
		}
	}
	return out
}

// Cities returns the configured weather locations.
func (r *Registry) Cities() []City {
	if r == nil {
		return nil
	}
	out := make([]City, len(r.cities))
	copy(out, r.cities)
	return out
}

// EnabledValue returns enabled flag defaulting to true.
func (p Provider) EnabledValue() bool {
	if p.Enabled == nil {
		return true
	}
	return *p.Enabled
}

// Timeout returns the bounded per-request timeout for the provider.
func (p Provider) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// IsQuotaStatus reports whether status signals quota exhaustion for this provider.
func (p Provider) IsQuotaStatus(status int) bool {
	for _, s := range p.QuotaStatuses {
		if s == status {
			return true
		}
	}
	return false
}
