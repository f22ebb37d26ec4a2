package providers

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Adda-Baaj/geopulse/pkg/httpclient"
)

// DefaultHTTPClient returns the resty-backed client shared by provider clients.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(15 * time.Second) }

// Deps are the collaborators handed to every builder.
type Deps struct {
	HTTP   HTTPClient
	Getenv func(string) string
}

func (d Deps) withDefaults() Deps {
	if d.HTTP == nil {
		d.HTTP = DefaultHTTPClient()
	}
	if d.Getenv == nil {
		d.Getenv = os.Getenv
	}
	return d
}

// Builder turns one registry entry into a client.
type Builder func(cfg Provider, deps Deps) Client

var builders = map[string]Builder{
	TypeNewsAPI: func(cfg Provider, d Deps) Client {
		return NewNewsAPIClient(cfg, d.HTTP, d.Getenv(cfg.APIKeyEnv))
	},
	TypeGNews: func(cfg Provider, d Deps) Client {
		return NewGNewsClient(cfg, d.HTTP, d.Getenv(cfg.APIKeyEnv))
	},
	TypeYouTube: func(cfg Provider, d Deps) Client {
		return NewYouTubeClient(cfg, d.HTTP, d.Getenv(cfg.APIKeyEnv))
	},
	TypeOpenWeather: func(cfg Provider, d Deps) Client {
		return NewOpenWeatherClient(cfg, d.HTTP, d.Getenv(cfg.APIKeyEnv))
	},
	TypeOpenMeteo: func(cfg Provider, d Deps) Client {
		return NewOpenMeteoClient(cfg, d.HTTP)
	},
}

// Set groups the built clients by the slot the aggregator uses them in.
// News and Video keep registry order, which is the rotation order.
type Set struct {
	News      []SearchClient
	Video     []SearchClient
	Headlines HeadlinesClient
	Weather   []WeatherClient
	Cities    []City
}

// Build constructs a single client for cfg.
func Build(cfg Provider, deps Deps) (Client, error) {
	b, ok := builders[strings.ToLower(cfg.Type)]
	if !ok {
		return nil, fmt.Errorf("no client registered for provider %q (type %q)", cfg.ID, cfg.Type)
	}
	return b(cfg, deps.withDefaults()), nil
}

// BuildAll builds every enabled provider of the registry and checks each
// client supports the capability its role needs.
func BuildAll(reg *Registry, deps Deps) (Set, error) {
	deps = deps.withDefaults()
	set := Set{Cities: reg.Cities()}

	for _, cfg := range reg.All() {
		if !cfg.EnabledValue() {
			continue
		}
		c, err := Build(cfg, deps)
		if err != nil {
			return Set{}, err
		}

		switch cfg.Role {
		case RoleNews, RoleVideo:
			sc, ok := c.(SearchClient)
			if !ok {
				return Set{}, roleMismatch(cfg)
			}
			if cfg.Role == RoleNews {
				set.News = append(set.News, sc)
			} else {
				set.Video = append(set.Video, sc)
			}
		case RoleHeadlines:
			hc, ok := c.(HeadlinesClient)
			if !ok {
				return Set{}, roleMismatch(cfg)
			}
			if set.Headlines == nil {
				set.Headlines = hc
			}
		case RoleWeather:
			wc, ok := c.(WeatherClient)
			if !ok {
				return Set{}, roleMismatch(cfg)
			}
			set.Weather = append(set.Weather, wc)
		}
	}
	return set, nil
}

func roleMismatch(cfg Provider) error {
	return fmt.Errorf("provider %q of type %q cannot serve role %q", cfg.ID, cfg.Type, cfg.Role)
}
