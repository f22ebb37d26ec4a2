package domain

import (
	"fmt"
	"strings"
	"time"
)

// Domain contains core models shared by providers, the aggregator and the API.

// ItemType distinguishes feed entries rendered as articles or videos.
type ItemType string

const (
	ItemTypeArticle ItemType = "article"
	ItemTypeVideo   ItemType = "video"
)

// PulseItem is the canonical feed entry handed to the UI.
type PulseItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Source      string   `json:"source"`
	PublishedAt string   `json:"publishedAt"`
	URL         string   `json:"url"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Type        ItemType `json:"type"`
	Tags        []string `json:"tags"`
	Description string   `json:"description,omitempty"`
	Content     string   `json:"content,omitempty"`
}

// UnlinkedURL marks mock or otherwise unlinked items.
const UnlinkedURL = "#"

// PublishedTime parses PublishedAt, returning the zero time when it is not RFC 3339.
func (p PulseItem) PublishedTime() time.Time {
	t, err := time.Parse(time.RFC3339, p.PublishedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// HasTag reports whether tag is present in the item's tag list.
func (p PulseItem) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Region is one of the fixed geographic filters offered by the dashboard.
type Region string

const (
	RegionGlobal        Region = "Global"
	RegionMiddleEast    Region = "Middle East"
	RegionEasternEurope Region = "Eastern Europe"
	RegionAsiaPacific   Region = "Asia Pacific"
	RegionAmericas      Region = "Americas"
	RegionAfrica        Region = "Africa"
	RegionArctic        Region = "Arctic"
	RegionSouthAsia     Region = "South Asia"
	RegionCentralAsia   Region = "Central Asia"
	RegionLatinAmerica  Region = "Latin America"
)

// Regions lists every supported region in display order.
var Regions = []Region{
	RegionGlobal,
	RegionMiddleEast,
	RegionEasternEurope,
	RegionAsiaPacific,
	RegionAmericas,
	RegionAfrica,
	RegionArctic,
	RegionSouthAsia,
	RegionCentralAsia,
	RegionLatinAmerica,
}

// ParseRegion matches name case-insensitively against the known regions.
// An empty name yields Global.
func ParseRegion(name string) (Region, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return RegionGlobal, nil
	}
	for _, r := range Regions {
		if strings.EqualFold(string(r), name) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown region %q", name)
}

// FetchOptions is the filter state behind one pulse request.
type FetchOptions struct {
	Query        string `json:"query,omitempty"`
	Region       Region `json:"region,omitempty"`
	IsCrisisMode bool   `json:"isCrisisMode,omitempty"`
	Page         int    `json:"page,omitempty"`
}

// Normalized returns a copy with the default region and a 1-based page.
func (o FetchOptions) Normalized() FetchOptions {
	if o.Region == "" {
		o.Region = RegionGlobal
	}
	if o.Page < 1 {
		o.Page = 1
	}
	return o
}

// Coordinates is a lat/lon pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WeatherData is a per-city snapshot. ID is not stable across polls.
type WeatherData struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Country     string      `json:"country"`
	Temp        int         `json:"temp"`
	FeelsLike   int         `json:"feelsLike"`
	Condition   string      `json:"condition"`
	Description string      `json:"description"`
	Humidity    int         `json:"humidity"`
	WindSpeed   float64     `json:"windSpeed"`
	Pressure    int         `json:"pressure"`
	Coordinates Coordinates `json:"coordinates"`
}
