package publishers

import (
	"time"

	"github.com/Adda-Baaj/geopulse/internal/domain"
)

// Event represents one relayed feed item.
type Event struct {
	Region      string           `json:"region"`
	Crisis      bool             `json:"crisis"`
	Item        domain.PulseItem `json:"item"`
	CollectedAt time.Time        `json:"collected_at"`
}

// NewEvent constructs an Event for an item fetched under the given filter.
func NewEvent(region string, crisis bool, item domain.PulseItem) Event {
	return Event{
		Region:      region,
		Crisis:      crisis,
		Item:        item,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are attached as message metadata by queue and topic sinks.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{
		"region":    e.Region,
		"item_type": string(e.Item.Type),
	}
	if e.Crisis {
		attrs["crisis"] = "true"
	}
	return attrs
}
