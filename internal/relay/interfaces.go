package relay

import (
	"context"

	"github.com/Adda-Baaj/geopulse/internal/domain"
	"github.com/Adda-Baaj/geopulse/pkg/publishers"
)

// FeedSource yields the aggregated feed for one filter.
type FeedSource interface {
	FetchPulseData(ctx context.Context, opts domain.FetchOptions) []domain.PulseItem
}

// Dispatcher delivers an event to every configured sink.
type Dispatcher interface {
	Publish(ctx context.Context, evt publishers.Event) ([]publishers.Result, error)
}

// Deduper remembers relayed item ids.
type Deduper interface {
	SeenItem(id string) (bool, error)
	MarkItem(id string) error
}
