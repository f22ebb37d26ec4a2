package relay

import (
	"context"
	"errors"
	"fmt"

	"github.com/Adda-Baaj/geopulse/internal/domain"
	"github.com/Adda-Baaj/geopulse/internal/logger"
	"github.com/Adda-Baaj/geopulse/internal/metrics"
	"github.com/Adda-Baaj/geopulse/internal/pulse"
	"github.com/Adda-Baaj/geopulse/pkg/publishers"
)

// Stats summarizes one relay pass.
type Stats struct {
	Fetched   int `json:"fetched"`
	Fresh     int `json:"fresh"`
	Published int `json:"published"`
	Failed    int `json:"failed"`
}

func (s *Stats) add(o Stats) {
	s.Fetched += o.Fetched
	s.Fresh += o.Fresh
	s.Published += o.Published
	s.Failed += o.Failed
}

// Service forwards unseen live feed items to the publisher fanout.
type Service struct {
	source     FeedSource
	dispatcher Dispatcher
	dedupe     Deduper
	log        logger.Logger
}

// NewService wires a relay pass over source, dispatcher and dedupe store.
func NewService(source FeedSource, dispatcher Dispatcher, dedupe Deduper, log logger.Logger) *Service {
	return &Service{
		source:     source,
		dispatcher: dispatcher,
		dedupe:     dedupe,
		log:        logger.Ensure(log),
	}
}

// Run performs one pass across regions. In crisis mode the region list is
// ignored and a single crisis feed is relayed.
func (s *Service) Run(ctx context.Context, regions []domain.Region, crisis bool) (Stats, error) {
	if s == nil || s.source == nil || s.dispatcher == nil {
		return Stats{}, fmt.Errorf("relay service is not initialized")
	}

	if crisis {
		return s.runRegion(ctx, domain.RegionGlobal, true)
	}
	if len(regions) == 0 {
		return Stats{}, fmt.Errorf("no regions configured for relay")
	}

	var (
		total Stats
		errs  []error
	)
	for _, region := range regions {
		if ctx.Err() != nil {
			break
		}
		stats, err := s.runRegion(ctx, region, false)
		total.add(stats)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return total, errors.Join(errs...)
}

func (s *Service) runRegion(ctx context.Context, region domain.Region, crisis bool) (Stats, error) {
	items := s.source.FetchPulseData(ctx, domain.FetchOptions{Region: region, IsCrisisMode: crisis})
	fresh := s.filterFresh(region, items)
	stats := Stats{Fetched: len(items), Fresh: len(fresh)}

	label := string(region)
	if crisis {
		label = pulse.CrisisTag
	}

	var errs []error
	for _, item := range fresh {
		if ctx.Err() != nil {
			break
		}
		results, err := s.dispatcher.Publish(ctx, publishers.NewEvent(label, crisis, item))
		delivered := false
		for _, r := range results {
			status := "success"
			if r.Err != nil {
				status = "error"
			} else {
				delivered = true
			}
			metrics.RecordRelayPublish(r.PublisherID, status)
		}
		if err != nil {
			stats.Failed++
			errs = append(errs, fmt.Errorf("relay item %s: %w", item.ID, err))
		}
		if !delivered {
			continue
		}
		stats.Published++
		if s.dedupe == nil {
			continue
		}
		if err := s.dedupe.MarkItem(item.ID); err != nil {
			s.log.WarnObj("mark item failed", "relay_dedupe_error", map[string]any{
				"item_id": item.ID,
				"error":   err.Error(),
			})
		}
	}

	s.log.InfoObj("region relayed", "relay_result", map[string]any{
		"region":    label,
		"fetched":   stats.Fetched,
		"fresh":     stats.Fresh,
		"published": stats.Published,
		"failed":    stats.Failed,
	})
	return stats, errors.Join(errs...)
}

// filterFresh drops unlinked mock items and ids already relayed. A lookup
// error lets the item through.
func (s *Service) filterFresh(region domain.Region, items []domain.PulseItem) []domain.PulseItem {
	out := make([]domain.PulseItem, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.URL == domain.UnlinkedURL || item.ID == "" {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}

		if s.dedupe != nil {
			ok, err := s.dedupe.SeenItem(item.ID)
			if err != nil {
				s.log.WarnObj("dedupe lookup failed", "relay_dedupe_error", map[string]any{
					"region":  string(region),
					"item_id": item.ID,
					"error":   err.Error(),
				})
			} else if ok {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}
