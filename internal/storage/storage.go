package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage provides the local TTL cache: relayed item IDs and AI summaries.

// Store tracks relayed item IDs and caches summaries by article URL.
type Store interface {
	Close() error
	SeenItem(id string) (bool, error)
	MarkItem(id string) error
	CachedSummary(url string) (string, bool, error)
	CacheSummary(url, summary string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	ItemTTL         time.Duration
	SummaryTTL      time.Duration
	CleanupInterval time.Duration
}

const (
	defaultItemTTL         = 5 * 24 * time.Hour
	defaultSummaryTTL      = time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.ItemTTL <= 0 {
		opts.ItemTTL = defaultItemTTL
	}
	if opts.SummaryTTL <= 0 {
		opts.SummaryTTL = defaultSummaryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                                { return nil }
func (noopStore) SeenItem(string) (bool, error)               { return false, nil }
func (noopStore) MarkItem(string) error                       { return nil }
func (noopStore) CachedSummary(string) (string, bool, error) { return "", false, nil }
func (noopStore) CacheSummary(string, string) error           { return nil }
