package publishers

import (
	"context"

	"github.com/Adda-Baaj/geopulse/internal/logger"
)

// Publisher delivers relayed events to one sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is the structured logging surface handed to sinks.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger { return logger.Ensure(log) }
