package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/discovery/logger"
)

const defaultGracefulTimeout = 15 * time.Second

type settings struct {
	log        *logger.Logger
	grace      time.Duration
	summaryOut io.Writer
}

// Option tunes NewApp.
type Option func(*settings)

// WithLogger supplies the logger instead of building one from the logging
// config section.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithGracefulTimeout bounds the whole shutdown sequence.
func WithGracefulTimeout(d time.Duration) Option {
	return func(s *settings) { s.grace = d }
}

// WithSummaryOutput sends the startup summary to w instead of stdout.
func WithSummaryOutput(w io.Writer) Option {
	return func(s *settings) { s.summaryOut = w }
}
