package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gravitrone/polytag/internal/config"
	"github.com/gravitrone/polytag/internal/logger"
	"github.com/gravitrone/polytag/internal/tagger"
)

// Options are the flags shared by the tag subcommands.
type Options struct {
	Record string
	Debug  bool
}

// Session bundles what a subcommand needs to talk to the backend.
type Session struct {
	Config  *config.Config
	Service *tagger.Service
	Log     *zap.Logger
}

// Close flushes the logger.
func (s *Session) Close() {
	_ = logger.Sync(s.Log)
}

// OpenSession loads the config and wires the orchestrator. Subcommands log to
// stderr at warn level, or debug with --debug.
func OpenSession(opts *Options) (*Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("not configured (run 'polytag init'): %w", err)
	}

	level := "warn"
	if opts.Debug {
		level = "debug"
	}
	log, err := logger.New(level, "")
	if err != nil {
		return nil, err
	}

	settings := cfg.Settings(opts.Record)
	if settings.OwnerID == "" {
		return nil, fmt.Errorf("no record selected: pass --record or set owner_id")
	}

	return &Session{
		Config:  cfg,
		Service: tagger.New(cfg.Client(), settings, log),
		Log:     log,
	}, nil
}
