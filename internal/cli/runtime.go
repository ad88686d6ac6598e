package cli

import (
	"io"
	"log/slog"

	"github.com/csheth/claimscout/internal/catalog"
	"github.com/csheth/claimscout/internal/config"
	"github.com/csheth/claimscout/internal/export"
	"github.com/csheth/claimscout/internal/logging"
	"github.com/csheth/claimscout/internal/session"
)

// runtime bundles what every command needs after config is loaded.
type runtime struct {
	Config   config.Config
	Logger   *slog.Logger
	Session  *session.Session
	Exporter *export.Exporter
	closer   io.Closer
}

func (r *runtime) Close() {
	if r.closer != nil {
		_ = r.closer.Close()
	}
}

// loadRuntime reads config and builds the shared session. Commands that do not
// own the terminal pass their stderr as diag so --verbose without a log file
// still has somewhere to write.
func loadRuntime(diag io.Writer) (*runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.OpenFile(cfg.Log.File, level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	if cfg.Log.File == "" && verbose && diag != nil {
		logger = logging.Init(level, cfg.Log.Format, diag)
	}
	cat, err := catalog.Default()
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	logger.Debug("config loaded",
		slog.String("source", cfg.Source),
		slog.String("policy", cfg.PendingPolicy),
		slog.Duration("thinking_min", cfg.Thinking.Min),
		slog.Duration("thinking_max", cfg.Thinking.Max),
	)
	sess := session.New(cat, session.Options{
		Policy:   cfg.Policy(),
		FlashTTL: cfg.FlashTTL,
		Logger:   logger,
	})
	return &runtime{
		Config:   cfg,
		Logger:   logger,
		Session:  sess,
		Exporter: export.New(cfg.ChromePath),
		closer:   closer,
	}, nil
}
