package cmd

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sgtrust/trusted-sites-allowlist/internal/allowlist"
	"github.com/sgtrust/trusted-sites-allowlist/internal/api"
	"github.com/sgtrust/trusted-sites-allowlist/internal/clock/system"
	"github.com/sgtrust/trusted-sites-allowlist/internal/config"
	"github.com/sgtrust/trusted-sites-allowlist/internal/extract"
	"github.com/sgtrust/trusted-sites-allowlist/internal/fetcher"
	"github.com/sgtrust/trusted-sites-allowlist/internal/id/uuid"
	"github.com/sgtrust/trusted-sites-allowlist/internal/logging"
	"github.com/sgtrust/trusted-sites-allowlist/internal/metrics"
)

// newExtractCmd creates and configures the 'extract' subcommand.
func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Fetches the trusted-sites page and writes the allowlist file",
		Long: `Fetches the configured trusted-sites page with bounded concurrency
and per-request retries, extracts and normalizes every linked URL, and
writes the sorted result to the allowlist file. An empty result set is a
hard failure.`,
		RunE:         runExtract,
		SilenceUsage: true,
	}
	return cmd
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	runID, err := uuid.New().NewID()
	if err != nil {
		return fmt.Errorf("generate run id: %w", err)
	}
	logger = logger.With(zap.String("run_id", runID))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()
	if cfg.Server.Enabled {
		srv := api.NewServer(logger)
		go func() {
			if serveErr := srv.Serve(ctx, fmt.Sprintf(":%d", cfg.Server.Port)); serveErr != nil {
				logger.Warn("debug server stopped", zap.Error(serveErr))
			}
		}()
	}

	client := fetcher.New(fetcher.Config{
		MaxRetries:    cfg.HTTP.MaxRetries,
		MaxConcurrent: int64(cfg.HTTP.MaxConcurrent),
		BackoffFactor: cfg.BackoffFactor(),
		SettleDelay:   cfg.SettleDelay(),
		Timeout:       cfg.Timeout(),
		Headers:       cfg.DefaultHeaders(),
	}, logger)
	extractor := extract.New(client, cfg.Extractor.Endpoint, logger)

	urls := extractor.URLs(ctx)
	if len(urls) == 0 {
		return errors.New("no URLs extracted")
	}

	var sink allowlist.Sink = allowlist.NewFileSink(cfg.Output.Path, logger)
	path, count, err := sink.Write(ctx, urls)
	if err != nil {
		return fmt.Errorf("write allowlist: %w", err)
	}

	logger.Info("allowlist written",
		zap.Int("urls", count),
		zap.String("path", path),
		zap.String("timestamp", allowlist.Timestamp(system.New())),
	)
	return nil
}
