package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dev-shimada/cloud-proxy/internal/cloudflare"
	"github.com/dev-shimada/cloud-proxy/internal/config"
	"github.com/dev-shimada/cloud-proxy/internal/lightsail"
	"github.com/dev-shimada/cloud-proxy/internal/metrics"
	"github.com/dev-shimada/cloud-proxy/internal/proxy"
)

// writeGrace is the time left to write a response once the upstream budget of
// a request is spent.
const writeGrace = 5 * time.Second

// writeTimeout keeps the server write deadline past the upstream budget, so a
// failed or slow upstream still gets its JSON failure body out. Without an
// upstream timeout there is no write deadline either.
func writeTimeout(cfg *config.Config) time.Duration {
	if cfg.UpstreamTimeout <= 0 {
		return 0
	}
	return cfg.UpstreamTimeout + writeGrace
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP proxy (default command)",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.New(), opts.configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return serve(cfg)
		},
	}
}

func buildHandler(cfg *config.Config, reg *prometheus.Registry) (http.Handler, error) {
	cf, err := cloudflare.NewClient(
		cfg.Cloudflare.APIURL,
		cloudflare.Credentials{Email: cfg.Cloudflare.Email, APIKey: cfg.Cloudflare.APIKey},
		&http.Client{Timeout: cfg.UpstreamTimeout},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudflare client: %w", err)
	}

	ls := lightsail.NewService(
		lightsail.NewClient(cfg.AWS.Region, lightsail.Credentials{
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
		}),
		lightsail.Defaults{
			BlueprintID:      cfg.Lightsail.BlueprintID,
			BundleID:         cfg.Lightsail.BundleID,
			AvailabilityZone: cfg.Lightsail.AvailabilityZone,
		},
	)

	m, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	p, err := proxy.New(proxy.Options{
		Cloudflare:     cf,
		Lightsail:      ls,
		Metrics:        m,
		RequestTimeout: cfg.UpstreamTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy: %w", err)
	}
	return p, nil
}

func serve(cfg *config.Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler, err := buildHandler(cfg, reg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout(cfg),
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			"port", cfg.Port,
			"cloudflare_api", cfg.Cloudflare.APIURL,
			"aws_region", cfg.AWS.Region,
			"upstream_timeout", cfg.UpstreamTimeout,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
