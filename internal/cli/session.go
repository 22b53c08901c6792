package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/chimney/httpclient"
	"github.com/kbukum/chimney/logger"
	"github.com/kbukum/chimney/observability"
)

// session is a configured client plus the telemetry providers it reports to.
type session struct {
	client    *httpclient.Client
	providers *observability.Providers
	log       *logger.Logger
}

// openSession loads the configuration, applies the command-line overrides
// and starts logging, telemetry and the client.
func openSession(ctx context.Context, cmd *cobra.Command, g *globalOptions, opts *requestOptions) (*session, error) {
	cfg, err := loadConfig(g.configFile)
	if err != nil {
		return nil, err
	}
	if err := opts.apply(&cfg.HTTP); err != nil {
		return nil, err
	}

	switch {
	case g.verbose:
		cfg.Logging.Level = "debug"
	case g.quiet:
		cfg.Logging.Level = "error"
	}
	logger.Init(cfg.Logging)
	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Name).WithComponent("httpclient")

	providers, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		return nil, err
	}

	clientOpts := []httpclient.Option{
		httpclient.WithLogger(log),
		httpclient.WithStatusObserver(func(_ context.Context, code int, req *httpclient.Request) {
			log.Warn("unsuccessful response", logger.Fields(
				logger.FieldMethod, req.Method,
				logger.FieldURL, req.URL.Redacted(),
				logger.FieldStatus, code,
			))
		}),
	}
	if providers.Metrics != nil {
		clientOpts = append(clientOpts, httpclient.WithMetrics(providers.Metrics))
	}

	client, err := httpclient.New(cfg.HTTP, clientOpts...)
	if err != nil {
		_ = providers.Shutdown(ctx)
		return nil, err
	}
	return &session{client: client, providers: providers, log: log}, nil
}

func (s *session) close(ctx context.Context) {
	s.client.Close()
	if err := s.providers.Shutdown(ctx); err != nil {
		s.log.Warn("telemetry shutdown failed", logger.ErrorFields("shutdown", err))
	}
}
