package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mwakio197/Dbot-sub001/pkg/api"
	"github.com/mwakio197/Dbot-sub001/pkg/bubble"
	"github.com/mwakio197/Dbot-sub001/pkg/bus"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func(logger *zap.Logger) {
				_ = logger.Sync()
			}(logger)

			logger.Info("dbot started", zap.String("command", "serve"), zap.String("version", Version))
			defer logger.Info("dbot finished")

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			recorder, closeRecorder, err := openRecorder(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeRecorder()

			router := bus.NewRouter(logger, cfg.Bus.Capacity)
			pipe := newPipeline(logger, cfg, recorder)
			pipe.wire(router, false)
			done := router.Exec(ctx)

			upstream := bubble.NewClient(cfg.Bubble.BaseURL, cfg.Bubble.APIToken,
				bubble.WithTimeout(cfg.BubbleTimeout()),
				bubble.WithLogger(logger))

			opts := []api.Option{
				api.WithPublisher(router),
				api.WithObjectType(cfg.Server.ApplicationType),
				api.WithReadTimeout(cfg.ReadTimeout()),
				api.WithWriteTimeout(cfg.WriteTimeout()),
			}
			if cfg.Server.ApplicationWorkflow != "" {
				opts = append(opts, api.WithWorkflow(cfg.Server.ApplicationWorkflow))
			}

			serveErr := api.NewServer(logger, cfg.Server.Addr, upstream, opts...).ListenAndServe(ctx)

			cancel()
			if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("router stopped unexpectedly", zap.Error(err))
			}
			pipe.close(router)

			return serveErr
		},
	}
}
