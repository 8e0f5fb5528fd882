package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mwakio197/Dbot-sub001/pkg/bus"
	"github.com/mwakio197/Dbot-sub001/pkg/exchange/deriv"
)

func newWatchCmd() *cobra.Command {
	var contractID int64

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream contract updates from the trading API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func(logger *zap.Logger) {
				_ = logger.Sync()
			}(logger)

			logger.Info("dbot started", zap.String("command", "watch"), zap.String("version", Version))
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
			pipe.wire(router, true)

			client, err := deriv.Dial(ctx, logger, cfg.Deriv.Endpoint, cfg.Deriv.AppID)
			if err != nil {
				return err
			}
			defer logger.Info("connection closed")
			defer client.Close()

			done := router.Exec(ctx)
			defer pipe.close(router)

			_, sub, err := deriv.InitContractSession(ctx, client, cfg.Deriv.Token, contractID, router)
			if err != nil {
				return err
			}

			select {
			case <-ctx.Done():
				forgetCtx, forgetCancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
				if err := client.Forget(forgetCtx, sub); err != nil {
					logger.Debug("unable to forget subscription", zap.Error(err))
				}
				forgetCancel()
			case <-client.Done():
				logger.Warn("connection lost")
			}

			cancel()
			if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&contractID, "contract-id", 0, "contract to watch; 0 watches every open contract")
	return cmd
}
