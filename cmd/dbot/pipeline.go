package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mwakio197/Dbot-sub001/internal/config"
	"github.com/mwakio197/Dbot-sub001/pkg/bus"
	"github.com/mwakio197/Dbot-sub001/pkg/common"
	"github.com/mwakio197/Dbot-sub001/pkg/contract"
	"github.com/mwakio197/Dbot-sub001/pkg/data/db/mysql"
	"github.com/mwakio197/Dbot-sub001/pkg/data/db/psql"
	"github.com/mwakio197/Dbot-sub001/pkg/middleware"
)

const monitorFlags = middleware.MonitorContractsClosed | middleware.MonitorApplications

// pipeline owns the middleware wrapped around every router handler.
type pipeline struct {
	logger      *zap.Logger
	monitor     *middleware.Monitor
	telemetry   *middleware.Telemetry
	performance *middleware.Performance
	ledger      *middleware.Ledger
	pushover    *middleware.Pushover
}

func newPipeline(logger *zap.Logger, cfg *config.Config, recorder middleware.Recorder) *pipeline {
	p := &pipeline{
		logger:      logger,
		monitor:     middleware.NewMonitor(logger, monitorFlags),
		telemetry:   middleware.NewTelemetry(logger),
		performance: middleware.NewPerformance(logger),
	}
	if recorder != nil {
		p.ledger = middleware.NewLedger(logger, recorder)
	}
	if cfg.Pushover.Enabled {
		p.pushover = middleware.NewPushover(logger, middleware.PushoverEndpoint,
			cfg.Pushover.User, cfg.Pushover.Token, cfg.Pushover.Device)
	}
	return p
}

// wire installs the handlers on router. Without a contract feed the contract
// handlers only count and log what reaches them.
func (p *pipeline) wire(router *bus.Router, feed bool) {
	var (
		onUpdate bus.ContractUpdateEventHandler = middleware.NoopContractUpdHdl
		onClosed bus.ContractClosedEventHandler = middleware.NoopContractClsHdl
	)
	if feed {
		onUpdate = p.onContractUpdate
		onClosed = p.onContractClosed
	}

	router.OnContractUpdate = middleware.Chain(
		p.monitor.WithContractUpdate,
		p.telemetry.WithContractUpdate,
		p.performance.WithContractUpdate,
	)(onUpdate)

	closed := []func(bus.ContractClosedEventHandler) bus.ContractClosedEventHandler{
		p.monitor.WithContractClosed,
		p.telemetry.WithContractClosed,
		p.performance.WithContractClosed,
	}
	applications := []func(bus.ApplicationEventHandler) bus.ApplicationEventHandler{
		p.monitor.WithApplication,
		p.telemetry.WithApplication,
		p.performance.WithApplication,
	}
	if p.ledger != nil {
		closed = append(closed, p.ledger.WithContractClosed)
		applications = append(applications, p.ledger.WithApplication)
	}
	if p.pushover != nil {
		closed = append(closed, p.pushover.WithContractClosed)
	}

	router.OnContractClosed = middleware.Chain(closed...)(onClosed)
	router.OnApplication = middleware.Chain(applications...)(middleware.NoopApplicationHdl)
}

func (p *pipeline) onContractUpdate(_ context.Context, info common.ContractInfo) {
	p.logger.Info(contract.Describe(info),
		zap.Int64("contract_id", info.ContractID),
		zap.String("status", string(info.Status)))
}

func (p *pipeline) onContractClosed(_ context.Context, info common.ContractInfo) {
	d := contract.Summarize(info, contract.IsEnded)
	p.logger.Info("contract summary",
		zap.Int64("contract_id", info.ContractID),
		zap.String("description", d.Description),
		zap.String("profit", d.Profit),
		zap.String("exit_spot", d.ExitSpot))
}

// close waits for pending writes and notifications, then prints the statistics.
func (p *pipeline) close(router *bus.Router) {
	if p.ledger != nil {
		p.ledger.Wait()
	}
	if p.pushover != nil {
		p.pushover.Wait()
	}
	router.PrintStatistics()
	p.telemetry.PrintStatistics()
	p.performance.PrintStatistics()
}

// openRecorder connects the configured ledger backend. It returns a nil recorder when none is configured.
func openRecorder(ctx context.Context, cfg *config.Config) (middleware.Recorder, func(), error) {
	switch cfg.Ledger.Backend {
	case config.LedgerMySQL:
		db, err := mysql.Connect(ctx, cfg.MySQLOptions())
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open ledger: %w", err)
		}
		return mysql.NewStore(db), func() { _ = db.Close() }, nil
	case config.LedgerPostgres:
		db, err := psql.Connect(ctx, cfg.PostgresOptions())
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open ledger: %w", err)
		}
		return psql.NewStore(db), func() { _ = db.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}
