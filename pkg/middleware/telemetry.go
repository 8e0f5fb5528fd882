package middleware

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mwakio197/Dbot-sub001/pkg/bus"
	"github.com/mwakio197/Dbot-sub001/pkg/common"
)

type Telemetry struct {
	logger *zap.Logger

	contractUpdateEventCounter atomic.Int64
	contractClosedEventCounter atomic.Int64
	applicationEventCounter    atomic.Int64
}

func NewTelemetry(logger *zap.Logger) *Telemetry {
	return &Telemetry{
		logger: logger,
	}
}

func (t *Telemetry) WithContractUpdate(handler bus.ContractUpdateEventHandler) bus.ContractUpdateEventHandler {
	return func(ctx context.Context, info common.ContractInfo) {
		t.contractUpdateEventCounter.Add(1)
		handler(ctx, info)
	}
}

func (t *Telemetry) WithContractClosed(handler bus.ContractClosedEventHandler) bus.ContractClosedEventHandler {
	return func(ctx context.Context, info common.ContractInfo) {
		t.contractClosedEventCounter.Add(1)
		handler(ctx, info)
	}
}

func (t *Telemetry) WithApplication(handler bus.ApplicationEventHandler) bus.ApplicationEventHandler {
	return func(ctx context.Context, app common.ApplicationSubmitted) {
		t.applicationEventCounter.Add(1)
		handler(ctx, app)
	}
}

func (t *Telemetry) PrintStatistics() {
	t.logger.Info("event statistics",
		zap.Int64("contract_update_events", t.contractUpdateEventCounter.Load()),
		zap.Int64("contract_closed_events", t.contractClosedEventCounter.Load()),
		zap.Int64("application_events", t.applicationEventCounter.Load()))
}
