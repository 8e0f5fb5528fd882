package middleware

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mwakio197/Dbot-sub001/pkg/bus"
	"github.com/mwakio197/Dbot-sub001/pkg/common"
)

type handlerTimer struct {
	calls atomic.Int64
	total atomic.Int64
}

func (h *handlerTimer) observe(start time.Time) {
	h.calls.Add(1)
	h.total.Add(int64(time.Since(start)))
}

func (h *handlerTimer) fields(prefix string) []zap.Field {
	calls := h.calls.Load()
	if calls == 0 {
		return nil
	}
	total := time.Duration(h.total.Load())
	return []zap.Field{
		zap.Duration(prefix+"_avg_duration", total/time.Duration(calls)),
		zap.Duration(prefix+"_total_duration", total),
	}
}

// Performance measures the time spent in the wrapped handlers.
type Performance struct {
	logger *zap.Logger

	contractUpdate handlerTimer
	contractClosed handlerTimer
	application    handlerTimer
}

func NewPerformance(logger *zap.Logger) *Performance {
	return &Performance{
		logger: logger,
	}
}

func (p *Performance) WithContractUpdate(handler bus.ContractUpdateEventHandler) bus.ContractUpdateEventHandler {
	return func(ctx context.Context, info common.ContractInfo) {
		defer p.contractUpdate.observe(time.Now())
		handler(ctx, info)
	}
}

func (p *Performance) WithContractClosed(handler bus.ContractClosedEventHandler) bus.ContractClosedEventHandler {
	return func(ctx context.Context, info common.ContractInfo) {
		defer p.contractClosed.observe(time.Now())
		handler(ctx, info)
	}
}

func (p *Performance) WithApplication(handler bus.ApplicationEventHandler) bus.ApplicationEventHandler {
	return func(ctx context.Context, app common.ApplicationSubmitted) {
		defer p.application.observe(time.Now())
		handler(ctx, app)
	}
}

func (p *Performance) PrintStatistics() {
	var fields []zap.Field
	fields = append(fields, p.contractUpdate.fields("contract_update")...)
	fields = append(fields, p.contractClosed.fields("contract_closed")...)
	fields = append(fields, p.application.fields("application")...)

	p.logger.Info("performance statistics", fields...)
}
