package middleware

import (
	"context"

	"go.uber.org/zap"

	"github.com/mwakio197/Dbot-sub001/pkg/bus"
	"github.com/mwakio197/Dbot-sub001/pkg/common"
)

type MonitorFlags uint16

//goland:noinspection GoUnusedConst
const (
	MonitorNone MonitorFlags = 1 << iota
	MonitorAll
	MonitorContractUpdates
	MonitorContractsClosed
	MonitorApplications
)

type Monitor struct {
	logger *zap.Logger
	flags  MonitorFlags
}

func NewMonitor(logger *zap.Logger, flags MonitorFlags) *Monitor {
	return &Monitor{
		logger: logger,
		flags:  flags,
	}
}

func (m *Monitor) WithContractUpdate(handler bus.ContractUpdateEventHandler) bus.ContractUpdateEventHandler {
	return func(ctx context.Context, info common.ContractInfo) {
		if m.enabled(MonitorContractUpdates) {
			m.logger.Info("contract updated", contractFields(info)...)
		}
		handler(ctx, info)
	}
}

func (m *Monitor) WithContractClosed(handler bus.ContractClosedEventHandler) bus.ContractClosedEventHandler {
	return func(ctx context.Context, info common.ContractInfo) {
		if m.enabled(MonitorContractsClosed) {
			fields := contractFields(info)
			if info.Profit != nil {
				fields = append(fields, zap.Stringer("profit", info.Profit))
			}
			m.logger.Info("contract closed", fields...)
		}
		handler(ctx, info)
	}
}

func (m *Monitor) WithApplication(handler bus.ApplicationEventHandler) bus.ApplicationEventHandler {
	return func(ctx context.Context, app common.ApplicationSubmitted) {
		if m.enabled(MonitorApplications) {
			m.logger.Info("application submitted",
				zap.String("backend_id", app.BackendID),
				zap.String("request_id", app.RequestID),
				zap.String("country", app.Application.Country))
		}
		handler(ctx, app)
	}
}

func (m *Monitor) enabled(flag MonitorFlags) bool {
	return m.flags&flag != 0 || m.flags&MonitorAll != 0
}

func contractFields(info common.ContractInfo) []zap.Field {
	return []zap.Field{
		zap.Int64("contract_id", info.ContractID),
		zap.String("contract_type", info.ContractType),
		zap.String("symbol", info.Symbol),
		zap.String("status", string(info.Status)),
	}
}
