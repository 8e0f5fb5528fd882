package middleware

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mwakio197/Dbot-sub001/pkg/common"
	"github.com/mwakio197/Dbot-sub001/pkg/utility/fixed"
)

func setupTestLogger(_ *testing.T) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return zap.New(core), logs
}

func TestMiddlewareMonitor_NewMonitor(t *testing.T) {
	m := NewMonitor(zap.NewNop(), MonitorContractUpdates|MonitorApplications)
	if m.flags != (MonitorContractUpdates | MonitorApplications) {
		t.Errorf("Expected flags %d, got %d", MonitorContractUpdates|MonitorApplications, m.flags)
	}
}

func TestMiddlewareMonitor_WithContractUpdate(t *testing.T) {
	logger, logs := setupTestLogger(t)

	var handlerCalled bool
	handler := func(ctx context.Context, info common.ContractInfo) {
		handlerCalled = true
	}

	m := NewMonitor(logger, MonitorContractUpdates)
	wrapped := m.WithContractUpdate(handler)

	wrapped(context.Background(), common.ContractInfo{ContractID: 7, ContractType: "DIGITODD"})

	if !handlerCalled {
		t.Error("Handler not called")
	}

	entries := logs.FilterMessage("contract updated").All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["contract_id"] != int64(7) {
		t.Errorf("Unexpected fields: %v", entries[0].ContextMap())
	}
}

func TestMiddlewareMonitor_WithContractUpdateNoMonitor(t *testing.T) {
	logger, logs := setupTestLogger(t)

	var handlerCalled bool
	handler := func(ctx context.Context, info common.ContractInfo) {
		handlerCalled = true
	}

	m := NewMonitor(logger, MonitorNone)
	wrapped := m.WithContractUpdate(handler)

	wrapped(context.Background(), common.ContractInfo{})

	if !handlerCalled {
		t.Error("Handler not called")
	}

	if logs.Len() != 0 {
		t.Error("Unexpected log entry")
	}
}

func TestMiddlewareMonitor_WithContractClosed(t *testing.T) {
	logger, logs := setupTestLogger(t)

	profit := fixed.MustParse("-2.5")
	m := NewMonitor(logger, MonitorAll)
	wrapped := m.WithContractClosed(NoopContractClsHdl)

	wrapped(context.Background(), common.ContractInfo{ContractID: 9, Profit: &profit})

	entries := logs.FilterMessage("contract closed").All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["profit"] != "-2.5" {
		t.Errorf("Expected profit field, got %v", entries[0].ContextMap())
	}
}

func TestMiddlewareMonitor_WithApplication(t *testing.T) {
	logger, logs := setupTestLogger(t)

	m := NewMonitor(logger, MonitorApplications)
	wrapped := m.WithApplication(NoopApplicationHdl)

	wrapped(context.Background(), common.ApplicationSubmitted{BackendID: "abc", Application: common.Application{Country: "KE"}})

	if logs.FilterMessage("application submitted").FilterField(zap.String("backend_id", "abc")).Len() != 1 {
		t.Error("Expected application log entry")
	}
}

func TestMiddlewareMonitor_FlagsAreIndependent(t *testing.T) {
	logger, logs := setupTestLogger(t)

	m := NewMonitor(logger, MonitorContractsClosed)
	m.WithContractUpdate(NoopContractUpdHdl)(context.Background(), common.ContractInfo{})
	m.WithApplication(NoopApplicationHdl)(context.Background(), common.ApplicationSubmitted{})

	if logs.Len() != 0 {
		t.Errorf("Expected no log entries, got %d", logs.Len())
	}
}
