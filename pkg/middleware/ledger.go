package middleware

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mwakio197/Dbot-sub001/pkg/bus"
	"github.com/mwakio197/Dbot-sub001/pkg/common"
)

const ledgerWriteTimeout = 10 * time.Second

// Recorder persists finished contracts and accepted applications.
type Recorder interface {
	InsertContract(ctx context.Context, info common.ContractInfo) error
	InsertApplication(ctx context.Context, app common.ApplicationSubmitted) error
}

// Ledger writes events through a Recorder without blocking the router.
type Ledger struct {
	logger   *zap.Logger
	recorder Recorder
	wg       sync.WaitGroup
}

func NewLedger(logger *zap.Logger, recorder Recorder) *Ledger {
	return &Ledger{
		logger:   logger,
		recorder: recorder,
	}
}

func (l *Ledger) WithContractClosed(handler bus.ContractClosedEventHandler) bus.ContractClosedEventHandler {
	return func(ctx context.Context, info common.ContractInfo) {
		l.run(ctx, func(ctx context.Context) {
			if err := l.recorder.InsertContract(ctx, info); err != nil {
				l.logger.Warn("unable to insert contract", zap.Int64("contract_id", info.ContractID), zap.Error(err))
			}
		})
		handler(ctx, info)
	}
}

func (l *Ledger) WithApplication(handler bus.ApplicationEventHandler) bus.ApplicationEventHandler {
	return func(ctx context.Context, app common.ApplicationSubmitted) {
		l.run(ctx, func(ctx context.Context) {
			if err := l.recorder.InsertApplication(ctx, app); err != nil {
				l.logger.Warn("unable to insert application", zap.String("backend_id", app.BackendID), zap.Error(err))
			}
		})
		handler(ctx, app)
	}
}

// Wait blocks until every pending write finished.
func (l *Ledger) Wait() {
	l.wg.Wait()
}

func (l *Ledger) run(ctx context.Context, write func(context.Context)) {
	// writes outlive the router context so that events dispatched right before shutdown are kept
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ledgerWriteTimeout)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer cancel()
		write(ctx)
	}()
}
