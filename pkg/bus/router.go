package bus

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mwakio197/Dbot-sub001/pkg/common"
)

var ErrCapacityReached = errors.New("event capacity reached")

type event struct {
	id   EventId
	data any
}

// Router dispatches posted events to the registered handlers on a single goroutine.
// Post is safe for concurrent use; handlers are never invoked concurrently.
type Router struct {
	logger *zap.Logger
	events chan event

	OnContractUpdate ContractUpdateEventHandler
	OnContractClosed ContractClosedEventHandler
	OnApplication    ApplicationEventHandler

	runTime       atomic.Int64
	postCount     atomic.Uint64
	postFails     atomic.Uint64
	dispatchCount atomic.Uint64
	dispatchFails atomic.Uint64
}

func NewRouter(logger *zap.Logger, eventCapacity int) *Router {
	return &Router{
		logger: logger,
		events: make(chan event, eventCapacity),
	}
}

// Post queues an event without blocking. It fails once the queue is full.
func (r *Router) Post(id EventId, data any) error {
	select {
	case r.events <- event{id, data}:
		r.postCount.Add(1)
		return nil
	default:
		r.postFails.Add(1)
		return fmt.Errorf("unable to post %s event: %w", id, ErrCapacityReached)
	}
}

// Exec runs the dispatch loop until ctx is cancelled. Events already queued at that
// point are still dispatched. The returned channel receives the cancellation cause
// once the loop has stopped.
func (r *Router) Exec(ctx context.Context) <-chan error {
	done := make(chan error, 1)

	r.runTime.Store(0)
	r.dispatchCount.Store(0)
	r.dispatchFails.Store(0)

	go func() {
		start := time.Now()
		defer func() {
			r.runTime.Add(int64(time.Since(start)))
		}()

		for {
			select {
			case <-ctx.Done():
				r.drain(ctx)
				done <- ctx.Err()
				return
			case ev := <-r.events:
				r.handle(ctx, ev)
			}
		}
	}()

	return done
}

// drain dispatches whatever was queued before cancellation. Events posted
// after it returns stay in the queue.
func (r *Router) drain(ctx context.Context) {
	var drained int
	defer func() {
		if drained > 0 {
			r.logger.Debug("drained queued events", zap.Int("count", drained))
		}
	}()

	for {
		select {
		case ev := <-r.events:
			drained++
			r.handle(ctx, ev)
		default:
			return
		}
	}
}

func (r *Router) handle(ctx context.Context, ev event) {
	r.dispatchCount.Add(1)
	if err := r.dispatch(ctx, ev); err != nil {
		r.dispatchFails.Add(1)
		r.logger.Warn("dispatch failed",
			zap.Error(err),
			zap.Stringer("event", ev.id))
	}
}

func (r *Router) GetStatistics() Statistics {
	runTime := time.Duration(r.runTime.Load())
	postCount := r.postCount.Load()

	var throughput float64
	if runTime > 0 {
		throughput = float64(postCount) / runTime.Seconds()
	}

	return Statistics{
		RunTime:       runTime,
		PostCount:     postCount,
		PostFails:     r.postFails.Load(),
		DispatchCount: r.dispatchCount.Load(),
		DispatchFails: r.dispatchFails.Load(),
		Throughput:    throughput,
	}
}

func (r *Router) PrintStatistics() {
	r.GetStatistics().Print(r.logger)
}

func (r *Router) dispatch(ctx context.Context, ev event) error {
	switch ev.id {
	case ContractUpdateEvent:
		info, ok := ev.data.(common.ContractInfo)
		if !ok {
			return errors.New("invalid type assertion for contract update event")
		}
		if r.OnContractUpdate != nil {
			r.OnContractUpdate(ctx, info)
		}
	case ContractClosedEvent:
		info, ok := ev.data.(common.ContractInfo)
		if !ok {
			return errors.New("invalid type assertion for contract closed event")
		}
		if r.OnContractClosed != nil {
			r.OnContractClosed(ctx, info)
		}
	case ApplicationEvent:
		app, ok := ev.data.(common.ApplicationSubmitted)
		if !ok {
			return errors.New("invalid type assertion for application event")
		}
		if r.OnApplication != nil {
			r.OnApplication(ctx, app)
		}
	default:
		return fmt.Errorf("unsupported event id: %v", ev.id)
	}
	return nil
}
