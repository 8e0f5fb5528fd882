package deriv

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/mwakio197/Dbot-sub001/pkg/bus"
	"github.com/mwakio197/Dbot-sub001/pkg/common"
	"github.com/mwakio197/Dbot-sub001/pkg/contract"
	"github.com/mwakio197/Dbot-sub001/pkg/utility"
)

const derivComponentName = "exchange.deriv"

// State tracks the contracts seen on the feed and turns their updates into bus events.
type State struct {
	router *bus.Router
	logger *zap.Logger
	ended  contract.EndedFunc

	mu        sync.Mutex
	contracts map[int64]common.ContractInfo
	closed    map[int64]struct{}
}

func NewState(router *bus.Router, logger *zap.Logger) *State {
	return &State{
		router:    router,
		logger:    logger,
		ended:     contract.IsEnded,
		contracts: make(map[int64]common.ContractInfo),
		closed:    make(map[int64]struct{}),
	}
}

func (state *State) OnOpenContract(msg *Message) {
	var v proposalOpenContractResponse
	if err := json.Unmarshal(msg.Raw, &v); err != nil {
		state.logger.Warn("unable to unmarshal open contract", zap.Error(err))
		return
	}

	// An empty object means there is nothing open to report.
	if v.ProposalOpenContract == nil || v.ProposalOpenContract.ContractID == 0 {
		return
	}

	info := contract.Enrich(v.ProposalOpenContract.contractInfo())
	info.Source = derivComponentName
	info.TraceID = utility.CreateTraceID()

	state.mu.Lock()
	_, alreadyClosed := state.closed[info.ContractID]
	closing := !alreadyClosed && state.ended(info)
	if closing {
		state.closed[info.ContractID] = struct{}{}
	}
	if !alreadyClosed {
		state.contracts[info.ContractID] = info
	}
	state.mu.Unlock()

	if err := state.router.Post(bus.ContractUpdateEvent, info); err != nil {
		state.logger.Warn("unable to post contract update event", zap.Error(err))
	}

	if !closing {
		return
	}

	err := state.router.Post(bus.ContractClosedEvent, info)

	state.mu.Lock()
	defer state.mu.Unlock()

	if err != nil {
		// A later delivery of the final state retries the closed event.
		delete(state.closed, info.ContractID)
		state.logger.Warn("unable to post contract closed event",
			zap.Int64("contract_id", info.ContractID),
			zap.Error(err))
		return
	}
	delete(state.contracts, info.ContractID)
}

// Contract returns the latest known state of a contract that has not been closed yet.
func (state *State) Contract(id int64) (common.ContractInfo, bool) {
	state.mu.Lock()
	defer state.mu.Unlock()

	info, ok := state.contracts[id]
	return info.Clone(), ok
}

// Closed reports whether the contract ended and its closing event was posted.
func (state *State) Closed(id int64) bool {
	state.mu.Lock()
	defer state.mu.Unlock()

	_, ok := state.closed[id]
	return ok
}
