package deriv

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mwakio197/Dbot-sub001/pkg/bus"
	"github.com/mwakio197/Dbot-sub001/pkg/common"
)

func message(t *testing.T, raw string) *Message {
	t.Helper()
	msg, err := decodeMessage([]byte(raw))
	if err != nil {
		t.Fatalf("decodeMessage failed: %v", err)
	}
	return msg
}

func TestDerivState_OnOpenContract(t *testing.T) {
	router := bus.NewRouter(zap.NewNop(), 10)
	state := NewState(router, zap.NewNop())

	state.OnOpenContract(message(t, `{"msg_type":"proposal_open_contract","proposal_open_contract":`+openContractJSON+`}`))

	info, ok := state.Contract(123)
	if !ok {
		t.Fatal("Contract not tracked")
	}
	if info.DisplayName != "Over" || info.ParameterType != "over_barrier" {
		t.Errorf("Contract not enriched: %+v", info)
	}
	if info.EntryTick == nil || info.EntryTick.String() != "1234.56" {
		t.Errorf("Unexpected entry tick: %v", info.EntryTick)
	}
	if info.TickCount == nil || *info.TickCount != 5 {
		t.Errorf("Unexpected tick count: %v", info.TickCount)
	}
	if state.Closed(123) {
		t.Error("Open contract reported as closed")
	}
	if got := router.GetStatistics().PostCount; got != 1 {
		t.Errorf("Expected 1 posted event, got %d", got)
	}
}

func TestDerivState_ClosedPostedOnce(t *testing.T) {
	router := bus.NewRouter(zap.NewNop(), 10)

	closed := make(chan common.ContractInfo, 10)
	router.OnContractClosed = func(ctx context.Context, info common.ContractInfo) { closed <- info }

	state := NewState(router, zap.NewNop())
	won := message(t, `{"msg_type":"proposal_open_contract","proposal_open_contract":`+wonContractJSON+`}`)
	state.OnOpenContract(won)
	state.OnOpenContract(won)

	ctx, cancel := context.WithCancel(context.Background())
	done := router.Exec(ctx)

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Closed event not dispatched")
	}

	deadline := time.Now().Add(time.Second)
	for router.GetStatistics().DispatchCount < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	if len(closed) != 0 {
		t.Errorf("Closed event posted more than once")
	}
	if got := router.GetStatistics().PostCount; got != 3 {
		t.Errorf("Expected 2 updates and 1 close, got %d posts", got)
	}
	if _, ok := state.Contract(123); ok {
		t.Error("Closed contract still tracked")
	}
	if !state.Closed(123) {
		t.Error("Closed contract not reported as closed")
	}
}

func TestDerivState_ClosedRetriedAfterFullQueue(t *testing.T) {
	router := bus.NewRouter(zap.NewNop(), 2)

	closed := make(chan common.ContractInfo, 10)
	router.OnContractClosed = func(ctx context.Context, info common.ContractInfo) { closed <- info }
	router.OnApplication = func(context.Context, common.ApplicationSubmitted) {}

	for i := 0; i < 2; i++ {
		if err := router.Post(bus.ApplicationEvent, common.ApplicationSubmitted{}); err != nil {
			t.Fatalf("Post failed: %v", err)
		}
	}

	state := NewState(router, zap.NewNop())
	won := message(t, `{"msg_type":"proposal_open_contract","proposal_open_contract":`+wonContractJSON+`}`)
	state.OnOpenContract(won)

	if state.Closed(123) {
		t.Fatal("Contract marked closed although its closed event was not posted")
	}
	if _, ok := state.Contract(123); !ok {
		t.Fatal("Contract dropped although its closed event was not posted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := router.Exec(ctx)
	defer func() {
		cancel()
		<-done
	}()

	deadline := time.Now().Add(time.Second)
	for router.GetStatistics().DispatchCount < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	state.OnOpenContract(won)

	select {
	case info := <-closed:
		if info.ContractID != 123 {
			t.Errorf("Unexpected closed contract %d", info.ContractID)
		}
	case <-time.After(time.Second):
		t.Fatal("Closed event not posted on redelivery")
	}
	if !state.Closed(123) {
		t.Error("Contract not marked closed after the closed event was posted")
	}
}

func TestDerivState_IgnoresEmptyContract(t *testing.T) {
	router := bus.NewRouter(zap.NewNop(), 10)
	state := NewState(router, zap.NewNop())

	state.OnOpenContract(message(t, `{"msg_type":"proposal_open_contract","proposal_open_contract":{}}`))
	state.OnOpenContract(message(t, `{"msg_type":"proposal_open_contract"}`))

	if got := router.GetStatistics().PostCount; got != 0 {
		t.Errorf("Expected no events, got %d", got)
	}
}

func TestDerivDecodeMessage(t *testing.T) {
	msg := message(t, `{"msg_type":"proposal_open_contract","req_id":7,"subscription":{"id":"abc"},"error":{"code":"X","message":"y"}}`)

	if msg.ReqID != 7 || msg.SubscriptionID != "abc" {
		t.Errorf("Unexpected header: %+v", msg)
	}
	if msg.Error == nil || msg.Error.MsgType != "proposal_open_contract" {
		t.Errorf("Unexpected error: %+v", msg.Error)
	}
	if msg.Error.Error() != "deriv proposal_open_contract: X: y" {
		t.Errorf("Unexpected error text: %q", msg.Error.Error())
	}
}
