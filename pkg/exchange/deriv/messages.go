package deriv

import (
	"encoding/json"

	"github.com/mwakio197/Dbot-sub001/pkg/common"
	"github.com/mwakio197/Dbot-sub001/pkg/utility/fixed"
)

const (
	msgTypeAuthorize            = "authorize"
	msgTypeForget               = "forget"
	msgTypePing                 = "ping"
	msgTypeProposalOpenContract = "proposal_open_contract"
)

var streamMessageTypes = map[string]struct{}{
	msgTypeProposalOpenContract: {},
}

// Message is one decoded frame. Raw keeps the complete payload for typed decoding.
type Message struct {
	ReqID          uint64
	MsgType        string
	SubscriptionID string
	Error          *APIError
	Raw            json.RawMessage
}

type envelope struct {
	ReqID        uint64    `json:"req_id"`
	MsgType      string    `json:"msg_type"`
	Error        *APIError `json:"error"`
	Subscription *struct {
		ID string `json:"id"`
	} `json:"subscription"`
}

func decodeMessage(data []byte) (*Message, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	msg := &Message{
		ReqID:   env.ReqID,
		MsgType: env.MsgType,
		Error:   env.Error,
		Raw:     data,
	}
	if env.Subscription != nil {
		msg.SubscriptionID = env.Subscription.ID
	}
	if msg.Error != nil {
		msg.Error.MsgType = env.MsgType
	}
	return msg, nil
}

type request interface {
	requestID() uint64
	setRequestID(uint64)
}

type requestHeader struct {
	ReqID uint64 `json:"req_id"`
}

func (h *requestHeader) requestID() uint64      { return h.ReqID }
func (h *requestHeader) setRequestID(id uint64) { h.ReqID = id }

type authorizeRequest struct {
	Authorize string `json:"authorize"`
	requestHeader
}

type pingRequest struct {
	Ping int `json:"ping"`
	requestHeader
}

type forgetRequest struct {
	Forget string `json:"forget"`
	requestHeader
}

type proposalOpenContractRequest struct {
	ProposalOpenContract int   `json:"proposal_open_contract"`
	ContractID           int64 `json:"contract_id,omitempty"`
	Subscribe            int   `json:"subscribe,omitempty"`
	requestHeader
}

// Account is the authorized account summary.
type Account struct {
	LoginID   string      `json:"loginid"`
	Currency  string      `json:"currency"`
	Balance   fixed.Point `json:"balance"`
	Email     string      `json:"email"`
	Fullname  string      `json:"fullname"`
	IsVirtual common.Flag `json:"is_virtual"`
}

type authorizeResponse struct {
	Authorize Account `json:"authorize"`
}

type forgetResponse struct {
	Forget common.Flag `json:"forget"`
}

type pingResponse struct {
	Ping string `json:"ping"`
}

type openContract struct {
	ContractID          int64                 `json:"contract_id"`
	ContractType        string                `json:"contract_type"`
	Barrier             common.Text           `json:"barrier"`
	BarrierDisplayValue common.Text           `json:"barrier_display_value"`
	Currency            string                `json:"currency"`
	DisplayName         string                `json:"display_name"`
	Underlying          string                `json:"underlying"`
	EntryTick           *fixed.Point          `json:"entry_tick"`
	ExitTick            *fixed.Point          `json:"exit_tick"`
	Profit              *fixed.Point          `json:"profit"`
	BuyPrice            *fixed.Point          `json:"buy_price"`
	Payout              *fixed.Point          `json:"payout"`
	TickCount           *int                  `json:"tick_count"`
	Status              common.ContractStatus `json:"status"`
	IsSold              common.Flag           `json:"is_sold"`
	IsExpired           common.Flag           `json:"is_expired"`
	IsSettleable        common.Flag           `json:"is_settleable"`
	DateStart           int64                 `json:"date_start"`
	SellTime            int64                 `json:"sell_time"`
}

type proposalOpenContractResponse struct {
	ProposalOpenContract *openContract `json:"proposal_open_contract"`
}

// contractInfo maps the feed record onto the display record. The feed's display_name is the
// human readable underlying, which is what the transaction details show as symbol.
func (oc openContract) contractInfo() common.ContractInfo {
	return common.ContractInfo{
		ContractID:          oc.ContractID,
		ContractType:        oc.ContractType,
		Barrier:             oc.Barrier,
		BarrierDisplayValue: oc.BarrierDisplayValue,
		Currency:            oc.Currency,
		EntryTick:           oc.EntryTick,
		ExitTick:            oc.ExitTick,
		Profit:              oc.Profit,
		BuyPrice:            oc.BuyPrice,
		Payout:              oc.Payout,
		Symbol:              oc.DisplayName,
		Underlying:          oc.Underlying,
		TickCount:           oc.TickCount,
		Status:              oc.Status,
		IsSold:              oc.IsSold,
		IsExpired:           oc.IsExpired,
		IsSettleable:        oc.IsSettleable,
		DateStart:           oc.DateStart,
		SellTime:            oc.SellTime,
	}
}
