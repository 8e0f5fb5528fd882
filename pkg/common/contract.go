package common

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mwakio197/Dbot-sub001/pkg/utility"
	"github.com/mwakio197/Dbot-sub001/pkg/utility/fixed"
)

type ContractStatus string

const (
	ContractStatusOpen      ContractStatus = "open"
	ContractStatusSold      ContractStatus = "sold"
	ContractStatusWon       ContractStatus = "won"
	ContractStatusLost      ContractStatus = "lost"
	ContractStatusCancelled ContractStatus = "cancelled"
)

// Text is a string field that the trading API sends either as a JSON string or as a JSON number.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unable to decode text value %s: %w", data, err)
	}
	*t = Text(n.String())
	return nil
}

// Flag is a boolean encoded as 0/1 or true/false.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "1", "true", `"1"`:
		*f = true
	case "0", "false", `"0"`, "null":
		*f = false
	default:
		return fmt.Errorf("invalid flag value %s", data)
	}
	return nil
}

// ContractInfo describes one trading contract as shown to the user. Every attribute is optional.
// DisplayName, ParameterType and DisplayMessage are derived by enrichment and never authoritative.
type ContractInfo struct {
	ContractID          int64          `json:"contract_id,omitempty"`
	ContractType        string         `json:"contract_type,omitempty"`
	Barrier             Text           `json:"barrier,omitempty"`
	BarrierDisplayValue Text           `json:"barrier_display_value,omitempty"`
	ContractParameter   Text           `json:"contract_parameter,omitempty"`
	DisplayName         string         `json:"display_name,omitempty"`
	ParameterType       string         `json:"parameter_type,omitempty"`
	DisplayMessage      string         `json:"display_message,omitempty"`
	Currency            string         `json:"currency,omitempty"`
	EntryTick           *fixed.Point   `json:"entry_tick,omitempty"`
	ExitTick            *fixed.Point   `json:"exit_tick,omitempty"`
	Profit              *fixed.Point   `json:"profit,omitempty"`
	BuyPrice            *fixed.Point   `json:"buy_price,omitempty"`
	Payout              *fixed.Point   `json:"payout,omitempty"`
	Symbol              string         `json:"symbol,omitempty"`
	Underlying          string         `json:"underlying,omitempty"`
	TickCount           *int           `json:"tick_count,omitempty"`
	Status              ContractStatus `json:"status,omitempty"`
	IsSold              Flag           `json:"is_sold,omitempty"`
	IsExpired           Flag           `json:"is_expired,omitempty"`
	IsSettleable        Flag           `json:"is_settleable,omitempty"`
	DateStart           int64          `json:"date_start,omitempty"`
	SellTime            int64          `json:"sell_time,omitempty"`

	Source  string          `json:"src,omitempty"`
	TraceID utility.TraceID `json:"tid,omitempty"`
}

// Clone returns a deep copy. The copy shares no pointers with c.
func (c ContractInfo) Clone() ContractInfo {
	out := c
	out.EntryTick = clonePoint(c.EntryTick)
	out.ExitTick = clonePoint(c.ExitTick)
	out.Profit = clonePoint(c.Profit)
	out.BuyPrice = clonePoint(c.BuyPrice)
	out.Payout = clonePoint(c.Payout)
	if c.TickCount != nil {
		n := *c.TickCount
		out.TickCount = &n
	}
	return out
}

func clonePoint(p *fixed.Point) *fixed.Point {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
