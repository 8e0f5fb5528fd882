package contract

import (
	"github.com/mwakio197/Dbot-sub001/pkg/common"
	"github.com/mwakio197/Dbot-sub001/pkg/utility/fixed"
)

const (
	ProfitPositive = "positive"
	ProfitNegative = "negative"
)

const profitScale = 2

// EndedFunc reports whether a contract has finished and its outcome is final.
type EndedFunc func(common.ContractInfo) bool

// IsEnded treats a contract as ended once its status left "open", or it was sold,
// expired or became settleable.
func IsEnded(info common.ContractInfo) bool {
	if info.Status != "" && info.Status != common.ContractStatusOpen {
		return true
	}
	return bool(info.IsSold) || bool(info.IsExpired) || bool(info.IsSettleable)
}

type Details struct {
	Description string `json:"description"`
	Ended       bool   `json:"ended"`
	Profit      string `json:"profit,omitempty"`
	ProfitClass string `json:"profit_class,omitempty"`
	ExitSpot    string `json:"exit_spot,omitempty"`
}

// Summarize builds everything the transaction details view renders. Profit and exit spot
// are only filled in once ended reports the contract as finished.
func Summarize(info common.ContractInfo, ended EndedFunc) Details {
	if ended == nil {
		ended = IsEnded
	}

	d := Details{
		Description: Describe(info),
		Ended:       ended(info),
	}
	if !d.Ended {
		return d
	}

	if info.Profit != nil {
		d.Profit = info.Profit.Rescale(profitScale).String()
		if info.Currency != "" {
			d.Profit += " " + info.Currency
		}
		d.ProfitClass = profitClass(info)
	}
	if info.ExitTick != nil {
		d.ExitSpot = "Exit spot: " + info.ExitTick.String()
	}
	return d
}

func profitClass(info common.ContractInfo) string {
	if info.Profit == nil {
		return ""
	}
	switch {
	case info.Profit.IsZero():
		return ""
	case info.Profit.Gt(fixed.Zero):
		return ProfitPositive
	default:
		return ProfitNegative
	}
}
