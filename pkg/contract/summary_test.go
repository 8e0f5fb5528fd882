package contract

import (
	"testing"

	"github.com/mwakio197/Dbot-sub001/pkg/common"
)

func TestContractIsEnded(t *testing.T) {
	tests := []struct {
		name string
		info common.ContractInfo
		want bool
	}{
		{"empty", common.ContractInfo{}, false},
		{"open", common.ContractInfo{Status: common.ContractStatusOpen}, false},
		{"won", common.ContractInfo{Status: common.ContractStatusWon}, true},
		{"lost", common.ContractInfo{Status: common.ContractStatusLost}, true},
		{"sold flag", common.ContractInfo{Status: common.ContractStatusOpen, IsSold: true}, true},
		{"expired flag", common.ContractInfo{IsExpired: true}, true},
		{"settleable flag", common.ContractInfo{IsSettleable: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEnded(tt.info); got != tt.want {
				t.Errorf("IsEnded() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestContractSummarize(t *testing.T) {
	always := func(common.ContractInfo) bool { return true }
	never := func(common.ContractInfo) bool { return false }

	tests := []struct {
		name  string
		info  common.ContractInfo
		ended EndedFunc
		want  Details
	}{
		{
			name:  "open contract hides profit and exit spot",
			info:  common.ContractInfo{EntryTick: point("10"), ExitTick: point("11"), Profit: point("1"), Symbol: "R_10"},
			ended: never,
			want:  Details{Description: "Entry spot: 10 on R_10"},
		},
		{
			name:  "winning contract",
			info:  common.ContractInfo{EntryTick: point("10"), ExitTick: point("11.2"), Profit: point("0.95"), Currency: "USD", Symbol: "R_10"},
			ended: always,
			want: Details{
				Description: "Entry spot: 10 on R_10",
				Ended:       true,
				Profit:      "0.95 USD",
				ProfitClass: ProfitPositive,
				ExitSpot:    "Exit spot: 11.2",
			},
		},
		{
			name:  "losing contract",
			info:  common.ContractInfo{DisplayMessage: "Contract parameter: Over 3", Profit: point("-1"), Currency: "EUR"},
			ended: always,
			want: Details{
				Description: "Contract parameter: Over 3",
				Ended:       true,
				Profit:      "-1.00 EUR",
				ProfitClass: ProfitNegative,
			},
		},
		{
			name:  "zero profit has no class",
			info:  common.ContractInfo{Profit: point("0")},
			ended: always,
			want:  Details{Ended: true, Profit: "0.00"},
		},
		{
			name:  "undefined profit",
			info:  common.ContractInfo{ExitTick: point("0")},
			ended: always,
			want:  Details{Ended: true, ExitSpot: "Exit spot: 0"},
		},
		{
			name: "default predicate",
			info: common.ContractInfo{Status: common.ContractStatusWon, Profit: point("3.456"), Currency: "USD"},
			want: Details{Ended: true, Profit: "3.46 USD", ProfitClass: ProfitPositive},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.info, tt.ended); got != tt.want {
				t.Errorf("Summarize() = %+v; want %+v", got, tt.want)
			}
		})
	}
}
