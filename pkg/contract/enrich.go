// Package contract derives the human readable presentation of a trading contract:
// display labels for digit contracts and the one line transaction summary.
package contract

import (
	"github.com/mwakio197/Dbot-sub001/pkg/common"
)

const (
	TypeDigitDiff  = "DIGITDIFF"
	TypeDigitOver  = "DIGITOVER"
	TypeDigitUnder = "DIGITUNDER"
	TypeDigitEven  = "DIGITEVEN"
	TypeDigitOdd   = "DIGITODD"
	TypeDigitMatch = "DIGITMAT"
)

const (
	ParameterDifferBarrier = "differ_barrier"
	ParameterOverBarrier   = "over_barrier"
	ParameterUnderBarrier  = "under_barrier"
	ParameterMatchBarrier  = "match_barrier"
	ParameterEvenOdd       = "even_odd"
)

// Enrich returns a copy of info carrying display_name, parameter_type and display_message
// for the six digit contract types. Any other contract type yields an unmodified copy,
// and an empty contract type yields info itself.
func Enrich(info common.ContractInfo) common.ContractInfo {
	if info.ContractType == "" {
		return info
	}

	enriched := info.Clone()
	barrier := string(info.Barrier)

	switch info.ContractType {
	case TypeDigitDiff:
		enriched.DisplayName = "Differs"
		enriched.ParameterType = ParameterDifferBarrier
		enriched.DisplayMessage = withBarrier("Contract parameter: Differ from", barrier)
	case TypeDigitOver:
		enriched.DisplayName = "Over"
		enriched.ParameterType = ParameterOverBarrier
		enriched.DisplayMessage = withBarrier("Contract parameter: Over", barrier)
	case TypeDigitUnder:
		enriched.DisplayName = "Under"
		enriched.ParameterType = ParameterUnderBarrier
		enriched.DisplayMessage = withBarrier("Contract parameter: Under", barrier)
	case TypeDigitMatch:
		enriched.DisplayName = "Matches"
		enriched.ParameterType = ParameterMatchBarrier
		enriched.DisplayMessage = withBarrier("Contract parameter: Match", barrier)
	case TypeDigitEven:
		enriched.DisplayName = "Even"
		enriched.ParameterType = ParameterEvenOdd
		enriched.DisplayMessage = "Contract parameter: Even"
	case TypeDigitOdd:
		enriched.DisplayName = "Odd"
		enriched.ParameterType = ParameterEvenOdd
		enriched.DisplayMessage = "Contract parameter: Odd"
	}

	return enriched
}

// withBarrier appends a non-empty barrier to message.
func withBarrier(message, barrier string) string {
	if barrier == "" {
		return message
	}
	return message + " " + barrier
}
