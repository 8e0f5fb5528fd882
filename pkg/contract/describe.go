package contract

import (
	"fmt"
	"strings"

	"github.com/mwakio197/Dbot-sub001/pkg/common"
)

const digitPrefix = "DIGIT"

// Describe selects the transaction summary line. The first matching rule wins:
// explicit display message, differ barrier, over barrier, any digit contract, entry tick.
// It returns "" when nothing applies.
func Describe(info common.ContractInfo) string {
	switch {
	case info.DisplayMessage != "":
		return info.DisplayMessage
	case info.ParameterType == ParameterDifferBarrier:
		return fmt.Sprintf("Digit %s differs from last digit on %s", contractParameter(info), symbolOrUnderlying(info))
	case info.ParameterType == ParameterOverBarrier:
		return fmt.Sprintf("Digit over %s on %s", contractParameter(info), symbolOrUnderlying(info))
	case strings.HasPrefix(info.ContractType, digitPrefix):
		return joinClauses(barrierClause(info), onClause(info.Symbol))
	case info.EntryTick != nil:
		return joinClauses("Entry spot: "+info.EntryTick.String(), onClause(info.Symbol))
	default:
		return ""
	}
}

func contractParameter(info common.ContractInfo) string {
	if info.ContractParameter != "" {
		return string(info.ContractParameter)
	}
	return string(info.Barrier)
}

func symbolOrUnderlying(info common.ContractInfo) string {
	if info.Symbol != "" {
		return info.Symbol
	}
	return info.Underlying
}

func barrierClause(info common.ContractInfo) string {
	barrier := info.BarrierDisplayValue
	if barrier == "" {
		barrier = info.Barrier
	}
	if barrier == "" {
		return ""
	}
	return "Barrier: " + string(barrier)
}

func onClause(symbol string) string {
	if symbol == "" {
		return ""
	}
	return "on " + symbol
}

func joinClauses(clauses ...string) string {
	var parts []string
	for _, c := range clauses {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}
