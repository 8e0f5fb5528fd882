package bus

import (
	"context"

	"github.com/mwakio197/Dbot-sub001/pkg/common"
)

type EventHandler[T any] = func(context.Context, T)

type ContractUpdateEventHandler EventHandler[common.ContractInfo]
type ContractClosedEventHandler EventHandler[common.ContractInfo]
type ApplicationEventHandler EventHandler[common.ApplicationSubmitted]
