package middleware

import (
	"context"

	"github.com/mwakio197/Dbot-sub001/pkg/common"
)

//goland:noinspection ALL
var (
	NoopContractUpdHdl = func(context.Context, common.ContractInfo) {}
	NoopContractClsHdl = func(context.Context, common.ContractInfo) {}
	NoopApplicationHdl = func(context.Context, common.ApplicationSubmitted) {}
)
