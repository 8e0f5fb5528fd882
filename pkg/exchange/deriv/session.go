package deriv

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mwakio197/Dbot-sub001/pkg/bus"
)

// InitContractSession authorizes the client and streams contractID (or every open contract
// when contractID is 0) into router.
func InitContractSession(
	ctx context.Context,
	client *Client,
	token string,
	contractID int64,
	router *bus.Router) (*State, *Subscription, error) {

	authCtx, authCancel := context.WithTimeout(ctx, time.Second*5)
	defer authCancel()

	account, err := client.Authorize(authCtx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to authorize: %w", err)
	}
	client.logger.Info("account authorized",
		zap.String("login_id", account.LoginID),
		zap.String("currency", account.Currency),
		zap.String("balance", account.Balance.String()),
		zap.Bool("virtual", bool(account.IsVirtual)))

	state := NewState(router, client.logger)

	subCtx, subCancel := context.WithTimeout(ctx, time.Second*5)
	defer subCancel()

	var sub *Subscription
	if contractID != 0 {
		sub, err = client.SubscribeContract(subCtx, contractID, state.OnOpenContract)
	} else {
		sub, err = client.SubscribeOpenContracts(subCtx, state.OnOpenContract)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("unable to subscribe to contract updates: %w", err)
	}
	client.logger.Info("subscribed to contract updates",
		zap.Int64("contract_id", contractID),
		zap.String("subscription_id", sub.ID))

	return state, sub, nil
}
