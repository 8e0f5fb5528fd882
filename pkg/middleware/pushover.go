package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mwakio197/Dbot-sub001/pkg/bus"
	"github.com/mwakio197/Dbot-sub001/pkg/common"
	"github.com/mwakio197/Dbot-sub001/pkg/contract"
)

const PushoverEndpoint = "https://api.pushover.net/1/messages.json"

type Pushover struct {
	logger   *zap.Logger
	client   *http.Client
	endpoint string
	user     string
	token    string
	device   string
	wg       sync.WaitGroup
}

func NewPushover(logger *zap.Logger, endpoint, user, token, device string) *Pushover {
	if endpoint == "" {
		endpoint = PushoverEndpoint
	}
	return &Pushover{
		logger:   logger,
		client:   &http.Client{Timeout: 5 * time.Second},
		endpoint: endpoint,
		user:     user,
		token:    token,
		device:   device,
	}
}

func (p *Pushover) WithContractClosed(handler bus.ContractClosedEventHandler) bus.ContractClosedEventHandler {
	return func(ctx context.Context, info common.ContractInfo) {
		title, msg := notification(info)
		sendCtx := context.WithoutCancel(ctx)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			if err := p.send(sendCtx, title, msg); err != nil {
				p.logger.Error("unable to send pushover notification", zap.Int64("contract_id", info.ContractID), zap.Error(err))
			}
		}()
		handler(ctx, info)
	}
}

// Wait blocks until every pending notification was delivered or failed.
func (p *Pushover) Wait() {
	p.wg.Wait()
}

func notification(info common.ContractInfo) (string, string) {
	details := contract.Summarize(info, func(common.ContractInfo) bool { return true })

	title := "Contract Closed"
	switch details.ProfitClass {
	case contract.ProfitPositive:
		title = "Contract Won"
	case contract.ProfitNegative:
		title = "Contract Lost"
	}

	lines := []string{fmt.Sprintf("id = %d", info.ContractID)}
	if details.Description != "" {
		lines = append(lines, details.Description)
	}
	if details.Profit != "" {
		lines = append(lines, "profit = "+details.Profit)
	}
	return title, strings.Join(lines, "\n")
}

func (p *Pushover) send(ctx context.Context, title, message string) error {
	data := url.Values{}
	data.Set("token", p.token)
	data.Set("user", p.user)
	if p.device != "" {
		data.Set("device", p.device)
	}
	data.Set("title", title)
	data.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("unable to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("unable to post notification: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("pushover error %d: %s", resp.StatusCode, body)
	}

	return nil
}
