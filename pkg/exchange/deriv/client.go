package deriv

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	DefaultEndpoint   = "wss://ws.derivws.com/websockets/v3"
	keepAliveInterval = 30 * time.Second
	pingTimeout       = 10 * time.Second
)

type Client struct {
	conn   *connection
	logger *zap.Logger
}

// Subscription identifies a server side stream started by a subscribe request.
type Subscription struct {
	ID string

	unsubscribe func()
}

func Dial(ctx context.Context, logger *zap.Logger, endpoint, appID string) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("unable to parse endpoint %q: %w", endpoint, err)
	}
	q := u.Query()
	q.Set("app_id", appID)
	u.RawQuery = q.Encode()

	return dial(ctx, logger, u.String(), keepAliveInterval)
}

func dial(ctx context.Context, logger *zap.Logger, rawURL string, keepAlive time.Duration) (*Client, error) {
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("unable to dial %s: %w", rawURL, err)
	}

	conn := newConnection(ws, logger)
	conn.start()

	client := &Client{
		conn:   conn,
		logger: logger,
	}

	client.keepAlive(keepAlive)
	return client, nil
}

// Close stops the connection and waits for all of its goroutines.
func (client *Client) Close() {
	client.conn.stop()
}

// Done is closed once the connection stopped, either by Close or by the remote side.
func (client *Client) Done() <-chan struct{} {
	return client.conn.done()
}

func (client *Client) Authorize(ctx context.Context, token string) (Account, error) {
	req := &authorizeRequest{Authorize: token}
	resp := &authorizeResponse{}

	if err := sendReceive(ctx, client.conn, msgTypeAuthorize, req, resp); err != nil {
		return Account{}, fmt.Errorf("unable to perform authorize request: %w", err)
	}

	return resp.Authorize, nil
}

func (client *Client) Ping(ctx context.Context) error {
	resp := &pingResponse{}
	if err := sendReceive(ctx, client.conn, msgTypePing, &pingRequest{Ping: 1}, resp); err != nil {
		return fmt.Errorf("unable to perform ping request: %w", err)
	}
	return nil
}

// SubscribeContract streams updates of one contract to cb, starting with its current state.
func (client *Client) SubscribeContract(ctx context.Context, contractID int64, cb func(*Message)) (*Subscription, error) {
	return client.subscribeOpenContracts(ctx, contractID, cb)
}

// SubscribeOpenContracts streams updates of every open contract of the authorized account.
func (client *Client) SubscribeOpenContracts(ctx context.Context, cb func(*Message)) (*Subscription, error) {
	return client.subscribeOpenContracts(ctx, 0, cb)
}

func (client *Client) subscribeOpenContracts(ctx context.Context, contractID int64, cb func(*Message)) (*Subscription, error) {
	req := &proposalOpenContractRequest{ProposalOpenContract: 1, ContractID: contractID, Subscribe: 1}
	req.setRequestID(client.conn.nextID.Add(1))

	// Registered before the request goes out, the first update may arrive with the response.
	unsubscribe := client.conn.subscribe(msgTypeProposalOpenContract, req.requestID(), cb)

	var resp struct {
		Subscription struct {
			ID string `json:"id"`
		} `json:"subscription"`
	}
	if err := sendReceive(ctx, client.conn, msgTypeProposalOpenContract, req, &resp); err != nil {
		unsubscribe()
		return nil, fmt.Errorf("unable to subscribe to open contracts: %w", err)
	}

	return &Subscription{
		ID:          resp.Subscription.ID,
		unsubscribe: unsubscribe,
	}, nil
}

// Forget stops the server side stream and drops the local subscriber.
func (client *Client) Forget(ctx context.Context, sub *Subscription) error {
	if sub.unsubscribe != nil {
		defer sub.unsubscribe()
	}
	if sub.ID == "" {
		return nil
	}

	resp := &forgetResponse{}
	if err := sendReceive(ctx, client.conn, msgTypeForget, &forgetRequest{Forget: sub.ID}, resp); err != nil {
		return fmt.Errorf("unable to forget subscription %s: %w", sub.ID, err)
	}
	if !resp.Forget {
		client.logger.Warn("subscription was already gone", zap.String("subscription_id", sub.ID))
	}
	return nil
}

func (client *Client) keepAlive(interval time.Duration) {
	ticker := time.NewTicker(interval)
	client.conn.wg.Add(1)
	go func() {
		defer client.conn.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-client.conn.done():
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(client.conn.ctx, pingTimeout)
				if err := client.Ping(ctx); err != nil && client.conn.ctx.Err() == nil {
					client.logger.Warn("keep alive failed", zap.Error(err))
				}
				cancel()
			}
		}
	}()
}
