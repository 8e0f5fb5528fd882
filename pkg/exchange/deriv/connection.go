package deriv

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait       = 5 * time.Second
	subscriberQueue = 256
)

type subscriber struct {
	msgType string
	reqID   uint64 // 0 receives every message of msgType
	ch      chan *Message
}

type connection struct {
	conn   *websocket.Conn
	logger *zap.Logger

	ctx       context.Context
	ctxCancel context.CancelFunc
	wg        sync.WaitGroup
	stopOnce  sync.Once

	writeChan chan []byte
	nextID    atomic.Uint64

	pending       sync.Map // map[uint64]chan *Message
	subscribersMu sync.RWMutex
	subscribers   map[*subscriber]struct{}
}

func newConnection(conn *websocket.Conn, logger *zap.Logger) *connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &connection{
		conn:        conn,
		logger:      logger,
		ctx:         ctx,
		ctxCancel:   cancel,
		writeChan:   make(chan []byte, 100),
		subscribers: make(map[*subscriber]struct{}),
	}
}

func (c *connection) start() {
	c.wg.Add(2)
	go c.read()
	go c.write()
}

func (c *connection) stop() {
	c.stopOnce.Do(func() {
		c.ctxCancel()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		_ = c.conn.Close()
	})
	c.wg.Wait()
}

func (c *connection) done() <-chan struct{} {
	return c.ctx.Done()
}

func (c *connection) read() {
	defer c.wg.Done()
	// a dead socket ends every pending request and subscription
	defer c.ctxCancel()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if c.ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Debug("websocket closed", zap.Error(err))
				return
			}
			c.logger.Warn("cannot read data", zap.Error(err))
			return
		}

		msg, err := decodeMessage(data)
		if err != nil {
			c.logger.Warn("unmarshal failed",
				zap.ByteString("raw", data),
				zap.Error(err))
			continue
		}

		c.logger.Debug("read",
			zap.String("type", msg.MsgType),
			zap.Uint64("req_id", msg.ReqID),
			zap.ByteString("payload", data))

		if msg.ReqID != 0 {
			if ch, ok := c.pending.LoadAndDelete(msg.ReqID); ok {
				select {
				case ch.(chan *Message) <- msg:
				default: // drop if blocked
				}
			}
		}

		if _, isStream := streamMessageTypes[msg.MsgType]; isStream && msg.Error == nil {
			c.publish(msg)
		}
	}
}

func (c *connection) publish(msg *Message) {
	c.subscribersMu.RLock()
	defer c.subscribersMu.RUnlock()

	for sub := range c.subscribers {
		if sub.msgType != msg.MsgType || (sub.reqID != 0 && sub.reqID != msg.ReqID) {
			continue
		}
		select {
		case sub.ch <- msg:
		default:
			c.logger.Warn("subscriber queue full, message dropped",
				zap.String("type", msg.MsgType),
				zap.Uint64("req_id", msg.ReqID))
		}
	}
}

func (c *connection) write() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		case data := <-c.writeChan:
			c.logger.Debug("write", zap.ByteString("payload", data))

			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				if errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				c.logger.Warn("failed to write to connection", zap.Error(err))
			}
		}
	}
}

// subscribe delivers matching stream messages to cb on a dedicated goroutine, in arrival order.
// The returned function removes the subscription.
func (c *connection) subscribe(msgType string, reqID uint64, cb func(*Message)) func() {
	sub := &subscriber{
		msgType: msgType,
		reqID:   reqID,
		ch:      make(chan *Message, subscriberQueue),
	}

	c.subscribersMu.Lock()
	c.subscribers[sub] = struct{}{}
	c.subscribersMu.Unlock()

	quit := make(chan struct{})
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-c.ctx.Done():
				return
			case <-quit:
				return
			case msg := <-sub.ch:
				cb(msg)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subscribersMu.Lock()
			delete(c.subscribers, sub)
			c.subscribersMu.Unlock()
			close(quit)
		})
	}
}
