package deriv

import (
	"context"
	"encoding/json"
	"fmt"
)

func sendReceive(ctx context.Context, c *connection, msgType string, req request, resp any) error {
	if req.requestID() == 0 {
		req.setRequestID(c.nextID.Add(1))
	}
	id := req.requestID()

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("unable to marshal %s request: %w", msgType, err)
	}

	respChan := make(chan *Message, 1)
	c.pending.Store(id, respChan)
	defer c.pending.Delete(id)

	select {
	case c.writeChan <- data:
	case <-ctx.Done():
		return fmt.Errorf("unable to send %s request: %w", msgType, ctx.Err())
	case <-c.done():
		return fmt.Errorf("unable to send %s request: %w", msgType, ErrClosed)
	}

	select {
	case msg := <-respChan:
		if msg.Error != nil {
			return msg.Error
		}
		if resp == nil {
			return nil
		}
		if err := json.Unmarshal(msg.Raw, resp); err != nil {
			return fmt.Errorf("unable to unmarshal %s response: %w", msgType, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("unable to receive %s response: %w", msgType, ctx.Err())
	case <-c.done():
		return fmt.Errorf("unable to receive %s response: %w", msgType, ErrClosed)
	}
}
