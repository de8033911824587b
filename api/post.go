package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/garrettladley/linebot/event"
)

var ErrNilEvent = errors.New("nil event")

// Post delivers e to the events endpoint.
func (c *Client) Post(ctx context.Context, e event.Event) (*SendResult, error) {
	if e == nil {
		return nil, ErrNilEvent
	}

	var result SendResult
	if err := c.do(ctx, http.MethodPost, c.eventEndpoint, nil, e, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
