package api

import (
	"fmt"
	"net/http"

	"github.com/garrettladley/linebot/internal/xhttp"
	"golang.org/x/oauth2"
)

type channelTransport struct {
	base        http.RoundTripper
	channel     Channel
	tokenSource oauth2.TokenSource
}

var _ http.RoundTripper = (*channelTransport)(nil)

func (t *channelTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set(xhttp.XLineChannelID, t.channel.ID)
	req.Header.Set(xhttp.XLineChannelSecret, t.channel.Secret)
	req.Header.Set(xhttp.XLineTrustedUser, t.channel.MID)

	if t.tokenSource != nil {
		token, err := t.tokenSource.Token()
		if err != nil {
			return nil, fmt.Errorf("getting token: %w", err)
		}
		token.SetAuthHeader(req)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("round trip: %w", err)
	}
	return resp, nil
}
