package xhttp

import (
	"fmt"
	"net/http"

	"github.com/garrettladley/linebot/internal/version"
)

type linebotTransport struct {
	base http.RoundTripper
}

var _ http.RoundTripper = (*linebotTransport)(nil)

func (t *linebotTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set(UserAgent, version.UserAgent())
	req.Header.Set(Accept, applicationJSON)
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform round trip: %w", err)
	}
	return resp, nil
}

// WrapTransport adds the standard linebot headers on top of base.
func WrapTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &linebotTransport{base: base}
}
