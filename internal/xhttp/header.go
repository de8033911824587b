package xhttp

import "net/http"

const (
	XForwardedFor    = "X-Forwarded-For"
	XContentTypeOpts = "X-Content-Type-Options"
	XFrameOpts       = "X-Frame-Options"
	ReferrerPolicy   = "Referrer-Policy"
	UserAgent        = "User-Agent"
	Authorization    = "Authorization"
	Accept           = "Accept"
	ContentLength    = "Content-Length"
)

// channel credentials sent on every API call
const (
	XLineChannelID     = "X-Line-ChannelID"
	XLineChannelSecret = "X-Line-ChannelSecret"
	XLineTrustedUser   = "X-Line-Trusted-User-With-ACL"
)

// XLineChannelSignature carries base64(HMAC-SHA256(body, channel secret)).
// Deliveries have been seen with both spellings.
const (
	XLineChannelSignature      = "X-Line-ChannelSignature"
	XLineChannelSignatureUpper = "X-LINE-ChannelSignature"
)

const ContentType = "Content-Type"

const applicationJSON = "application/json"

const XRequestID = "X-Request-ID"

func SetHeaderRequestID(w http.ResponseWriter, requestID string) {
	w.Header().Set(XRequestID, requestID)
}

const CacheControl = "Cache-Control"

func SetHeaderContentTypeApplicationJSON(w http.ResponseWriter) {
	w.Header().Set(ContentType, applicationJSON)
}

func SetRequestHeaderContentTypeApplicationJSON(r *http.Request) {
	r.Header.Set(ContentType, applicationJSON)
}

// ChannelSignature returns the signature header under either accepted name.
// The header map is read directly so a non-canonical key set by a proxy is
// still found.
func ChannelSignature(h http.Header) string {
	for _, key := range []string{XLineChannelSignature, XLineChannelSignatureUpper} {
		if v := h.Get(key); v != "" {
			return v
		}
		if vs := h[key]; len(vs) > 0 && vs[0] != "" {
			return vs[0]
		}
	}
	return ""
}
