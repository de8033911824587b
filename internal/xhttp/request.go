package xhttp

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// GetRequestIP returns the client address: the first hop of X-Forwarded-For
// when it holds a valid IP, otherwise the host part of RemoteAddr.
func GetRequestIP(r *http.Request) string {
	if xff := r.Header.Get(XForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip, ok := parseIP(strings.TrimSpace(first)); ok {
			return ip
		}
	}
	if ip, ok := parseIP(r.RemoteAddr); ok {
		return ip
	}
	return r.RemoteAddr
}

func parseIP(s string) (string, bool) {
	if host, _, err := net.SplitHostPort(s); err == nil {
		s = host
	}
	addr, err := netip.ParseAddr(strings.Trim(s, "[]"))
	if err != nil {
		return "", false
	}
	return addr.Unmap().String(), true
}
