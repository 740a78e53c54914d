package egress

import (
	"errors"
	"net"
	"net/http"
	"strings"
)

var ErrBlocked = errors.New("egress blocked by policy")

// AllowlistRoundTripper restricts outbound requests to the configured
// backend hosts. Plain http is tolerated only for loopback addresses so a
// self-hosted backend can run locally; everything else must be HTTPS.
type AllowlistRoundTripper struct {
	Base      http.RoundTripper
	Allowlist map[string]bool
}

func NewAllowlistRoundTripper(base http.RoundTripper, hosts []string) *AllowlistRoundTripper {
	allowlist := make(map[string]bool, len(hosts))
	for _, host := range hosts {
		allowlist[strings.ToLower(host)] = true
	}
	return &AllowlistRoundTripper{Base: base, Allowlist: allowlist}
}

func (rt *AllowlistRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL == nil {
		return nil, ErrBlocked
	}
	host := req.URL.Hostname()
	if host == "" {
		return nil, ErrBlocked
	}
	if req.URL.Scheme != "https" && !isLoopback(host) {
		return nil, ErrBlocked
	}
	if !rt.Allowlist[strings.ToLower(host)] {
		return nil, ErrBlocked
	}
	base := rt.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

func isLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}
