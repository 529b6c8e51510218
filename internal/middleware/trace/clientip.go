package trace

import (
	"net"
	"net/http"
	"strings"
)

const (
	ForwardedForHeader = "X-Forwarded-For"
	RealIPHeader       = "X-Real-IP"
)

// ClientIP resolves the caller's address for requests that may arrive
// through reverse proxies. Forwarding headers are only read when the direct
// peer is a trusted proxy.
type ClientIP struct {
	trusted []*net.IPNet
}

func NewClientIP(trusted []*net.IPNet) *ClientIP {
	return &ClientIP{trusted: trusted}
}

// FromRequest walks X-Forwarded-For from the nearest hop outwards and
// returns the first address that is not a trusted proxy. Hops left of it
// were written by the client and are ignored.
func (c *ClientIP) FromRequest(r *http.Request) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}
	peer := net.ParseIP(remote)
	if peer == nil || !c.isTrusted(peer) {
		return remote
	}

	xff := r.Header.Get(ForwardedForHeader)
	if xff == "" {
		if real := net.ParseIP(strings.TrimSpace(r.Header.Get(RealIPHeader))); real != nil {
			return real.String()
		}
		return remote
	}

	client := remote
	hops := strings.Split(xff, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := net.ParseIP(strings.TrimSpace(hops[i]))
		if hop == nil {
			break
		}
		client = hop.String()
		if !c.isTrusted(hop) {
			break
		}
	}
	return client
}

func (c *ClientIP) isTrusted(ip net.IP) bool {
	for _, network := range c.trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
