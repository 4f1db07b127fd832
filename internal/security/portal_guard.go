// Package security hardens the engine's outward-facing edges: the outbound
// HTTP client used against the remote portal and the text scraped from it.
package security

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

// OutboundGuardService validates the configured portal URL and builds the
// hardened HTTP client used for all portal traffic.
type OutboundGuardService interface {
	// ValidatePortalURL statically checks an operator-supplied portal base
	// URL: http/https scheme, non-empty host, no private or loopback target.
	// A misconfigured portal URL should fail at startup, not at 06:00.
	ValidatePortalURL(rawURL string) error

	// NewSafeClient returns an HTTP client whose dialer re-validates every
	// resolved address, covering DNS rebinding as well.
	NewSafeClient(timeout time.Duration) *http.Client
}

var allowedSchemes = []string{"http", "https"}

// blockedNetworks are address ranges the portal must never resolve to:
// RFC 1918 private space, loopback, link-local (incl. cloud metadata), and
// their IPv6 equivalents. Parsed once at package init.
var blockedNetworks []net.IPNet

func init() {
	cidrs := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"169.254.0.0/16",
		"0.0.0.0/8",
		"::1/128",
		"fe80::/10",
		"fc00::/7",
	}
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("invalid CIDR in blockedNetworks: %s: %v", cidr, err))
		}
		blockedNetworks = append(blockedNetworks, *network)
	}
}

type outboundGuard struct{}

// NewOutboundGuard returns the production OutboundGuardService.
func NewOutboundGuard() *outboundGuard {
	return &outboundGuard{}
}

// NewSafeClient builds the safeurl-wrapped client. safeurl validates the
// post-resolution IP in the dialer's Control hook, so a portal hostname that
// later starts resolving to a private address is refused per request.
func (g *outboundGuard) NewSafeClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes(allowedSchemes...).
		SetAllowedPorts(80, 443).
		Build()

	return safeurl.Client(config).Client
}

// ValidatePortalURL implements OutboundGuardService.
func (g *outboundGuard) ValidatePortalURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("empty portal URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid portal URL: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	ok := false
	for _, allowed := range allowedSchemes {
		if scheme == allowed {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("disallowed scheme: %s (allowed: %v)", scheme, allowedSchemes)
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("empty host in portal URL: %s", rawURL)
	}

	if ip := net.ParseIP(host); ip != nil {
		for _, network := range blockedNetworks {
			if network.Contains(ip) {
				return fmt.Errorf("blocked portal IP address: %s", ip.String())
			}
		}
		return nil
	}

	if strings.EqualFold(host, "localhost") {
		return fmt.Errorf("blocked portal host: %s", host)
	}

	return nil
}
