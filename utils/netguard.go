package utils

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"sync/atomic"
	"syscall"
	"time"
)

// ErrBlockedAddress is returned when an outbound fetch resolves to an
// address that is not publicly routable.
var ErrBlockedAddress = errors.New("destination address is not publicly routable")

var allowPrivate atomic.Bool

// carrier-grade NAT, not covered by netip's IsPrivate
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// AllowPrivateNetworks lets user-supplied URLs reach loopback and private
// addresses. Local development with a localhost image server needs it.
func AllowPrivateNetworks(allow bool) {
	allowPrivate.Store(allow)
}

// IsPublicAddr reports whether addr is safe to fetch on a user's behalf.
func IsPublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	switch {
	case !addr.IsValid(),
		addr.IsUnspecified(),
		addr.IsLoopback(),
		addr.IsPrivate(),
		addr.IsLinkLocalUnicast(),
		addr.IsLinkLocalMulticast(),
		addr.IsInterfaceLocalMulticast(),
		addr.IsMulticast(),
		sharedAddressSpace.Contains(addr):
		return false
	}
	return true
}

// guardDial runs after DNS resolution, so a public hostname that resolves
// to a private address is rejected as well.
func guardDial(network, address string, _ syscall.RawConn) error {
	if allowPrivate.Load() {
		return nil
	}
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
	}
	addr, err := netip.ParseAddr(host)
	if err != nil || !IsPublicAddr(addr) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, host)
	}
	return nil
}

// GuardedDialer dials only publicly routable addresses.
func GuardedDialer() *net.Dialer {
	return &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   guardDial,
	}
}

// NewPublicHTTPClient is an HTTP client for fetching user-supplied URLs.
// It never uses a proxy, since a proxy would dial on our behalf.
func NewPublicHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:           GuardedDialer().DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}
