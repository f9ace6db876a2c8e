// SPDX-License-Identifier: GPL-3.0-or-later

package mcwire

import (
	"cmp"
	"context"
	"fmt"
	"net"
	"net/netip"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bassosimone/safeconn"
	"github.com/miekg/dns"
)

// DefaultServerPort is the port used when a server address has no port
// and no SRV record.
const DefaultServerPort = 25565

// srvPrefix is prepended to the host name for the SRV lookup.
const srvPrefix = "_minecraft._tcp."

// NewResolveServerFunc returns a new [*ResolveServerFunc].
//
// The cfg argument contains the common configuration for mcwire operations.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewResolveServerFunc(cfg *Config, logger SLogger) *ResolveServerFunc {
	return &ResolveServerFunc{
		DNSServer:     cfg.DNSServer,
		Dialer:        cfg.Dialer,
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		TimeNow:       cfg.TimeNow,
	}
}

// ResolveServerFunc maps a "host[:port]" server address to an endpoint.
//
// IP literals are returned without any lookup. Otherwise, when the address
// has no port, the SRV record of "_minecraft._tcp.<host>" selects the
// target host and port. The target host is then resolved to an IPv4
// address. Without port and SRV record the port is [DefaultServerPort].
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with calls to [Call].
type ResolveServerFunc struct {
	// DNSServer is the UDP endpoint of the recursive resolver.
	//
	// Set by [NewResolveServerFunc] from [Config.DNSServer].
	DNSServer netip.AddrPort

	// Dialer is the [Dialer] used to reach the resolver.
	//
	// Set by [NewResolveServerFunc] from [Config.Dialer].
	Dialer Dialer

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewResolveServerFunc] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use (configurable for testing or custom logging).
	//
	// Set by [NewResolveServerFunc] to the user-provided logger.
	Logger SLogger

	// TimeNow is the function to get the current time (configurable for testing).
	//
	// Set by [NewResolveServerFunc] from [Config.TimeNow].
	TimeNow func() time.Time
}

var _ Func[string, netip.AddrPort] = &ResolveServerFunc{}

// Call resolves the given server address.
func (op *ResolveServerFunc) Call(ctx context.Context, address string) (netip.AddrPort, error) {
	host, port, hasPort, err := splitServerAddress(address)
	if err != nil {
		return netip.AddrPort{}, err
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return netip.AddrPortFrom(addr.Unmap(), port), nil
	}

	if !hasPort {
		srv, err := op.lookupSRV(ctx, host)
		if err != nil {
			return netip.AddrPort{}, err
		}
		if srv != nil {
			host, port = strings.TrimSuffix(srv.Target, "."), srv.Port
		}
	}

	addr, err := op.lookupA(ctx, host)
	if err != nil {
		return netip.AddrPort{}, err
	}
	return netip.AddrPortFrom(addr, port), nil
}

// splitServerAddress splits "host[:port]" and reports whether the port
// was present. IPv6 literals with a port use the "[addr]:port" form.
func splitServerAddress(address string) (host string, port uint16, hasPort bool, err error) {
	host, portString, err := net.SplitHostPort(address)
	if err != nil {
		host = strings.TrimSuffix(strings.TrimPrefix(address, "["), "]")
		if host == "" {
			return "", 0, false, fmt.Errorf("%w: empty server address", ErrNoAddress)
		}
		return host, DefaultServerPort, false, nil
	}
	if host == "" {
		return "", 0, false, fmt.Errorf("%w: empty host in %q", ErrNoAddress, address)
	}
	value, err := strconv.ParseUint(portString, 10, 16)
	if err != nil {
		return "", 0, false, fmt.Errorf("mcwire: invalid port in %q: %w", address, err)
	}
	return host, uint16(value), true, nil
}

// lookupSRV returns the preferred SRV record for host, or nil when
// the name has no SRV records.
func (op *ResolveServerFunc) lookupSRV(ctx context.Context, host string) (*dns.SRV, error) {
	resp, err := op.exchange(ctx, srvPrefix+host, dns.TypeSRV)
	if err != nil {
		return nil, err
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, nil
	}
	var records []*dns.SRV
	for _, rr := range resp.Answer {
		if srv, ok := rr.(*dns.SRV); ok {
			records = append(records, srv)
		}
	}
	if len(records) <= 0 {
		return nil, nil
	}
	// lowest priority first, then highest weight
	slices.SortStableFunc(records, func(a, b *dns.SRV) int {
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		return cmp.Compare(b.Weight, a.Weight)
	})
	return records[0], nil
}

// lookupA returns the first IPv4 address of host.
func (op *ResolveServerFunc) lookupA(ctx context.Context, host string) (netip.Addr, error) {
	resp, err := op.exchange(ctx, host, dns.TypeA)
	if err != nil {
		return netip.Addr{}, err
	}
	if resp.Rcode != dns.RcodeSuccess {
		return netip.Addr{}, fmt.Errorf("%w: %s for %s", ErrDNSResponse, dns.RcodeToString[resp.Rcode], host)
	}
	for _, rr := range resp.Answer {
		if record, ok := rr.(*dns.A); ok {
			if addr, ok := netip.AddrFromSlice(record.A.To4()); ok {
				return addr, nil
			}
		}
	}
	return netip.Addr{}, fmt.Errorf("%w: %s", ErrNoAddress, host)
}

// exchange sends a single recursive query to the configured resolver.
func (op *ResolveServerFunc) exchange(ctx context.Context, name string, qtype uint16) (*dns.Msg, error) {
	conn, err := op.Dialer.DialContext(ctx, "udp", op.DNSServer.String())
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	lc := &dnsExchangeLogContext{
		ErrClassifier: op.ErrClassifier,
		LocalAddr:     safeconn.LocalAddr(conn),
		Logger:        op.Logger,
		Protocol:      safeconn.Network(conn),
		RemoteAddr:    safeconn.RemoteAddr(conn),
		TimeNow:       op.TimeNow,
	}
	query := &dns.Msg{}
	query.SetQuestion(dns.Fqdn(name), qtype)
	return lc.exchange(ctx, conn, query)
}
