// SPDX-License-Identifier: GPL-3.0-or-later

package mcwire

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"github.com/bassosimone/safeconn"
)

// Dialer abstracts the [*net.Dialer] behavior.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// NewConnectFunc returns a new [*ConnectFunc].
//
// The cfg argument contains the common configuration for mcwire operations.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewConnectFunc(cfg *Config, logger SLogger) *ConnectFunc {
	return &ConnectFunc{
		Dialer:        cfg.Dialer,
		ErrClassifier: cfg.ErrClassifier,
		Logger:        logger,
		TimeNow:       cfg.TimeNow,
	}
}

// ConnectFunc opens the TCP connection to a game server endpoint, usually
// the one returned by [*ResolveServerFunc].
//
// The game protocol only runs over TCP. Endpoints without an address or
// with port zero fail with [ErrNoAddress] before dialing. IPv4-mapped IPv6
// addresses are dialed as IPv4.
//
// Returns either a valid [net.Conn] or an error, never both.
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with calls to [Call].
type ConnectFunc struct {
	// Dialer is the [Dialer] to use.
	//
	// Set by [NewConnectFunc] from [Config.Dialer].
	Dialer Dialer

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConnectFunc] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use (configurable for testing or custom logging).
	//
	// Set by [NewConnectFunc] to the user-provided logger.
	Logger SLogger

	// TimeNow is the function to get the current time (configurable for testing).
	//
	// Set by [NewConnectFunc] from [Config.TimeNow].
	TimeNow func() time.Time
}

var _ Func[netip.AddrPort, net.Conn] = &ConnectFunc{}

// Call connects to the game server at the given [netip.AddrPort].
func (op *ConnectFunc) Call(ctx context.Context, server netip.AddrPort) (net.Conn, error) {
	server = netip.AddrPortFrom(server.Addr().Unmap(), server.Port())
	t0 := op.TimeNow()
	deadline, _ := ctx.Deadline()
	op.logServerConnectStart(server, t0, deadline)

	var (
		conn net.Conn
		err  error
	)
	if !server.Addr().IsValid() || server.Port() == 0 {
		err = fmt.Errorf("%w: invalid server endpoint %q", ErrNoAddress, server)
	} else {
		conn, err = op.Dialer.DialContext(ctx, "tcp", server.String())
	}

	op.logServerConnectDone(server, t0, deadline, conn, err)
	return conn, err
}

func (op *ConnectFunc) logServerConnectStart(server netip.AddrPort, t0, deadline time.Time) {
	op.Logger.Info(
		"serverConnectStart",
		slog.Time("deadline", deadline),
		slog.String("serverAddr", server.Addr().String()),
		slog.Int("serverPort", int(server.Port())),
		slog.Time("t", t0),
	)
}

func (op *ConnectFunc) logServerConnectDone(server netip.AddrPort, t0, deadline time.Time, conn net.Conn, err error) {
	op.Logger.Info(
		"serverConnectDone",
		slog.Time("deadline", deadline),
		slog.Any("err", err),
		slog.String("errClass", op.ErrClassifier.Classify(err)),
		slog.String("localAddr", safeconn.LocalAddr(conn)),
		slog.String("serverAddr", server.Addr().String()),
		slog.Int("serverPort", int(server.Port())),
		slog.Time("t0", t0),
		slog.Time("t", op.TimeNow()),
	)
}
