// SPDX-License-Identifier: GPL-3.0-or-later

package mcwire

import (
	"net"
	"net/netip"
	"time"

	"github.com/bassosimone/mcwire/packing"
)

// Config holds common configuration for mcwire operations.
//
// Pass this to constructor functions to pre-wire dependencies.
// All fields have sensible defaults set by [NewConfig].
type Config struct {
	// CompressBufferCapacity is the initial capacity of the buffer
	// a [*WriteHalf] compresses payloads into.
	//
	// Set by [NewConfig] to [packing.DefaultScratchCapacity].
	CompressBufferCapacity int

	// DNSServer is the UDP endpoint queried by [*ResolveServerFunc].
	//
	// Set by [NewConfig] to [DefaultDNSServer].
	DNSServer netip.AddrPort

	// Dialer is used by [*ConnectFunc] and [*ResolveServerFunc].
	//
	// Set by [NewConfig] to [*net.Dialer].
	Dialer Dialer

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewConfig] to [DefaultErrClassifier].
	ErrClassifier ErrClassifier

	// TimeNow returns the current time.
	//
	// Set by [NewConfig] to [time.Now].
	TimeNow func() time.Time
}

// DefaultDNSServer is the default value of [Config.DNSServer].
var DefaultDNSServer = netip.MustParseAddrPort("8.8.8.8:53")

// NewConfig creates a [*Config] with sensible defaults.
func NewConfig() *Config {
	return &Config{
		CompressBufferCapacity: packing.DefaultScratchCapacity,
		DNSServer:              DefaultDNSServer,
		Dialer:                 &net.Dialer{},
		ErrClassifier:          DefaultErrClassifier,
		TimeNow:                time.Now,
	}
}
