// SPDX-License-Identifier: GPL-3.0-or-later

package mcwire

import "errors"

var (
	// ErrPoisoned indicates a [*WriteHalf] that failed or was interrupted in
	// the middle of a write. The errors returned by the failing call and by
	// every following call also wrap the original cause.
	ErrPoisoned = errors.New("mcwire: write half poisoned")

	// ErrEncryptionEnabled indicates a second attempt to enable encryption.
	ErrEncryptionEnabled = errors.New("mcwire: encryption already enabled")

	// ErrNoAddress indicates that resolving a server name produced no
	// IPv4 address.
	ErrNoAddress = errors.New("mcwire: no address for server")

	// ErrDNSResponse indicates a DNS response that cannot answer the query.
	ErrDNSResponse = errors.New("mcwire: invalid dns response")
)
