// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

import (
	"fmt"

	"github.com/google/uuid"
)

// UUIDStringLen is the length of the hyphenated UUID string form.
const UUIDStringLen = 36

// ReadUUID consumes a length-prefixed UUID string.
//
// Returns an error wrapping [ErrInvalidUUID] when the string does not parse.
func (d *Decoder) ReadUUID() (uuid.UUID, error) {
	s, err := d.ReadStringView()
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidUUID, err)
	}
	return id, nil
}
