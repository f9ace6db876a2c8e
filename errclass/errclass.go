// SPDX-License-Identifier: GPL-3.0-or-later

// Package errclass maps the errors of this module to short labels.
//
// Labels for codec and transport errors of this module are defined here.
// Network errors are classified by [github.com/bassosimone/errclass].
package errclass

import (
	"errors"

	"github.com/bassosimone/errclass"
	"github.com/bassosimone/mcwire/nbt"
	"github.com/bassosimone/mcwire/packing"
	"github.com/bassosimone/mcwire/protocol"
)

const (
	// EDNS is the label of DNS responses that cannot resolve a server.
	EDNS = "EDNS"

	// EENCRYPTION is the label of attempts to enable encryption twice.
	EENCRYPTION = "EENCRYPTION"

	// EINVALIDENUM is the label of out-of-range enum discriminants.
	EINVALIDENUM = "EINVALIDENUM"

	// EMALFORMEDLENGTH is the label of invalid lengths and counts.
	EMALFORMEDLENGTH = "EMALFORMEDLENGTH"

	// EMALFORMEDTAG is the label of malformed NBT structure.
	EMALFORMEDTAG = "EMALFORMEDTAG"

	// EPOISONED is the label of writes on a poisoned write half.
	EPOISONED = "EPOISONED"

	// ESIZELIMIT is the label of values exceeding a size limit.
	ESIZELIMIT = "ESIZELIMIT"

	// ETEXT is the label of invalid UTF-8 or modified UTF-8 text.
	ETEXT = "ETEXT"

	// ETRAILINGDATA is the label of input left over after decoding.
	ETRAILINGDATA = "ETRAILINGDATA"

	// EUNDERRUN is the label of truncated input.
	EUNDERRUN = "EUNDERRUN"

	// EUNKNOWNPACKET is the label of unregistered packet ids.
	EUNKNOWNPACKET = "EUNKNOWNPACKET"

	// EUNSUPPORTED is the label of types the schema codec cannot handle.
	EUNSUPPORTED = "EUNSUPPORTED"

	// EUUID is the label of invalid UUID strings.
	EUUID = "EUUID"

	// EVARINT is the label of VarInt values longer than their width allows.
	EVARINT = "EVARINT"
)

// classes is checked in order with [errors.Is].
var classes = []struct {
	err   error
	label string
}{
	{nbt.ErrUnderrun, EUNDERRUN},
	{protocol.ErrUnderrun, EUNDERRUN},
	{protocol.ErrVarIntTooLong, EVARINT},
	{nbt.ErrInvalidTag, EMALFORMEDTAG},
	{nbt.ErrEndInList, EMALFORMEDTAG},
	{nbt.ErrNilValue, EMALFORMEDTAG},
	{nbt.ErrInvalidLength, EMALFORMEDLENGTH},
	{protocol.ErrInvalidLength, EMALFORMEDLENGTH},
	{protocol.ErrCountTooLarge, EMALFORMEDLENGTH},
	{nbt.ErrInvalidMUTF8, ETEXT},
	{protocol.ErrInvalidUTF8, ETEXT},
	{protocol.ErrInvalidUUID, EUUID},
	{nbt.ErrStringTooLong, ESIZELIMIT},
	{nbt.ErrArrayTooLong, ESIZELIMIT},
	{nbt.ErrTooDeep, ESIZELIMIT},
	{protocol.ErrStringTooLong, ESIZELIMIT},
	{packing.ErrFrameTooLarge, ESIZELIMIT},
	{protocol.ErrInvalidEnum, EINVALIDENUM},
	{protocol.ErrUnknownPacket, EUNKNOWNPACKET},
	{protocol.ErrUnsupportedType, EUNSUPPORTED},
	{nbt.ErrTrailingData, ETRAILINGDATA},
	{protocol.ErrTrailingData, ETRAILINGDATA},
}

// New returns the label of err, or the empty string when err is nil.
//
// Errors not produced by this module are classified by
// [github.com/bassosimone/errclass.New].
func New(err error) string {
	if err == nil {
		return ""
	}
	for _, class := range classes {
		if errors.Is(err, class.err) {
			return class.label
		}
	}
	return errclass.New(err)
}
