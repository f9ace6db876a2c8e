// SPDX-License-Identifier: GPL-3.0-or-later

package protocol

// NextState is the state requested by a handshake.
type NextState int32

const (
	NextStateStatus NextState = 1
	NextStateLogin  NextState = 2
)

// Valid implements [Enum].
func (s NextState) Valid() bool {
	return s == NextStateStatus || s == NextStateLogin
}

// AnimationID identifies an entity animation. The ids jump from 6 to 102.
type AnimationID int32

const (
	AnimationNone AnimationID = iota
	AnimationSwingArm
	AnimationDamage
	AnimationLeaveBed
	AnimationEatFood
	AnimationCrit
	AnimationMagicCrit
)

const (
	AnimationUnknown AnimationID = iota + 102
	AnimationCrouch
	AnimationUncrouch
)

// Valid implements [Enum].
func (a AnimationID) Valid() bool {
	return (a >= AnimationNone && a <= AnimationMagicCrit) ||
		(a >= AnimationUnknown && a <= AnimationUncrouch)
}

// handshake is the first packet sent by a client.
type handshake struct {
	ProtocolVersion int32     `mc:"varint"`
	ServerAddress   string    `mc:"string,max=255"`
	ServerPort      uint16
	NextState       NextState `mc:"varint"`
}

// animation is an entity animation packet.
type animation struct {
	EntityID  int32       `mc:"varint"`
	Animation AnimationID `mc:"varint"`
}

func sampleHandshake() handshake {
	return handshake{
		ProtocolVersion: 763,
		ServerAddress:   "localhost",
		ServerPort:      25565,
		NextState:       NextStateLogin,
	}
}

// sampleHandshakeBytes is the encoding of sampleHandshake.
var sampleHandshakeBytes = []byte{
	0xfb, 0x05,
	0x09, 'l', 'o', 'c', 'a', 'l', 'h', 'o', 's', 't',
	0x63, 0xdd,
	0x02,
}
