// SPDX-License-Identifier: GPL-3.0-or-later

// Package cfb8 provides the 8-bit cipher feedback mode used to encrypt
// the game connection once the login handshake completes.
//
// The streams come from [github.com/Tnze/go-mc/net/CFB8]. Unlike the
// full-block CFB of [crypto/cipher], the stream never needs padding and
// encrypting one byte at a time gives the same result as encrypting a
// whole buffer at once.
package cfb8

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/Tnze/go-mc/net/CFB8"
	"github.com/bassosimone/runtimex"
)

// NewEncrypter returns a [cipher.Stream] encrypting with block in CFB8 mode.
// The length of iv must equal the block size.
func NewEncrypter(block cipher.Block, iv []byte) cipher.Stream {
	runtimex.Assert(len(iv) == block.BlockSize())
	return CFB8.NewCFB8Encrypt(block, iv)
}

// NewDecrypter returns a [cipher.Stream] decrypting with block in CFB8 mode.
// The length of iv must equal the block size.
func NewDecrypter(block cipher.Block, iv []byte) cipher.Stream {
	runtimex.Assert(len(iv) == block.BlockSize())
	return CFB8.NewCFB8Decrypt(block, iv)
}

// NewAESEncrypter returns an AES/CFB8 encrypting stream using secret as
// both the key and the IV, as the protocol does with the shared secret.
func NewAESEncrypter(secret []byte) (cipher.Stream, error) {
	block, err := newAESBlock(secret)
	if err != nil {
		return nil, err
	}
	return NewEncrypter(block, secret), nil
}

// NewAESDecrypter is the decrypting counterpart of [NewAESEncrypter].
func NewAESDecrypter(secret []byte) (cipher.Stream, error) {
	block, err := newAESBlock(secret)
	if err != nil {
		return nil, err
	}
	return NewDecrypter(block, secret), nil
}

// newAESBlock accepts only AES-128 keys, since the key doubles as the IV.
func newAESBlock(secret []byte) (cipher.Block, error) {
	if len(secret) != aes.BlockSize {
		return nil, aes.KeySizeError(len(secret))
	}
	return aes.NewCipher(secret)
}
