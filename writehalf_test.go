// SPDX-License-Identifier: GPL-3.0-or-later

package mcwire

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/bassosimone/mcwire/cfb8"
	"github.com/bassosimone/mcwire/errclass"
	"github.com/bassosimone/mcwire/packing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRecordingConn returns a conn appending every write to the returned buffer.
func newRecordingConn() (net.Conn, *bytes.Buffer, *int) {
	var (
		buffer bytes.Buffer
		writes int
	)
	conn := newMinimalConn()
	conn.WriteFunc = func(b []byte) (int, error) {
		writes++
		return buffer.Write(b)
	}
	conn.CloseFunc = func() error { return nil }
	return conn, &buffer, &writes
}

// NewWriteHalfFunc populates all fields from Config and the provided logger.
func TestNewWriteHalfFunc(t *testing.T) {
	cfg := NewConfig()
	cfg.CompressBufferCapacity = 1 << 16

	fn := NewWriteHalfFunc(cfg, DefaultSLogger())

	require.NotNil(t, fn)
	assert.Equal(t, 1<<16, fn.CompressBufferCapacity)
	assert.NotNil(t, fn.Logger)
	assert.NotNil(t, fn.TimeNow)
	assert.NotNil(t, fn.ErrClassifier)

	conn := newMinimalConn()
	wh, err := fn.Call(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, conn, wh.Conn())
	assert.NotEmpty(t, wh.ConnID)
	assert.Nil(t, wh.Compression())
	assert.False(t, wh.Encrypted())
	assert.NoError(t, wh.Err())
	assert.GreaterOrEqual(t, wh.packer.ScratchCapacity(), 1<<16)
}

// Write emits exactly one frame per call using the current compression.
func TestWriteHalfWrite(t *testing.T) {
	tests := []struct {
		// name describes what this test case verifies.
		name string

		// compression is the compression to configure.
		compression *packing.Compression

		// payload is the payload to write.
		payload []byte

		// want is the expected frame.
		want []byte
	}{
		{
			name:        "uncompressed",
			compression: nil,
			payload:     []byte{0x2a},
			want:        []byte{0x01, 0x2a},
		},

		{
			name:        "empty payload",
			compression: nil,
			payload:     []byte{},
			want:        []byte{0x00},
		},

		{
			name:        "below threshold",
			compression: &packing.Compression{Threshold: 256},
			payload:     []byte{0x2a},
			want:        []byte{0x02, 0x00, 0x2a},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, buffer, writes := newRecordingConn()
			wh := NewWriteHalf(conn, NewConfig(), DefaultSLogger())
			wh.SetCompression(tt.compression)

			err := wh.Write(context.Background(), tt.payload)

			require.NoError(t, err)
			assert.Equal(t, 1, *writes)
			assert.Equal(t, tt.want, buffer.Bytes())
		})
	}
}

// Write preserves the order of frames and switching compression applies
// from the next frame.
func TestWriteHalfOrdering(t *testing.T) {
	conn, buffer, writes := newRecordingConn()
	wh := NewWriteHalf(conn, NewConfig(), DefaultSLogger())

	require.NoError(t, wh.Write(context.Background(), []byte{0x01}))
	require.NoError(t, wh.Write(context.Background(), []byte{0x02, 0x03}))
	wh.SetCompression(packing.CompressionFromThreshold(256))
	require.NoError(t, wh.Write(context.Background(), []byte{0x04}))

	assert.Equal(t, 3, *writes)
	assert.Equal(t, []byte{0x01, 0x01, 0x02, 0x02, 0x03, 0x02, 0x00, 0x04}, buffer.Bytes())
}

// Encrypted frames decrypt to the plain frames with a peer stream.
func TestWriteHalfEncryption(t *testing.T) {
	secret := []byte("0123456789abcdef")
	payloads := [][]byte{
		{0x00, 0x01, 0x02},
		bytes.Repeat([]byte{0x55}, 300),
		{0x7f},
	}

	plainConn, plain, _ := newRecordingConn()
	plainHalf := NewWriteHalf(plainConn, NewConfig(), DefaultSLogger())

	cipherConn, encrypted, _ := newRecordingConn()
	cipherHalf := NewWriteHalf(cipherConn, NewConfig(), DefaultSLogger())
	require.NoError(t, cipherHalf.EnableEncryptionAES(secret))
	assert.True(t, cipherHalf.Encrypted())

	for _, payload := range payloads {
		require.NoError(t, plainHalf.Write(context.Background(), payload))
		require.NoError(t, cipherHalf.Write(context.Background(), payload))
	}

	require.Equal(t, plain.Len(), encrypted.Len())
	assert.NotEqual(t, plain.Bytes(), encrypted.Bytes())

	decrypter, err := cfb8.NewAESDecrypter(secret)
	require.NoError(t, err)
	decrypted := make([]byte, encrypted.Len())
	decrypter.XORKeyStream(decrypted, encrypted.Bytes())
	assert.Equal(t, plain.Bytes(), decrypted)
}

// EnableEncryption can only be called once.
func TestWriteHalfEnableEncryptionTwice(t *testing.T) {
	conn, _, _ := newRecordingConn()
	wh := NewWriteHalf(conn, NewConfig(), DefaultSLogger())

	first, err := cfb8.NewAESEncrypter(make([]byte, 16))
	require.NoError(t, err)
	require.NoError(t, wh.EnableEncryption(first))

	second, err := cfb8.NewAESEncrypter(make([]byte, 16))
	require.NoError(t, err)
	assert.ErrorIs(t, wh.EnableEncryption(second), ErrEncryptionEnabled)
	assert.ErrorIs(t, wh.EnableEncryptionAES(make([]byte, 16)), ErrEncryptionEnabled)
	assert.Equal(t, errclass.EENCRYPTION, DefaultErrClassifier.Classify(ErrEncryptionEnabled))
}

// EnableEncryptionAES rejects secrets of the wrong size.
func TestWriteHalfEnableEncryptionAESInvalidKey(t *testing.T) {
	conn, _, _ := newRecordingConn()
	wh := NewWriteHalf(conn, NewConfig(), DefaultSLogger())

	err := wh.EnableEncryptionAES([]byte("short"))

	require.Error(t, err)
	assert.False(t, wh.Encrypted())
}

// A failed write poisons the write half.
func TestWriteHalfPoisonedOnWriteError(t *testing.T) {
	wantErr := errors.New("connection reset")
	writes := 0
	conn := newMinimalConn()
	conn.WriteFunc = func(b []byte) (int, error) {
		writes++
		return 1, wantErr
	}

	wh := NewWriteHalf(conn, NewConfig(), DefaultSLogger())

	err := wh.Write(context.Background(), []byte{0x01, 0x02})
	require.ErrorIs(t, err, ErrPoisoned)
	require.ErrorIs(t, err, wantErr)

	err = wh.Write(context.Background(), []byte{0x03})
	require.ErrorIs(t, err, ErrPoisoned)
	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, writes)
	assert.ErrorIs(t, wh.Err(), ErrPoisoned)
}

// A short write without error poisons the write half.
func TestWriteHalfPoisonedOnShortWrite(t *testing.T) {
	conn := newMinimalConn()
	conn.WriteFunc = func(b []byte) (int, error) {
		return len(b) - 1, nil
	}

	wh := NewWriteHalf(conn, NewConfig(), DefaultSLogger())

	err := wh.Write(context.Background(), []byte{0x01, 0x02})

	require.ErrorIs(t, err, ErrPoisoned)
}

// A context done before Write starts writes nothing and does not poison.
func TestWriteHalfContextDoneBeforeWrite(t *testing.T) {
	conn, buffer, writes := newRecordingConn()
	wh := NewWriteHalf(conn, NewConfig(), DefaultSLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := wh.Write(ctx, []byte{0x01})

	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrPoisoned)
	assert.Equal(t, 0, *writes)
	assert.Equal(t, 0, buffer.Len())

	require.NoError(t, wh.Write(context.Background(), []byte{0x01}))
	assert.Equal(t, []byte{0x01, 0x01}, buffer.Bytes())
}

// Cancelling the context interrupts an in-flight write and poisons the write half.
func TestWriteHalfCancelDuringWrite(t *testing.T) {
	started := make(chan struct{})
	interrupted := make(chan struct{})

	conn := newMinimalConn()
	conn.WriteFunc = func(b []byte) (int, error) {
		close(started)
		<-interrupted
		return 0, os.ErrDeadlineExceeded
	}
	conn.SetWriteDeaFunc = func(t time.Time) error {
		if !t.IsZero() && t.Before(time.Now()) {
			close(interrupted)
		}
		return nil
	}

	wh := NewWriteHalf(conn, NewConfig(), DefaultSLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-started
		cancel()
	}()

	err := wh.Write(ctx, []byte{0x01})

	require.ErrorIs(t, err, ErrPoisoned)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, errclass.EPOISONED, DefaultErrClassifier.Classify(err))
}

// Write, SetCompression and EnableEncryption emit structured log events.
func TestWriteHalfLogging(t *testing.T) {
	logger, records := newCapturingLogger()
	conn, _, _ := newRecordingConn()
	wh := NewWriteHalf(conn, NewConfig(), logger)

	wh.SetCompression(packing.CompressionFromThreshold(64))
	require.NoError(t, wh.EnableEncryptionAES(make([]byte, 16)))
	require.NoError(t, wh.Write(context.Background(), []byte{0x01}))

	var messages []string
	for _, record := range *records {
		messages = append(messages, record.Message)
	}
	assert.Equal(t, []string{
		"compressionChanged",
		"encryptionEnabled",
		"packetWriteStart",
		"packetWriteDone",
	}, messages)
}

// Close delegates to the underlying connection.
func TestWriteHalfClose(t *testing.T) {
	closeCalled := false
	conn := newMinimalConn()
	conn.CloseFunc = func() error {
		closeCalled = true
		return nil
	}

	wh := NewWriteHalf(conn, NewConfig(), DefaultSLogger())

	require.NoError(t, wh.Close())
	assert.True(t, closeCalled)
}
