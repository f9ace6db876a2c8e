// SPDX-License-Identifier: GPL-3.0-or-later

package mcwire

import (
	"context"
	"crypto/cipher"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/bassosimone/mcwire/cfb8"
	"github.com/bassosimone/mcwire/packing"
	"github.com/bassosimone/runtimex"
	"github.com/bassosimone/safeconn"
)

// NewWriteHalfFunc returns a new [*WriteHalfFunc].
//
// The cfg argument contains the common configuration for mcwire operations.
//
// The logger argument is the [SLogger] to use for structured logging.
func NewWriteHalfFunc(cfg *Config, logger SLogger) *WriteHalfFunc {
	return &WriteHalfFunc{
		CompressBufferCapacity: cfg.CompressBufferCapacity,
		ErrClassifier:          cfg.ErrClassifier,
		Logger:                 logger,
		TimeNow:                cfg.TimeNow,
	}
}

// WriteHalfFunc wraps a [net.Conn] into a [*WriteHalf].
//
// All fields are safe to modify after construction but before first use.
// Fields must not be mutated concurrently with calls to [Call].
type WriteHalfFunc struct {
	// CompressBufferCapacity is the initial capacity of the compression buffer.
	//
	// Set by [NewWriteHalfFunc] from [Config.CompressBufferCapacity].
	CompressBufferCapacity int

	// ErrClassifier classifies errors for structured logging.
	//
	// Set by [NewWriteHalfFunc] from [Config.ErrClassifier].
	ErrClassifier ErrClassifier

	// Logger is the [SLogger] to use (configurable for testing or custom logging).
	//
	// Set by [NewWriteHalfFunc] to the user-provided logger.
	Logger SLogger

	// TimeNow is the function to get the current time (configurable for testing).
	//
	// Set by [NewWriteHalfFunc] from [Config.TimeNow].
	TimeNow func() time.Time
}

var _ Func[net.Conn, *WriteHalf] = &WriteHalfFunc{}

// Call wraps the conn into a [*WriteHalf] that owns it.
func (op *WriteHalfFunc) Call(ctx context.Context, conn net.Conn) (*WriteHalf, error) {
	return &WriteHalf{
		ConnID:        NewConnID(),
		ErrClassifier: op.ErrClassifier,
		Logger:        op.Logger,
		TimeNow:       op.TimeNow,
		conn:          conn,
		packer:        packing.NewPackerWithCapacity(op.CompressBufferCapacity),
	}, nil
}

// NewWriteHalf wraps conn into a [*WriteHalf] in the plain state with
// compression disabled.
func NewWriteHalf(conn net.Conn, cfg *Config, logger SLogger) *WriteHalf {
	wh, _ := NewWriteHalfFunc(cfg, logger).Call(context.Background(), conn)
	return wh
}

// WriteHalf is the sending side of a connection.
//
// Each [*WriteHalf.Write] packs a payload into a frame, compressing it
// when configured, encrypts the frame once encryption is enabled, and
// hands the result to the conn with a single write. Frames reach the
// conn in call order.
//
// A WriteHalf is not safe for concurrent use: callers must serialize
// all method calls. The exported fields may be modified before first use.
type WriteHalf struct {
	// ConnID identifies the connection in log events.
	ConnID string

	// ErrClassifier classifies errors for structured logging.
	ErrClassifier ErrClassifier

	// Logger is the SLogger to use.
	Logger SLogger

	// TimeNow is the function to get the current time.
	TimeNow func() time.Time

	compression *packing.Compression
	conn        net.Conn
	frame       []byte
	packer      *packing.Packer
	poisoned    error
	stream      cipher.Stream
}

// Conn returns the underlying [net.Conn].
func (w *WriteHalf) Conn() net.Conn {
	return w.conn
}

// Close closes the underlying [net.Conn].
func (w *WriteHalf) Close() error {
	return w.conn.Close()
}

// Compression returns the current compression settings, nil when disabled.
func (w *WriteHalf) Compression() *packing.Compression {
	return w.compression
}

// Encrypted returns whether encryption is enabled.
func (w *WriteHalf) Encrypted() bool {
	return w.stream != nil
}

// Err returns the error that poisoned the write half, or nil.
func (w *WriteHalf) Err() error {
	return w.poisoned
}

// SetCompression replaces the compression settings. A nil value disables
// compression. The change applies from the next [*WriteHalf.Write].
func (w *WriteHalf) SetCompression(c *packing.Compression) {
	w.compression = c
	w.Logger.Info(
		"compressionChanged",
		slog.String("compression", c.String()),
		slog.String("connID", w.ConnID),
		slog.String("localAddr", safeconn.LocalAddr(w.conn)),
		slog.String("protocol", safeconn.Network(w.conn)),
		slog.String("remoteAddr", safeconn.RemoteAddr(w.conn)),
		slog.Time("t", w.TimeNow()),
	)
}

// EnableEncryption encrypts every following frame with stream.
//
// Encryption cannot be disabled or replaced once enabled: a second call
// returns [ErrEncryptionEnabled] and leaves the current stream in place.
func (w *WriteHalf) EnableEncryption(stream cipher.Stream) error {
	runtimex.Assert(stream != nil)
	if w.stream != nil {
		return ErrEncryptionEnabled
	}
	w.stream = stream
	w.Logger.Info(
		"encryptionEnabled",
		slog.String("connID", w.ConnID),
		slog.String("localAddr", safeconn.LocalAddr(w.conn)),
		slog.String("protocol", safeconn.Network(w.conn)),
		slog.String("remoteAddr", safeconn.RemoteAddr(w.conn)),
		slog.Time("t", w.TimeNow()),
	)
	return nil
}

// EnableEncryptionAES is like [*WriteHalf.EnableEncryption] with the
// AES/CFB8 stream keyed by the 16-byte shared secret.
func (w *WriteHalf) EnableEncryptionAES(secret []byte) error {
	if w.stream != nil {
		return ErrEncryptionEnabled
	}
	stream, err := cfb8.NewAESEncrypter(secret)
	if err != nil {
		return err
	}
	return w.EnableEncryption(stream)
}

// pastDeadline is a write deadline that has always expired.
var pastDeadline = time.Unix(1, 0)

// Write packs payload into a frame and writes it to the conn.
//
// When ctx is done before Write starts, nothing is written and the
// context error is returned. When ctx is done while the frame is being
// written, the write is interrupted. A failed or interrupted write
// poisons the write half: the peer may have seen part of a frame and the
// cipher has already advanced past it, so every following call returns
// an error wrapping [ErrPoisoned] and the original cause.
func (w *WriteHalf) Write(ctx context.Context, payload []byte) error {
	if w.poisoned != nil {
		return w.poisoned
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// 1. build the frame reusing the previous frame storage
	frame, err := w.packer.AppendFrame(w.frame[:0], payload, w.compression)
	if err != nil {
		return err
	}
	w.frame = frame

	// 2. encrypt in place
	if w.stream != nil {
		w.stream.XORKeyStream(frame, frame)
	}

	// 3. interrupt the write when the context is done
	fired := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		defer close(fired)
		w.conn.SetWriteDeadline(pastDeadline)
	})

	// 4. write the whole frame at once
	t0 := w.TimeNow()
	deadline, _ := ctx.Deadline()
	w.logPacketWriteStart(t0, deadline, len(payload), len(frame))
	count, err := w.conn.Write(frame)
	if err == nil && count < len(frame) {
		err = io.ErrShortWrite
	}
	if !stop() {
		<-fired
		if err != nil {
			err = ctx.Err()
		} else {
			w.conn.SetWriteDeadline(time.Time{})
		}
	}
	w.logPacketWriteDone(t0, deadline, len(payload), count, err)

	// 5. a failed write leaves the stream unusable
	if err != nil {
		w.poisoned = fmt.Errorf("%w: %w", ErrPoisoned, err)
		return w.poisoned
	}
	return nil
}

func (w *WriteHalf) logPacketWriteStart(t0, deadline time.Time, payloadSize, frameSize int) {
	w.Logger.Debug(
		"packetWriteStart",
		slog.String("compression", w.compression.String()),
		slog.String("connID", w.ConnID),
		slog.Time("deadline", deadline),
		slog.Bool("encrypted", w.stream != nil),
		slog.Int("frameSize", frameSize),
		slog.String("localAddr", safeconn.LocalAddr(w.conn)),
		slog.Int("payloadSize", payloadSize),
		slog.String("protocol", safeconn.Network(w.conn)),
		slog.String("remoteAddr", safeconn.RemoteAddr(w.conn)),
		slog.Time("t", t0),
	)
}

func (w *WriteHalf) logPacketWriteDone(t0, deadline time.Time, payloadSize, count int, err error) {
	w.Logger.Debug(
		"packetWriteDone",
		slog.String("connID", w.ConnID),
		slog.Time("deadline", deadline),
		slog.Any("err", err),
		slog.String("errClass", w.ErrClassifier.Classify(err)),
		slog.Int("ioBytesCount", count),
		slog.String("localAddr", safeconn.LocalAddr(w.conn)),
		slog.Int("payloadSize", payloadSize),
		slog.String("protocol", safeconn.Network(w.conn)),
		slog.String("remoteAddr", safeconn.RemoteAddr(w.conn)),
		slog.Time("t0", t0),
		slog.Time("t", w.TimeNow()),
	)
}
