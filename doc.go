// SPDX-License-Identifier: GPL-3.0-or-later

// Package mcwire implements the client transport of the Minecraft Java
// Edition protocol.
//
// # Core Abstraction
//
// Connection setup is built around a single interface:
//
//	type Func[A, B any] interface {
//		Call(ctx context.Context, input A) (B, error)
//	}
//
// Each Func has exactly one success mode and one failure mode. [Compose2],
// [Compose3] and [Compose4] chain them, with the compiler checking that
// outputs match inputs across stages:
//
//	cfg := mcwire.NewConfig()
//	pipeline := mcwire.Compose3(
//		mcwire.NewResolveServerFunc(cfg, logger),
//		mcwire.NewConnectFunc(cfg, logger),
//		mcwire.NewWriteHalfFunc(cfg, logger),
//	)
//	wh, err := pipeline.Call(ctx, "play.example.com")
//
// # Available Primitives
//
//   - [ResolveServerFunc]: maps "host[:port]" to an endpoint using the
//     "_minecraft._tcp" SRV record and the A record of the target
//   - [ConnectFunc]: dials TCP endpoints
//   - [WriteHalfFunc]: wraps a connection into a [*WriteHalf]
//
// # Write Half
//
// A [*WriteHalf] turns packet payloads (see [protocol.EncodePacket]) into
// frames (see package packing), optionally encrypted with AES/CFB8 (see
// package cfb8), and writes each frame with a single write. Compression
// can change at any time. Encryption is enabled at most once. A failed or
// interrupted write poisons the write half, because the peer may have
// received part of a frame and the cipher state has moved past it.
//
// # Subpackages
//
//   - nbt: the Named Binary Tag codec
//   - protocol: VarInt and field codecs, struct schemas, packet registry
//   - packing: frame layouts and zlib compression
//   - cfb8: the CFB8 stream cipher mode
//   - errclass: error labels for log events
//
// # Observability
//
// Operations emit structured log events through an [SLogger], which is
// compatible with [*slog.Logger]. Lifecycle events use Info and per-packet
// events use Debug. Errors carry an errClass field computed by the
// configured [ErrClassifier]. The default logger discards all events.
package mcwire
