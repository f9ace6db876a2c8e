// SPDX-License-Identifier: GPL-3.0-or-later

package mcwire_test

import (
	"context"
	"fmt"
	"log"
	"net"

	"github.com/bassosimone/mcwire"
	"github.com/bassosimone/mcwire/packing"
	"github.com/bassosimone/mcwire/protocol"
)

type handshake struct {
	ProtocolVersion int32 `mc:"varint"`
	Address         string
	Port            uint16
	NextState       int32 `mc:"varint"`
}

// This example writes a handshake packet and then the same packet with
// compression enabled, printing the frames seen by the peer.
func ExampleWriteHalf() {
	client, server := net.Pipe()
	defer server.Close()

	wh := mcwire.NewWriteHalf(client, mcwire.NewConfig(), mcwire.DefaultSLogger())
	defer wh.Close()

	payload, err := protocol.EncodePacket(0x00, handshake{
		ProtocolVersion: 763,
		Address:         "localhost",
		Port:            25565,
		NextState:       2,
	})
	if err != nil {
		log.Fatal(err)
	}

	frames := make(chan []byte)
	go func() {
		for {
			buffer := make([]byte, 128)
			count, err := server.Read(buffer)
			if err != nil {
				close(frames)
				return
			}
			frames <- buffer[:count]
		}
	}()

	if err := wh.Write(context.Background(), payload); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("% x\n", <-frames)

	wh.SetCompression(packing.CompressionFromThreshold(256))
	if err := wh.Write(context.Background(), payload); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("% x\n", <-frames)

	// Output:
	// 10 00 fb 05 09 6c 6f 63 61 6c 68 6f 73 74 63 dd 02
	// 11 00 00 fb 05 09 6c 6f 63 61 6c 68 6f 73 74 63 dd 02
}
