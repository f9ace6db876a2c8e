// SPDX-License-Identifier: GPL-3.0-or-later

package mcwire

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/bassosimone/netstub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewConnectFunc populates all fields from Config and the provided logger.
func TestNewConnectFunc(t *testing.T) {
	cfg := NewConfig()
	logger := DefaultSLogger()

	fn := NewConnectFunc(cfg, logger)

	require.NotNil(t, fn)
	assert.NotNil(t, fn.Dialer)
	assert.NotNil(t, fn.Logger)
	assert.NotNil(t, fn.TimeNow)
	assert.NotNil(t, fn.ErrClassifier)
}

// Call dials the address and returns a net.Conn or an error.
func TestConnectFunc(t *testing.T) {
	tests := []struct {
		// name describes what this test case verifies.
		name string

		// dialErr is the error returned by the mock dialer.
		dialErr error

		// address is the target address.
		address netip.AddrPort
	}{
		{
			name:    "successful connect",
			dialErr: nil,
			address: netip.MustParseAddrPort("93.184.216.34:25565"),
		},

		{
			name:    "dial error",
			dialErr: errors.New("connection refused"),
			address: netip.MustParseAddrPort("93.184.216.34:25565"),
		},

		{
			name:    "IPv6 endpoint",
			dialErr: nil,
			address: netip.MustParseAddrPort("[2001:db8::1]:25565"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotNetwork, gotAddress string
			cfg := NewConfig()
			cfg.Dialer = &netstub.FuncDialer{
				DialContextFunc: func(ctx context.Context, network, address string) (net.Conn, error) {
					gotNetwork, gotAddress = network, address
					if tt.dialErr != nil {
						return nil, tt.dialErr
					}
					conn := newMinimalConn()
					conn.CloseFunc = func() error { return nil }
					return conn, nil
				},
			}

			fn := NewConnectFunc(cfg, DefaultSLogger())
			conn, err := fn.Call(context.Background(), tt.address)

			assert.Equal(t, "tcp", gotNetwork)
			assert.Equal(t, tt.address.String(), gotAddress)
			if tt.dialErr != nil {
				require.ErrorIs(t, err, tt.dialErr)
				assert.Nil(t, conn)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, conn)
			conn.Close()
		})
	}
}

// Call propagates the caller's context deadline to the dialer.
func TestConnectFuncCallerContextDeadline(t *testing.T) {
	cfg := NewConfig()
	dialCalled := false
	expectedTimeout := 5 * time.Second
	cfg.Dialer = &netstub.FuncDialer{
		DialContextFunc: func(ctx context.Context, network, address string) (net.Conn, error) {
			dialCalled = true
			deadline, ok := ctx.Deadline()
			assert.True(t, ok, "context should have deadline from caller")
			assert.True(t, time.Until(deadline) <= expectedTimeout)
			return nil, errors.New("expected error")
		},
	}

	fn := NewConnectFunc(cfg, DefaultSLogger())

	ctx, cancel := context.WithTimeout(context.Background(), expectedTimeout)
	defer cancel()

	_, _ = fn.Call(ctx, netip.MustParseAddrPort("93.184.216.34:25565"))

	assert.True(t, dialCalled)
}

// Call emits serverConnectStart/serverConnectDone log events.
func TestConnectFuncLogging(t *testing.T) {
	logger, records := newCapturingLogger()

	cfg := NewConfig()
	cfg.Dialer = &netstub.FuncDialer{
		DialContextFunc: func(ctx context.Context, network, address string) (net.Conn, error) {
			conn := newMinimalConn()
			conn.CloseFunc = func() error { return nil }
			return conn, nil
		},
	}

	fn := NewConnectFunc(cfg, logger)
	conn, err := fn.Call(context.Background(), netip.MustParseAddrPort("93.184.216.34:25565"))
	require.NoError(t, err)
	conn.Close()

	require.Len(t, *records, 2)
	assert.Equal(t, "serverConnectStart", (*records)[0].Message)
	assert.Equal(t, "serverConnectDone", (*records)[1].Message)

	attrs := map[string]slog.Value{}
	(*records)[1].Attrs(func(attr slog.Attr) bool {
		attrs[attr.Key] = attr.Value
		return true
	})
	assert.Equal(t, "93.184.216.34", attrs["serverAddr"].String())
	assert.Equal(t, int64(25565), attrs["serverPort"].Int64())
}

// Call rejects endpoints without address or port and unmaps IPv4-mapped addresses.
func TestConnectFuncEndpoints(t *testing.T) {
	tests := []struct {
		// name describes what this test case verifies.
		name string

		// server is the endpoint to connect to.
		server netip.AddrPort

		// wantDial is the expected dial address, empty when no dial happens.
		wantDial string

		// wantErr is the expected error, if any.
		wantErr error
	}{
		{
			name:    "zero endpoint",
			server:  netip.AddrPort{},
			wantErr: ErrNoAddress,
		},

		{
			name:    "port zero",
			server:  netip.MustParseAddrPort("192.0.2.1:0"),
			wantErr: ErrNoAddress,
		},

		{
			name:     "IPv4-mapped IPv6 endpoint",
			server:   netip.MustParseAddrPort("[::ffff:192.0.2.1]:25565"),
			wantDial: "192.0.2.1:25565",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotDial string
			cfg := NewConfig()
			cfg.Dialer = &netstub.FuncDialer{
				DialContextFunc: func(ctx context.Context, network, address string) (net.Conn, error) {
					gotDial = address
					conn := newMinimalConn()
					conn.CloseFunc = func() error { return nil }
					return conn, nil
				},
			}

			fn := NewConnectFunc(cfg, DefaultSLogger())
			conn, err := fn.Call(context.Background(), tt.server)

			assert.Equal(t, tt.wantDial, gotDial)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, conn)
				return
			}
			require.NoError(t, err)
			conn.Close()
		})
	}
}
