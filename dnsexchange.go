// SPDX-License-Identifier: GPL-3.0-or-later

package mcwire

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/miekg/dns"
)

// dnsExchangeLogContext performs a DNS exchange over a conn and emits
// the related log events.
type dnsExchangeLogContext struct {
	// ErrClassifier classifies errors for structured logging.
	ErrClassifier ErrClassifier

	// LocalAddr is the local address of the connection.
	LocalAddr string

	// Logger is the SLogger to use.
	Logger SLogger

	// Protocol is the network protocol (e.g., "udp").
	Protocol string

	// RemoteAddr is the remote address of the connection.
	RemoteAddr string

	// TimeNow is the function to get the current time.
	TimeNow func() time.Time
}

// exchange sends query over conn and returns the response carrying
// the same ID. The context bounds the whole exchange.
func (lc *dnsExchangeLogContext) exchange(ctx context.Context, conn net.Conn, query *dns.Msg) (*dns.Msg, error) {
	t0 := lc.TimeNow()
	deadline, _ := ctx.Deadline()
	lc.logStart(t0, deadline, query)
	resp, err := lc.roundTrip(ctx, conn, t0, query)
	lc.logDone(t0, deadline, query, err)
	return resp, err
}

func (lc *dnsExchangeLogContext) roundTrip(
	ctx context.Context, conn net.Conn, t0 time.Time, query *dns.Msg) (*dns.Msg, error) {
	rawQuery, err := query.Pack()
	if err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() {
		conn.SetDeadline(pastDeadline)
	})
	defer stop()

	lc.logQuery(t0, rawQuery)
	if _, err := conn.Write(rawQuery); err != nil {
		return nil, lc.contextErr(ctx, err)
	}

	buffer := make([]byte, dns.DefaultMsgSize)
	count, err := conn.Read(buffer)
	if err != nil {
		return nil, lc.contextErr(ctx, err)
	}
	rawResp := buffer[:count]
	lc.logResponse(t0, rawQuery, rawResp)

	resp := &dns.Msg{}
	if err := resp.Unpack(rawResp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDNSResponse, err)
	}
	if !resp.Response || resp.Id != query.Id {
		return nil, fmt.Errorf("%w: unexpected message id %d", ErrDNSResponse, resp.Id)
	}
	return resp, nil
}

// contextErr prefers the context error to the I/O error it caused.
func (lc *dnsExchangeLogContext) contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func (lc *dnsExchangeLogContext) logStart(t0, deadline time.Time, query *dns.Msg) {
	lc.Logger.Info(
		"dnsExchangeStart",
		slog.Time("deadline", deadline),
		slog.String("dnsQueryName", query.Question[0].Name),
		slog.String("dnsQueryType", dns.TypeToString[query.Question[0].Qtype]),
		slog.String("localAddr", lc.LocalAddr),
		slog.String("protocol", lc.Protocol),
		slog.String("remoteAddr", lc.RemoteAddr),
		slog.Time("t", t0),
	)
}

func (lc *dnsExchangeLogContext) logDone(t0, deadline time.Time, query *dns.Msg, err error) {
	lc.Logger.Info(
		"dnsExchangeDone",
		slog.Time("deadline", deadline),
		slog.String("dnsQueryName", query.Question[0].Name),
		slog.String("dnsQueryType", dns.TypeToString[query.Question[0].Qtype]),
		slog.Any("err", err),
		slog.String("errClass", lc.ErrClassifier.Classify(err)),
		slog.String("localAddr", lc.LocalAddr),
		slog.String("protocol", lc.Protocol),
		slog.String("remoteAddr", lc.RemoteAddr),
		slog.Time("t0", t0),
		slog.Time("t", lc.TimeNow()),
	)
}

func (lc *dnsExchangeLogContext) logQuery(t0 time.Time, rawQuery []byte) {
	lc.Logger.Info(
		"dnsQuery",
		slog.Any("dnsRawQuery", rawQuery),
		slog.String("localAddr", lc.LocalAddr),
		slog.String("protocol", lc.Protocol),
		slog.String("remoteAddr", lc.RemoteAddr),
		slog.Time("t", t0),
	)
}

func (lc *dnsExchangeLogContext) logResponse(t0 time.Time, rawQuery, rawResp []byte) {
	lc.Logger.Info(
		"dnsResponse",
		slog.Any("dnsRawQuery", rawQuery),
		slog.Any("dnsRawResponse", rawResp),
		slog.String("localAddr", lc.LocalAddr),
		slog.String("protocol", lc.Protocol),
		slog.String("remoteAddr", lc.RemoteAddr),
		slog.Time("t0", t0),
		slog.Time("t", lc.TimeNow()),
	)
}
