// Package mcpquic carries MCP JSON-RPC over a single bidirectional QUIC
// stream. Connections negotiate the dedicated ALPN, send a short preamble,
// then exchange newline-delimited messages.
package mcpquic

import (
	"bufio"
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hazyhaar/tagsmith/pkg/kit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/quic-go/quic-go"
)

// Handler serves MCP sessions on QUIC connections it is handed. It owns no
// listener; the chassis demuxes a shared UDP socket by ALPN and passes
// matching connections here. Listener below wraps it for standalone use.
type Handler struct {
	mcp    *server.MCPServer
	logger *slog.Logger
}

func NewHandler(mcpSrv *server.MCPServer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{mcp: mcpSrv, logger: logger}
}

// ServeConn runs one connection to completion: accept the stream, check the
// preamble, then serve JSON-RPC until the peer goes away.
func (h *Handler) ServeConn(ctx context.Context, conn *quic.Conn) {
	remote := conn.RemoteAddr().String()

	stream, err := conn.AcceptStream(ctx)
	if err != nil {
		h.logger.Error("mcp stream accept failed", "remote", remote, "error", err)
		conn.CloseWithError(ConnErrorProtocolViolation, "stream accept failed")
		return
	}

	if err := ReadPreamble(stream); err != nil {
		h.logger.Warn("mcp preamble rejected", "remote", remote, "error", err)
		stream.CancelWrite(StreamErrorProtocolConfusion)
		stream.CancelRead(StreamErrorProtocolConfusion)
		conn.CloseWithError(ConnErrorProtocolViolation, "bad preamble")
		return
	}

	sess := newSession("mcpq-"+randomHex(4), stream)
	h.logger.Info("mcp session started", "session", sess.id, "remote", remote)
	defer h.logger.Info("mcp session ended", "session", sess.id, "remote", remote)

	if err := h.mcp.RegisterSession(ctx, sess); err != nil {
		h.logger.Error("mcp session register failed", "session", sess.id, "error", err)
		stream.Close()
		return
	}
	defer h.mcp.UnregisterSession(ctx, sess.id)

	ctx = kit.WithTransport(ctx, "mcp_quic")
	ctx = h.mcp.WithContext(ctx, sess)

	go sess.pumpNotifications(ctx)

	h.serveStream(ctx, sess, stream, conn)
}

func (h *Handler) serveStream(ctx context.Context, sess *session, stream *quic.Stream, conn *quic.Conn) {
	br := bufio.NewReader(stream)
	for {
		msg, err := readMessage(br)
		if err != nil {
			if errors.Is(err, ErrMessageTooLarge) {
				h.logger.Warn("mcp message over size limit", "session", sess.id)
				stream.CancelRead(StreamErrorMessageTooLarge)
				conn.CloseWithError(ConnErrorProtocolViolation, "message too large")
			} else if err != io.EOF && ctx.Err() == nil {
				h.logger.Error("mcp read failed", "session", sess.id, "error", err)
			}
			return
		}
		if len(msg) == 0 {
			continue
		}

		resp := h.mcp.HandleMessage(ctx, json.RawMessage(msg))
		if resp == nil {
			continue
		}
		if err := sess.writeMessage(resp); err != nil {
			h.logger.Error("mcp write failed", "session", sess.id, "error", err)
			return
		}
	}
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Listener runs a standalone MCP-over-QUIC endpoint on its own UDP socket,
// for deployments that don't use the chassis.
type Listener struct {
	ln      *quic.Listener
	handler *Handler
	logger  *slog.Logger
}

func NewListener(addr string, tlsCfg *tls.Config, mcpSrv *server.MCPServer, logger *slog.Logger) (*Listener, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ln, err := quic.ListenAddr(addr, tlsCfg, ProductionQUICConfig())
	if err != nil {
		return nil, err
	}
	logger.Info("mcp quic listener ready", "addr", addr)
	return &Listener{ln: ln, handler: NewHandler(mcpSrv, logger), logger: logger}, nil
}

func (l *Listener) Serve(ctx context.Context) error {
	for {
		conn, err := l.ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			l.logger.Error("quic accept failed", "error", err)
			continue
		}
		if alpn := conn.ConnectionState().TLS.NegotiatedProtocol; alpn != ALPNProtocolMCP {
			conn.CloseWithError(ConnErrorUnsupportedALPN, "unsupported ALPN: "+alpn)
			continue
		}
		go l.handler.ServeConn(ctx, conn)
	}
}

func (l *Listener) Close() error { return l.ln.Close() }

// session implements server.ClientSession over one QUIC stream. Responses
// and server-initiated notifications share the stream, so all writes go
// through writeMessage under one lock to keep messages whole.
type session struct {
	id            string
	notifications chan mcp.JSONRPCNotification
	initialized   atomic.Bool

	writeMu sync.Mutex
	writer  io.Writer
}

func newSession(id string, w io.Writer) *session {
	return &session{
		id:            id,
		notifications: make(chan mcp.JSONRPCNotification, 100),
		writer:        w,
	}
}

func (s *session) SessionID() string                                   { return s.id }
func (s *session) NotificationChannel() chan<- mcp.JSONRPCNotification { return s.notifications }
func (s *session) Initialize()                                         { s.initialized.Store(true) }
func (s *session) Initialized() bool                                   { return s.initialized.Load() }

func (s *session) writeMessage(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err = s.writer.Write(data)
	return err
}

func (s *session) pumpNotifications(ctx context.Context) {
	for {
		select {
		case notif := <-s.notifications:
			_ = s.writeMessage(notif)
		case <-ctx.Done():
			return
		}
	}
}
