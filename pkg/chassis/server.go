// Package chassis runs the tagsmith server on one port over two sockets:
// a TCP listener for HTTP/1.1 and HTTP/2, and a UDP listener for QUIC.
// QUIC connections are demuxed by negotiated ALPN: "h3" goes to the HTTP/3
// server sharing the REST handler, "tagsmith-mcp-v1" goes to the
// MCP-over-QUIC handler. HTTP responses carry an Alt-Svc header so capable
// clients discover the HTTP/3 endpoint on their own.
//
// Without configured certificate files a self-signed localhost certificate
// is generated at startup.
package chassis

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/hazyhaar/tagsmith/pkg/mcpquic"
	"github.com/mark3labs/mcp-go/server"
	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
)

// QUIC application error codes for connections the demux refuses.
const (
	connErrMCPDisabled     quic.ApplicationErrorCode = 0x10
	connErrUnsupportedALPN quic.ApplicationErrorCode = 0x11
)

// Config configures the chassis.
type Config struct {
	Addr      string            // listen address, same port for TCP and UDP
	TLS       *tls.Config       // nil: built from CertFile/KeyFile or self-signed
	CertFile  string            // certificate path for production deployments
	KeyFile   string            // key path for production deployments
	Handler   http.Handler      // REST handler, served on HTTP/1.1, 2 and 3
	MCPServer *server.MCPServer // nil disables the MCP ALPN
	Logger    *slog.Logger
}

// Server couples the three protocol servers behind one Start/Stop pair.
type Server struct {
	addr        string
	logger      *slog.Logger
	tlsCfg      *tls.Config
	httpHandler http.Handler
	mcpHandler  *mcpquic.Handler
	h3Server    *http3.Server
	tcpServer   *http.Server
	quicLn      *quic.Listener
	mu          sync.Mutex
}

func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	tlsCfg := cfg.TLS
	if tlsCfg == nil {
		var err error
		if cfg.CertFile != "" && cfg.KeyFile != "" {
			tlsCfg, err = ProductionTLSConfig(cfg.CertFile, cfg.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("load TLS cert: %w", err)
			}
			cfg.Logger.Info("tls configured from cert files")
		} else {
			tlsCfg, err = DevelopmentTLSConfig()
			if err != nil {
				return nil, fmt.Errorf("generate dev TLS: %w", err)
			}
			cfg.Logger.Info("tls using generated self-signed cert")
		}
	}

	s := &Server{
		addr:        cfg.Addr,
		logger:      cfg.Logger,
		tlsCfg:      tlsCfg,
		httpHandler: cfg.Handler,
	}
	if cfg.MCPServer != nil {
		s.mcpHandler = mcpquic.NewHandler(cfg.MCPServer, cfg.Logger)
	}
	return s, nil
}

// Start brings up both listeners and blocks until ctx is cancelled or a
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()

	handler := securityHeaders(altSvc(s.addr, s.httpHandler))

	tcpTLS := s.tlsCfg.Clone()
	tcpTLS.NextProtos = []string{"h2", "http/1.1"}
	s.tcpServer = &http.Server{
		Addr:      s.addr,
		Handler:   handler,
		TLSConfig: tcpTLS,
	}

	qCfg := mcpquic.ProductionQUICConfig()
	ln, err := quic.ListenAddr(s.addr, s.tlsCfg, qCfg)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("QUIC listen: %w", err)
	}
	s.quicLn = ln
	s.h3Server = &http3.Server{Handler: handler}

	s.mu.Unlock()

	s.logger.Info("server listening",
		"addr", s.addr,
		"tcp", "http/1.1 http/2",
		"udp", "h3 "+mcpquic.ALPNProtocolMCP,
	)

	errCh := make(chan error, 2)
	go s.serveTCP(tcpTLS, errCh)
	go s.serveQUIC(ctx, ln, errCh)

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) serveTCP(tlsCfg *tls.Config, errCh chan<- error) {
	ln, err := tls.Listen("tcp", s.addr, tlsCfg)
	if err != nil {
		errCh <- fmt.Errorf("TCP listen: %w", err)
		return
	}
	if err := s.tcpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		errCh <- fmt.Errorf("TCP serve: %w", err)
	}
}

func (s *Server) serveQUIC(ctx context.Context, ln *quic.Listener, errCh chan<- error) {
	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			errCh <- fmt.Errorf("QUIC accept: %w", err)
			return
		}
		s.dispatchQUIC(ctx, conn)
	}
}

func (s *Server) dispatchQUIC(ctx context.Context, conn *quic.Conn) {
	switch alpn := conn.ConnectionState().TLS.NegotiatedProtocol; alpn {
	case "h3":
		go func() {
			if err := s.h3Server.ServeQUICConn(conn); err != nil {
				s.logger.Debug("h3 conn done", "remote", conn.RemoteAddr(), "error", err)
			}
		}()
	case mcpquic.ALPNProtocolMCP:
		if s.mcpHandler == nil {
			conn.CloseWithError(connErrMCPDisabled, "MCP not enabled")
			return
		}
		go s.mcpHandler.ServeConn(ctx, conn)
	default:
		s.logger.Warn("unknown ALPN, closing", "alpn", alpn, "remote", conn.RemoteAddr())
		conn.CloseWithError(connErrUnsupportedALPN, "unsupported ALPN: "+alpn)
	}
}

// Stop shuts down all three servers, returning the first error seen.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("server stopping")

	var firstErr error
	if s.tcpServer != nil {
		if err := s.tcpServer.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.quicLn != nil {
		if err := s.quicLn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.h3Server != nil {
		if err := s.h3Server.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// altSvc advertises the HTTP/3 endpoint running on the same port.
func altSvc(addr string, next http.Handler) http.Handler {
	_, port, _ := net.SplitHostPort(addr)
	if port == "" {
		port = "8420"
	}
	header := fmt.Sprintf(`h3=":%s"; ma=86400`, port)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Alt-Svc", header)
		next.ServeHTTP(w, r)
	})
}
