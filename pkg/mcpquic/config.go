package mcpquic

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"time"

	"github.com/quic-go/quic-go"
)

const (
	// ALPNProtocolMCP is the ALPN token for MCP-over-QUIC connections.
	ALPNProtocolMCP = "tagsmith-mcp-v1"
	// MagicBytesMCP is the stream preamble the client sends first.
	MagicBytesMCP = "MCP1"
	// MaxMessageSize bounds a single JSON-RPC message on the stream.
	MaxMessageSize = 10 * 1024 * 1024

	DefaultHandshakeTimeout = 10 * time.Second
	DefaultIdleTimeout      = 5 * time.Minute
	DefaultKeepAlive        = 30 * time.Second
)

func ProductionQUICConfig() *quic.Config {
	return &quic.Config{
		MaxStreamReceiveWindow:     10 * 1024 * 1024,
		MaxConnectionReceiveWindow: 50 * 1024 * 1024,
		MaxIdleTimeout:             DefaultIdleTimeout,
		KeepAlivePeriod:            DefaultKeepAlive,
		Allow0RTT:                  false,
		EnableDatagrams:            false,
	}
}

func baseTLSConfig() *tls.Config {
	return &tls.Config{
		NextProtos: []string{ALPNProtocolMCP},
		MinVersion: tls.VersionTLS13,
	}
}

// ServerTLSConfig loads a certificate pair for a standalone MCP listener.
func ServerTLSConfig(certFile, keyFile string) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, err
	}
	cfg := baseTLSConfig()
	cfg.Certificates = []tls.Certificate{cert}
	return cfg, nil
}

// SelfSignedTLSConfig generates a throwaway localhost certificate for
// development listeners.
func SelfSignedTLSConfig() (*tls.Config, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, err
	}

	serial, _ := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	template := x509.Certificate{
		SerialNumber: serial,
		Subject:      pkix.Name{Organization: []string{"Tagsmith Dev"}},
		NotBefore:    time.Now(),
		NotAfter:     time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		DNSNames:     []string{"localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1"), net.ParseIP("::1")},
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}

	cfg := baseTLSConfig()
	cfg.Certificates = []tls.Certificate{{
		Certificate: [][]byte{certDER},
		PrivateKey:  key,
	}}
	return cfg, nil
}

// ClientTLSConfig builds the dial-side TLS config. insecure skips
// certificate verification for dev servers with self-signed certs.
func ClientTLSConfig(insecure bool) *tls.Config {
	cfg := baseTLSConfig()
	cfg.InsecureSkipVerify = insecure
	return cfg
}
