package mcpquic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// The wire format is a 4-byte preamble ("MCP1") sent by the client right
// after opening the stream, followed by newline-delimited JSON-RPC messages
// in both directions. The preamble rejects clients that negotiated the MCP
// ALPN but speak something else on the stream.

// WritePreamble sends the protocol preamble. The client calls this once,
// before the first JSON-RPC message.
func WritePreamble(w io.Writer) error {
	if _, err := w.Write([]byte(MagicBytesMCP)); err != nil {
		return fmt.Errorf("write preamble: %w", err)
	}
	return nil
}

// ReadPreamble consumes and checks the protocol preamble.
func ReadPreamble(r io.Reader) error {
	buf := make([]byte, len(MagicBytesMCP))
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("read preamble: %w", err)
	}
	if !bytes.Equal(buf, []byte(MagicBytesMCP)) {
		return fmt.Errorf("%w: got %q", ErrInvalidMagicBytes, string(buf))
	}
	return nil
}

// readMessage returns the next newline-delimited message without the
// trailing newline. Messages longer than MaxMessageSize abort with
// ErrMessageTooLarge instead of buffering without bound.
func readMessage(br *bufio.Reader) ([]byte, error) {
	var msg []byte
	for {
		chunk, err := br.ReadSlice('\n')
		msg = append(msg, chunk...)
		if len(msg) > MaxMessageSize {
			return nil, ErrMessageTooLarge
		}
		if err == nil {
			return msg[:len(msg)-1], nil
		}
		if err != bufio.ErrBufferFull {
			return nil, err
		}
	}
}
