package docker

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/pkg/stdcopy"
)

// StreamResponse builds a HijackedResponse carrying stdout and stderr in Docker's
// multiplexed stream format. Writes to the connection are collected in Written.
func StreamResponse(stdout, stderr string) (types.HijackedResponse, *StreamConn) {
	var data bytes.Buffer

	writeFrame(&data, stdcopy.Stdout, stdout)
	writeFrame(&data, stdcopy.Stderr, stderr)

	conn := &StreamConn{}

	return types.HijackedResponse{
		Reader: bufio.NewReader(&data),
		Conn:   conn,
	}, conn
}

func writeFrame(buf *bytes.Buffer, stream stdcopy.StdType, payload string) {
	if payload == "" {
		return
	}

	// [0] stream type, [1-3] reserved, [4-7] big-endian payload size.
	header := make([]byte, 8)
	header[0] = byte(stream)
	binary.BigEndian.PutUint32(header[4:], uint32(len(payload))) //nolint:gosec // test payloads are small

	buf.Write(header)
	buf.WriteString(payload)
}

// StreamConn is a net.Conn that records writes and reports EOF on reads.
type StreamConn struct {
	Written     bytes.Buffer
	WriteClosed bool
	Closed      bool
}

func (c *StreamConn) Read(_ []byte) (int, error)         { return 0, io.EOF }
func (c *StreamConn) Write(b []byte) (int, error)        { return c.Written.Write(b) }
func (c *StreamConn) Close() error                       { c.Closed = true; return nil }
func (c *StreamConn) CloseWrite() error                  { c.WriteClosed = true; return nil }
func (c *StreamConn) LocalAddr() net.Addr                { return nil }
func (c *StreamConn) RemoteAddr() net.Addr               { return nil }
func (c *StreamConn) SetDeadline(_ time.Time) error      { return nil }
func (c *StreamConn) SetReadDeadline(_ time.Time) error  { return nil }
func (c *StreamConn) SetWriteDeadline(_ time.Time) error { return nil }
