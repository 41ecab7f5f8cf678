package ipc

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"
)

const dialTimeout = 2 * time.Second

// Send connects to the daemon socket, issues one request, and returns the
// response. The write side is half-closed after the request so the server
// sees EOF and replies.
func Send(path string, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon at %s: %w (is wallshiftd running?)", path, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(connTimeout))

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if uc, ok := conn.(*net.UnixConn); ok {
		if err := uc.CloseWrite(); err != nil {
			return nil, fmt.Errorf("half-close connection: %w", err)
		}
	}

	raw, err := io.ReadAll(conn)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Status == StatusError {
		return &resp, fmt.Errorf("daemon: %s", resp.Message)
	}
	return &resp, nil
}
