package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"wallshift/internal/daemon"
	"wallshift/internal/logging"
)

// connTimeout bounds how long one connection may take end to end. A client
// that connects and stalls cannot pin a handler goroutine forever.
const connTimeout = 10 * time.Second

// Server answers control commands over a Unix domain socket. Each connection
// carries a single JSON request and a single JSON response.
type Server struct {
	path     string
	daemon   *daemon.Daemon
	logger   *slog.Logger
	listener net.Listener

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer binds the control socket. A stale socket file from an earlier
// run is removed first.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:     path,
		daemon:   d,
		logger:   logging.WithComponent(logger, "ipc"),
		listener: listener,
		ctx:      serverCtx,
		cancel:   cancel,
	}, nil
}

// Serve accepts connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Info("control socket listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.handle(c)
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(connTimeout))

	raw, err := io.ReadAll(conn)
	if err != nil {
		s.logger.Warn("read request failed", logging.Error(err))
		return
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		s.respond(conn, errorResponse(fmt.Errorf("malformed request: %w", err)))
		return
	}
	if err := req.Validate(); err != nil {
		s.respond(conn, errorResponse(err))
		return
	}

	s.logger.Debug("command received",
		logging.String("command", req.Command),
		logging.String("output", req.Output))
	s.respond(conn, s.dispatch(req))
}

func (s *Server) dispatch(req Request) Response {
	switch req.Command {
	case CommandNext:
		if err := s.daemon.Next(s.ctx, req.Output); err != nil {
			return errorResponse(err)
		}
		return okResponse("advanced")
	case CommandPrevious:
		if err := s.daemon.Previous(s.ctx, req.Output); err != nil {
			return errorResponse(err)
		}
		return okResponse("stepped back")
	case CommandPause:
		s.daemon.Pause()
		return okResponse("rotation paused")
	case CommandResume:
		s.daemon.Resume()
		return okResponse("rotation resumed")
	case CommandTogglePause:
		if s.daemon.TogglePause() {
			return Response{Status: StatusOK, Message: "rotation paused", Paused: true}
		}
		return Response{Status: StatusOK, Message: "rotation resumed"}
	case CommandReload:
		if err := s.daemon.Reload(s.ctx); err != nil {
			return errorResponse(err)
		}
		return okResponse("configuration reloaded")
	case CommandStatus:
		return statusResponse(s.daemon.Status())
	default:
		return errorResponse(fmt.Errorf("unknown command %q", req.Command))
	}
}

func statusResponse(report daemon.Report) Response {
	resp := Response{Status: StatusReport, Paused: report.Paused}
	for _, out := range report.Outputs {
		resp.Outputs = append(resp.Outputs, OutputStatus{
			Output:           out.Output,
			Queue:            out.Queue,
			CurrentImage:     out.CurrentImage,
			QueuePosition:    out.QueuePosition,
			QueueSize:        out.QueueSize,
			RemainingSeconds: int64(out.Remaining.Seconds()),
			Paused:           out.Paused,
		})
	}
	return resp
}

func (s *Server) respond(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("encode response failed", logging.Error(err))
		return
	}
	if _, err := conn.Write(data); err != nil {
		s.logger.Warn("write response failed", logging.Error(err))
	}
}
