package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/leengari/minidb/internal/engine"
	"github.com/leengari/minidb/internal/executor"
)

// Request is one newline delimited JSON statement from a client
type Request struct {
	Query string `json:"query"`
}

// Response carries either a result or an error message
type Response struct {
	*executor.Result
	Error string `json:"error,omitempty"`
}

// Server serves a single shared engine to many TCP clients
type Server struct {
	eng    *engine.Engine
	logger *slog.Logger
}

// NewServer creates a server; a nil logger uses slog.Default()
func NewServer(eng *engine.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{eng: eng, logger: logger}
}

// ListenAndServe binds addr and serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}
	s.logger.Info("Running on", "addr", listener.Addr().String())
	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener until ctx is cancelled, then
// closes the listener and every open connection and waits for their
// handlers to return.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		return listener.Close()
	})

	g.Go(func() error {
		for {
			conn, err := listener.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("failed to accept connection: %w", err)
			}
			g.Go(func() error {
				stop := context.AfterFunc(ctx, func() { conn.Close() })
				defer stop()
				s.handleConnection(conn)
				return nil
			})
		}
	})

	err := g.Wait()
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	s.logger.Debug("client connected", "remote", remote)
	defer s.logger.Debug("client disconnected", "remote", remote)

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	for {
		var req Request
		if err := decoder.Decode(&req); err != nil {
			if err == io.EOF || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Error("decode error", "remote", remote, "error", err)

			// Send error back to client
			_ = encoder.Encode(Response{Error: fmt.Sprintf("Invalid request format: %v", err)})
			return
		}

		if req.Query == "exit" || req.Query == "\\q" {
			return
		}

		var resp Response
		result, err := s.eng.Execute(req.Query)
		if err != nil {
			resp.Error = err.Error()
		} else {
			resp.Result = result
		}

		if err := encoder.Encode(resp); err != nil {
			s.logger.Error("encode error", "remote", remote, "error", err)
			return
		}
	}
}
