package main

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nickyhof/FlatDB"
	"github.com/nickyhof/FlatDB/core"
	"github.com/nickyhof/FlatDB/db"
	"github.com/nickyhof/FlatDB/logger"
)

// DefaultIdentity is used for writes when authentication is disabled and no
// identity is configured.
var DefaultIdentity = core.Identity{
	Name:  "FlatDB Server",
	Email: "server@flatdb.local",
}

// Server is a TCP SQL server that exposes the FlatDB engine. Statements run
// one at a time across all connections.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	httpAddr   string
	instance   *FlatDB.Instance
	identity   core.Identity
	authConfig *AuthConfig
	tlsEnabled bool
	mu         sync.Mutex
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewServer creates a new SQL server with the given FlatDB instance.
func NewServer(instance *FlatDB.Instance, identity core.Identity) *Server {
	return &Server{
		instance: instance,
		identity: identity,
		done:     make(chan struct{}),
	}
}

// NewServerWithAuth creates a server that requires every connection to
// authenticate with a JWT before running statements.
func NewServerWithAuth(instance *FlatDB.Instance, authConfig *AuthConfig) *Server {
	server := NewServer(instance, DefaultIdentity)
	server.authConfig = authConfig
	return server
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener

	logger.Info("SQL server listening", "addr", listener.Addr().String(), "auth", s.authEnabled())

	go s.acceptLoop()
	return nil
}

// StartTLS is Start with TLS using the given certificate and key files.
func (s *Server) StartTLS(addr, certFile, keyFile string) error {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	listener, err := tls.Listen("tcp", addr, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("failed to start TLS server: %w", err)
	}
	s.listener = listener
	s.tlsEnabled = true

	logger.Info("SQL server listening", "addr", listener.Addr().String(), "tls", true, "auth", s.authEnabled())

	go s.acceptLoop()
	return nil
}

// StartHTTP serves the HTTP API on addr.
func (s *Server) StartHTTP(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	s.httpAddr = listener.Addr().String()
	s.httpServer = &http.Server{
		Handler:           NewHTTPHandler(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("HTTP server listening", "addr", s.httpAddr)

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
	s.wg.Wait()
	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// HTTPAddr returns the HTTP API's listening address.
func (s *Server) HTTPAddr() string {
	return s.httpAddr
}

// TLSEnabled reports whether the TCP listener uses TLS.
func (s *Server) TLSEnabled() bool {
	return s.tlsEnabled
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				logger.Warn("accept error", "error", err)
				continue
			}
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	state := &ConnectionState{id: uuid.New().String()}
	ctx := context.WithValue(context.Background(), logger.ConnectionIDKey, state.id)

	logger.InfoContext(ctx, "client connected", "remote", conn.RemoteAddr().String())
	defer logger.InfoContext(ctx, "client disconnected", "remote", conn.RemoteAddr().String())

	reader := bufio.NewReader(conn)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		// One statement per line
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				logger.WarnContext(ctx, "read error", "error", err)
			}
			return
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}

		if strings.EqualFold(query, "quit") || strings.EqualFold(query, "exit") {
			return
		}

		var response Response
		if isAuthCommand(query) {
			response = s.handleAuth(query, state)
			if response.Success {
				logger.InfoContext(ctx, "client authenticated", "identity", state.identity.String())
			}
		} else {
			response = s.handleLine(ctx, state, query)
		}

		data, err := EncodeResponse(response)
		if err != nil {
			logger.ErrorContext(ctx, "failed to encode response", "error", err)
			continue
		}

		if _, err := conn.Write(data); err != nil {
			logger.WarnContext(ctx, "write error", "error", err)
			return
		}
	}
}

// handleLine runs one request line. A line starting with '{' is a JSON
// Request; anything else is the statement text itself.
func (s *Server) handleLine(ctx context.Context, state *ConnectionState, line string) Response {
	identity, err := s.connectionIdentity(state)
	if err != nil {
		return errorResponse("", err)
	}

	query := line
	if strings.HasPrefix(line, "{") {
		req, err := DecodeRequest([]byte(line))
		if err != nil {
			return errorResponse("", fmt.Errorf("invalid request: %w", err))
		}
		query = req.Query
	}

	ctx = context.WithValue(ctx, logger.UserKey, identity.String())
	return s.executeQuery(ctx, identity, query)
}

func (s *Server) executeQuery(ctx context.Context, identity core.Identity, query string) Response {
	result, err := s.execute(ctx, identity, query)
	if err != nil {
		return errorResponse("", err)
	}
	return resultResponse(result)
}

func (s *Server) execute(ctx context.Context, identity core.Identity, query string) (db.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.instance.Engine(identity).ExecuteContext(ctx, query)
	if err != nil {
		logger.DebugContext(ctx, "statement failed", "error", err)
		return nil, err
	}
	return result, nil
}
