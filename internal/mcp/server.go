package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Server represents an MCP server that accepts TCP connections and speaks
// line delimited JSON requests.
type Server struct {
	address string
	port    int
	handler *ToolsResourcesHandler
	mu      sync.RWMutex
	running bool
	ln      net.Listener
	conns   map[net.Conn]struct{}
	wg      sync.WaitGroup
}

// MCPRequest represents a request received via MCP protocol
type MCPRequest struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents a response sent via MCP protocol
type MCPResponse struct {
	ID     string    `json:"id"`
	Result any       `json:"result,omitempty"`
	Error  *MCPError `json:"error,omitempty"`
}

// MCPError represents an error in MCP protocol
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeBadRequest = 400
	codeNotFound   = 404
	codeInternal   = 500
)

// NewServer creates a new MCP server
func NewServer(address string, port int, handler *ToolsResourcesHandler) *Server {
	return &Server{
		address: address,
		port:    port,
		handler: handler,
		conns:   make(map[net.Conn]struct{}),
	}
}

// Start starts the MCP server
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server is already running")
	}

	addr := net.JoinHostPort(s.address, strconv.Itoa(s.port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.ln = ln
	s.running = true

	log.Info("MCP server started", "address", ln.Addr().String())

	s.wg.Add(1)
	go s.acceptConnections(ctx, ln)

	return nil
}

// Run starts the server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	if err := s.Stop(); err != nil {
		return fmt.Errorf("failed to stop MCP server: %w", err)
	}
	log.Info("MCP server stopped")
	return nil
}

// Stop closes the listener and every open connection, then waits for the
// connection goroutines to finish.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}

	s.running = false

	var err error
	if s.ln != nil {
		err = s.ln.Close()
		s.ln = nil
	}
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

// IsRunning returns true if the server is running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the address the server is listening on, or nil when stopped.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// acceptConnections accepts incoming TCP connections
func (s *Server) acceptConnections(ctx context.Context, ln net.Listener) {
	defer s.wg.Done()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if !s.IsRunning() || errors.Is(err, net.ErrClosed) {
				return
			}
			log.Warn("Error accepting connection", "err", err)
			continue
		}

		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			_ = conn.Close()
			return
		}
		s.conns[conn] = struct{}{}
		s.wg.Add(1)
		s.mu.Unlock()

		go s.handleConnection(ctx, conn)
	}
}

// handleConnection serves requests on one connection until the peer hangs up
// or the server stops.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	session := uuid.NewString()
	log.Debug("New MCP connection", "session", session, "remote", conn.RemoteAddr().String())

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	for {
		var req MCPRequest
		if err := decoder.Decode(&req); err != nil {
			log.Debug("MCP connection closed", "session", session, "err", err)
			return
		}

		log.Debug("MCP request", "session", session, "id", req.ID, "method", req.Method)
		response := s.processRequest(ctx, &req)
		if err := encoder.Encode(response); err != nil {
			log.Warn("Error encoding response", "session", session, "err", err)
			return
		}
	}
}

type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type resourceReadParams struct {
	URI string `json:"uri"`
}

// processRequest processes an MCP request
func (s *Server) processRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	response := &MCPResponse{
		ID: req.ID,
	}

	switch req.Method {
	case "tools/list":
		response.Result = map[string]any{
			"tools": s.handler.ListTools(),
		}
	case "tools/call":
		var params toolCallParams
		if err := decodeParams(req.Params, &params); err != nil {
			response.Error = &MCPError{Code: codeBadRequest, Message: err.Error()}
			break
		}

		result, err := s.handler.CallTool(ctx, &ToolCallRequest{Name: params.Name, Arguments: params.Arguments})
		if err != nil {
			response.Error = &MCPError{Code: codeInternal, Message: err.Error()}
		} else {
			response.Result = result
		}
	case "resources/list":
		response.Result = map[string]any{
			"resources": s.handler.ListResources(),
		}
	case "resources/read":
		var params resourceReadParams
		if err := decodeParams(req.Params, &params); err != nil {
			response.Error = &MCPError{Code: codeBadRequest, Message: err.Error()}
			break
		}

		result, err := s.handler.ReadResource(ctx, &ResourceReadRequest{URI: params.URI})
		if err != nil {
			code := codeInternal
			if errors.Is(err, ErrUnknownResource) {
				code = codeNotFound
			}
			response.Error = &MCPError{Code: code, Message: err.Error()}
		} else {
			response.Result = result
		}
	default:
		response.Error = &MCPError{
			Code:    codeBadRequest,
			Message: fmt.Sprintf("unknown method: %s", req.Method),
		}
	}

	return response
}

func decodeParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing params")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}
