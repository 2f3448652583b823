// Package mcptool exposes the URL parser as Model Context Protocol tools
// served over stdio.
package mcptool

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jongio/parseurl/logutil"
	"github.com/jongio/parseurl/metrics"
	"github.com/jongio/parseurl/pgfunc"
	"github.com/jongio/parseurl/urlparse"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/time/rate"
)

// Tool names.
const (
	ToolParseURL    = "parse_url"
	ToolParseURLKey = "parse_url_key"
	ToolEncodeURL   = "encode_url"
	ToolListKeys    = "list_url_keys"
)

// ErrRateLimited is returned in a tool result when the caller exceeds the
// configured call rate.
var ErrRateLimited = errors.New("rate limit exceeded")

// Server holds the tool handlers.
type Server struct {
	binding *pgfunc.Binding
	limiter *rate.Limiter
	log     *logutil.ComponentLogger
	version string
}

// New creates a Server. A non-positive limit disables rate limiting.
func New(binding *pgfunc.Binding, limit float64, burst int, version string) *Server {
	l := rate.NewLimiter(rate.Inf, 0)
	if limit > 0 {
		if burst < 1 {
			burst = 1
		}
		l = rate.NewLimiter(rate.Limit(limit), burst)
	}
	return &Server{
		binding: binding,
		limiter: l,
		log:     logutil.NewLogger("mcp"),
		version: version,
	}
}

// MCPServer builds the protocol server with every tool registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("parseurl", s.version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	srv.AddTool(mcp.NewTool(ToolParseURL,
		mcp.WithDescription("Split a URL into scheme, user, pass, host, port, path, query and fragment. Absent components are null."),
		mcp.WithString("url", mcp.Required(), mcp.Description("URL to parse")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handle(ToolParseURL, s.parseURL))

	srv.AddTool(mcp.NewTool(ToolParseURLKey,
		mcp.WithDescription("Return a single component of a URL, or null when it is absent."),
		mcp.WithString("url", mcp.Required(), mcp.Description("URL to parse")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Component name"), mcp.Enum(urlparse.Keys()...)),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handle(ToolParseURLKey, s.parseURLKey))

	srv.AddTool(mcp.NewTool(ToolEncodeURL,
		mcp.WithDescription("Encode a URL into its packed binary form (hex) and return the canonical rendering."),
		mcp.WithString("url", mcp.Required(), mcp.Description("URL to encode")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handle(ToolEncodeURL, s.encodeURL))

	srv.AddTool(mcp.NewTool(ToolListKeys,
		mcp.WithDescription("List the component names accepted by parse_url_key."),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handle(ToolListKeys, s.listKeys))

	return srv
}

// ServeStdio serves the tools on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	s.log.Info("serving MCP over stdio", "version", s.version)
	return server.ServeStdio(s.MCPServer())
}

type toolFunc func(args map[string]interface{}) (interface{}, error)

// handle wraps fn with rate limiting, metrics and error reporting. Tool
// failures are returned as error results, never as protocol errors.
func (s *Server) handle(name string, fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !s.limiter.Allow() {
			metrics.RecordToolCall(name, ErrRateLimited)
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v, try again later", name, ErrRateLimited)), nil
		}

		result, err := fn(argsMap(request))
		metrics.RecordToolCall(name, err)
		if err != nil {
			s.log.WithOperation(name).Debug("tool call failed", "error", err)
			return mcp.NewToolResultError(errorText(err)), nil
		}
		return marshalResult(result), nil
	}
}

func (s *Server) parseURL(args map[string]interface{}) (interface{}, error) {
	raw, err := requireString(args, "url")
	if err != nil {
		return nil, err
	}
	return s.binding.ParseURLRecord(&raw)
}

type keyResult struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

func (s *Server) parseURLKey(args map[string]interface{}) (interface{}, error) {
	raw, err := requireString(args, "url")
	if err != nil {
		return nil, err
	}
	key, err := requireString(args, "key")
	if err != nil {
		return nil, err
	}
	v, err := s.binding.ParseURLKey(&raw, &key)
	if err != nil {
		return nil, err
	}
	return keyResult{Key: key, Value: v}, nil
}

type encodeResult struct {
	Packed    string `json:"packed"`
	Size      int    `json:"size"`
	Canonical string `json:"canonical"`
}

func (s *Server) encodeURL(args map[string]interface{}) (interface{}, error) {
	raw, err := requireString(args, "url")
	if err != nil {
		return nil, err
	}
	d, err := s.binding.URLIn(raw)
	if err != nil {
		return nil, err
	}
	bin, err := s.binding.URLSend(d)
	if err != nil {
		return nil, err
	}
	canonical, err := s.binding.URLOut(d)
	if err != nil {
		return nil, err
	}
	return encodeResult{Packed: hex.EncodeToString(bin), Size: d.Size(), Canonical: canonical}, nil
}

func (s *Server) listKeys(map[string]interface{}) (interface{}, error) {
	return map[string][]string{"keys": urlparse.Keys()}, nil
}

// argsMap extracts the arguments map from a tool call request. It returns an
// empty map if arguments are nil or not a map.
func argsMap(request mcp.CallToolRequest) map[string]interface{} {
	if request.Params.Arguments != nil {
		if m, ok := request.Params.Arguments.(map[string]interface{}); ok {
			return m
		}
	}
	return map[string]interface{}{}
}

func requireString(args map[string]interface{}, key string) (string, error) {
	val, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	s, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", key)
	}
	return s, nil
}

func marshalResult(data interface{}) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("failed to marshal result: " + err.Error())
	}
	return mcp.NewToolResultText(string(b))
}

// errorText renders database-style errors with their SQLSTATE and detail.
func errorText(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err.Error()
	}
	msg := pgErr.Code + ": " + pgErr.Message
	if pgErr.Detail != "" {
		msg += " (" + pgErr.Detail + ")"
	}
	if pgErr.Hint != "" {
		msg += ". " + pgErr.Hint
	}
	return msg
}
