package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/inklusif-kerja/gesturecli/commands"
	"github.com/inklusif-kerja/gesturecli/config"
	"github.com/inklusif-kerja/gesturecli/gestures"
	"github.com/inklusif-kerja/gesturecli/utils"
	"golang.org/x/sync/errgroup"
)

const (
	// Parse error: Invalid JSON was received by the server
	ErrCodeParseError = -32700

	// Invalid Request: The JSON sent is not a valid Request object
	ErrCodeInvalidRequest = -32600

	// Method not found: The method does not exist / is not available
	ErrCodeMethodNotFound = -32601

	// Server error: Internal JSON-RPC error
	ErrCodeServerError = -32000

	// Invalid params: Invalid method parameters
	ErrCodeInvalidParams = -32602

	// Internal error: Internal JSON-RPC error
	ErrCodeInternalError = -32603
)

const (
	errTitleParseError     = "Parse error"
	errTitleInvalidReq     = "Invalid Request"
	errTitleMethodNotFound = "Method not found"
	errTitleInvalidParams  = "Invalid params"
	errTitleServerError    = "Server error"

	errMsgParseError     = "expecting jsonrpc payload"
	errMsgInvalidJSONRPC = "'jsonrpc' must be '2.0'"
	errMsgIDRequired     = "'id' field is required"
	errMsgMethodRequired = "'method' is required"
)

// Server timeouts
const (
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 10 * time.Second
	IdleTimeout     = 120 * time.Second
	ShutdownTimeout = 5 * time.Second
)

// Version is reported by server.info
var Version = "dev"

var okResponse = map[string]interface{}{"status": "ok"}

// shutdownRequests is signalled by the server.shutdown method
var shutdownRequests = make(chan struct{}, 1)

type JSONRPCRequest struct {
	// these fields are all omitempty, so we can report back to client if they are missing
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC response
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// JSONRPCNotification is a server-initiated message without an id
type JSONRPCNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// GestureNotification is pushed as "gesture.detected" over websocket
type GestureNotification struct {
	SessionID string `json:"sessionId"`
	commands.DetectedGesture
}

// corsMiddleware handles CORS preflight requests and adds CORS headers to responses.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewHandler builds the HTTP handler serving "/", "/rpc" and "/ws"
func NewHandler(enableCORS bool) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", sendBanner)
	mux.HandleFunc("/rpc", handleJSONRPC)
	mux.Handle("/ws", NewWebSocketHandler(enableCORS))

	if enableCORS {
		return corsMiddleware(mux)
	}
	return mux
}

// StartServer serves until ctx is cancelled, server.shutdown is called or
// the listener fails. Sessions are disposed on the way out.
func StartServer(ctx context.Context, cfg config.Config) error {
	addr, err := utils.NormalizeListenAddr(cfg.Server.Listen)
	if err != nil {
		return err
	}

	if !utils.IsAddrAvailable(addr) {
		return fmt.Errorf("cannot listen on %s: address already in use", addr)
	}

	drainShutdownRequests()

	registry := commands.GetRegistry()
	if registry == nil {
		registry, err = gestures.NewRegistry(cfg.Server.MaxSessions, cfg.Classifier())
		if err != nil {
			return err
		}
		commands.SetRegistry(registry)
	}
	defer registry.CleanupAll()

	server := &http.Server{
		Addr:         addr,
		Handler:      NewHandler(cfg.Server.CORS),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		utils.Info("Starting server on http://%s...", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-shutdownRequests:
			utils.Info("Shutdown requested")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// drainShutdownRequests drops a server.shutdown received while no server was
// running, so it cannot stop the next one
func drainShutdownRequests() {
	for {
		select {
		case <-shutdownRequests:
			utils.Verbose("Discarding stale shutdown request")
		default:
			return
		}
	}
}

func handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONRPCError(w, nil, ErrCodeParseError, errTitleParseError, errMsgParseError)
		return
	}

	if req.JSONRPC != "2.0" {
		sendJSONRPCError(w, req.ID, ErrCodeInvalidRequest, errTitleInvalidReq, errMsgInvalidJSONRPC)
		return
	}

	if req.ID == nil {
		sendJSONRPCError(w, nil, ErrCodeInvalidRequest, errTitleInvalidReq, errMsgIDRequired)
		return
	}

	if req.Method == "" {
		sendJSONRPCError(w, req.ID, ErrCodeInvalidRequest, errTitleInvalidReq, errMsgMethodRequired)
		return
	}

	utils.Verbose("Request ID: %v, Method: %s, Params: %s", req.ID, req.Method, string(req.Params))

	result, err := Execute(nil, req.Method, req.Params)
	if err != nil {
		utils.Verbose("Error executing method %s: %v", req.Method, err)
		code, title, data := errorObject(err)
		sendJSONRPCError(w, req.ID, code, title, data)
		return
	}

	sendJSONRPCResponse(w, req.ID, result)
}

func sendJSONRPCResponse(w http.ResponseWriter, id interface{}, result interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendJSONRPCError(w http.ResponseWriter, id interface{}, code int, message string, data interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error: map[string]interface{}{
			"code":    code,
			"message": message,
			"data":    data,
		},
		ID: id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(okResponse)
}

// decodeParams unmarshals params, reporting problems as invalid params
func decodeParams(params json.RawMessage, v interface{}, fields string) error {
	if len(params) == 0 {
		return invalidParams("'params' is required with fields: %s", fields)
	}

	if err := json.Unmarshal(params, v); err != nil {
		return invalidParams("invalid parameters: %v. Expected fields: %s", err, fields)
	}
	return nil
}

type SessionParams struct {
	SessionID string `json:"sessionId"`
}

type ClassifyParams struct {
	Start gestures.PointerSample `json:"start"`
	End   gestures.PointerSample `json:"end"`
	// Gesture holds threshold overrides, merged over the configured values
	Gesture json.RawMessage `json:"gesture,omitempty"`
}

type ActionsParams struct {
	Language string `json:"language,omitempty"`
}

func handleClassify(call *Call, params json.RawMessage) (interface{}, error) {
	var classifyParams ClassifyParams
	if err := decodeParams(params, &classifyParams, "start, end"); err != nil {
		return nil, err
	}

	// start and end must both be present
	var rawParams map[string]json.RawMessage
	if err := json.Unmarshal(params, &rawParams); err != nil {
		return nil, invalidParams("invalid parameters format")
	}
	for _, field := range []string{"start", "end"} {
		if _, exists := rawParams[field]; !exists {
			return nil, invalidParams("'%s' is required", field)
		}
	}

	req := commands.ClassifyRequest{
		Start: classifyParams.Start,
		End:   classifyParams.End,
	}

	if len(classifyParams.Gesture) > 0 {
		overrides := commands.GetConfig().Gesture
		if err := json.Unmarshal(classifyParams.Gesture, &overrides); err != nil {
			return nil, invalidParams("invalid gesture overrides: %v", err)
		}
		req.Gesture = &overrides
	}

	return resultOf(commands.ClassifyCommand(req))
}

func handleSessionCreate(call *Call, params json.RawMessage) (interface{}, error) {
	result, err := resultOf(commands.SessionCreateCommand(call.Notify))
	if err != nil {
		return nil, err
	}

	if created, ok := result.(commands.SessionCreateResponse); ok && call.OnSessionCreated != nil {
		call.OnSessionCreated(created.SessionID)
	}

	return result, nil
}

func handleSessionClose(call *Call, params json.RawMessage) (interface{}, error) {
	var sessionParams SessionParams
	if err := decodeParams(params, &sessionParams, "sessionId"); err != nil {
		return nil, err
	}

	if sessionParams.SessionID == "" {
		return nil, invalidParams("'sessionId' is required")
	}

	if _, err := resultOf(commands.SessionCloseCommand(sessionParams.SessionID)); err != nil {
		return nil, err
	}

	return okResponse, nil
}

// pointerHandler builds the handler for one pointer phase. An empty phase
// takes it from the params, for gesture.pointer.
func pointerHandler(phase gestures.Phase) HandlerFunc {
	return func(call *Call, params json.RawMessage) (interface{}, error) {
		var pointerParams PointerParams
		if err := decodeParams(params, &pointerParams, "sessionId, x, y, timestampMs or event"); err != nil {
			return nil, err
		}

		if pointerParams.SessionID == "" {
			return nil, invalidParams("'sessionId' is required")
		}

		resolved, sample, err := pointerParams.resolve(phase)
		if err != nil {
			return nil, invalidParams("%v", err)
		}

		return resultOf(commands.PointerCommand(commands.PointerRequest{
			SessionID: pointerParams.SessionID,
			Phase:     resolved,
			Sample:    sample,
		}))
	}
}

func handleEvents(call *Call, params json.RawMessage) (interface{}, error) {
	var sessionParams SessionParams
	if err := decodeParams(params, &sessionParams, "sessionId"); err != nil {
		return nil, err
	}

	if sessionParams.SessionID == "" {
		return nil, invalidParams("'sessionId' is required")
	}

	return resultOf(commands.EventsCommand(sessionParams.SessionID))
}

func handleActions(call *Call, params json.RawMessage) (interface{}, error) {
	var actionsParams ActionsParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &actionsParams); err != nil {
			return nil, invalidParams("invalid parameters: %v. Expected fields: language", err)
		}
	}

	response := commands.ActionsCommand(actionsParams.Language)
	if response.Status == "error" {
		return nil, invalidParams("%s", response.Error)
	}
	return response.Data, nil
}

func handleServerInfo(call *Call, params json.RawMessage) (interface{}, error) {
	return resultOf(commands.InfoCommand(Version))
}

func handleServerShutdown(call *Call, params json.RawMessage) (interface{}, error) {
	select {
	case shutdownRequests <- struct{}{}:
	default:
		// already requested
	}
	return okResponse, nil
}
