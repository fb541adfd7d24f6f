package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inklusif-kerja/gesturecli/commands"
	"github.com/inklusif-kerja/gesturecli/gestures"
)

// Call carries what a transport offers to a method beyond its params.
// HTTP requests leave both hooks nil; websocket connections set them so
// sessions can push detections and be closed with the connection.
type Call struct {
	Notify           gestures.Notifier
	OnSessionCreated func(sessionID string)
}

// HandlerFunc is the signature for JSON-RPC method handlers
type HandlerFunc func(call *Call, params json.RawMessage) (interface{}, error)

// GetMethodRegistry returns a map of method names to handler functions
// This is used by both the HTTP server and the websocket handler
func GetMethodRegistry() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"gesture.classify":       handleClassify,
		"gesture.session.create": handleSessionCreate,
		"gesture.session.close":  handleSessionClose,
		"gesture.start":          pointerHandler(gestures.PhaseStart),
		"gesture.move":           pointerHandler(gestures.PhaseMove),
		"gesture.end":            pointerHandler(gestures.PhaseEnd),
		"gesture.cancel":         pointerHandler(gestures.PhaseCancel),
		"gesture.pointer":        pointerHandler(""),
		"gesture.events":         handleEvents,
		"gesture.actions":        handleActions,
		"server.info":            handleServerInfo,
		"server.shutdown":        handleServerShutdown,
	}
}

// Execute dispatches a method call using the registry
func Execute(call *Call, method string, params json.RawMessage) (interface{}, error) {
	handler, exists := GetMethodRegistry()[method]
	if !exists {
		return nil, newRPCError(ErrCodeMethodNotFound, errTitleMethodNotFound, fmt.Sprintf("Method '%s' not found", method))
	}

	if call == nil {
		call = &Call{}
	}

	return handler(call, params)
}

// rpcError is an error that maps to a specific JSON-RPC error object
type rpcError struct {
	code    int
	message string
	data    string
}

func (e *rpcError) Error() string {
	return e.data
}

func newRPCError(code int, message, data string) error {
	return &rpcError{code: code, message: message, data: data}
}

func invalidParams(format string, args ...interface{}) error {
	return newRPCError(ErrCodeInvalidParams, errTitleInvalidParams, fmt.Sprintf(format, args...))
}

// errorObject picks the JSON-RPC code, title and data for a handler error
func errorObject(err error) (int, string, string) {
	var re *rpcError
	if errors.As(err, &re) {
		return re.code, re.message, re.data
	}

	if errors.Is(err, gestures.ErrSessionNotFound) {
		return ErrCodeInvalidParams, errTitleInvalidParams, err.Error()
	}

	return ErrCodeServerError, errTitleServerError, err.Error()
}

// resultOf converts a command response into handler return values
func resultOf(response *commands.CommandResponse) (interface{}, error) {
	if response.Status == "error" {
		if err := response.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s", response.Error)
	}
	return response.Data, nil
}
