package commands

import (
	"fmt"
	"sync"

	"github.com/inklusif-kerja/gesturecli/config"
	"github.com/inklusif-kerja/gesturecli/gestures"
)

// CommandResponse represents a standardized response format for all commands
type CommandResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`

	err error
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) *CommandResponse {
	return &CommandResponse{
		Status: "ok",
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(err error) *CommandResponse {
	return &CommandResponse{
		Status: "error",
		Error:  err.Error(),
		err:    err,
	}
}

// Err returns the error behind an error response, or nil
func (r *CommandResponse) Err() error {
	return r.err
}

var (
	stateMu sync.RWMutex

	// settings is the effective configuration, set once at startup
	settings = config.Default()

	// sessionRegistry holds the gesture sessions opened by server clients.
	// It is set by the server before it starts accepting requests and is
	// cleaned up on graceful shutdown (SIGINT/SIGTERM).
	sessionRegistry *gestures.Registry
)

// SetConfig sets the effective configuration used by all commands
func SetConfig(cfg config.Config) {
	stateMu.Lock()
	defer stateMu.Unlock()
	settings = cfg
}

// GetConfig returns the effective configuration
func GetConfig() config.Config {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return settings
}

// SetRegistry sets the global session registry
func SetRegistry(registry *gestures.Registry) {
	stateMu.Lock()
	defer stateMu.Unlock()
	sessionRegistry = registry
}

// GetRegistry returns the current session registry.
// Returns nil if SetRegistry has not been called yet.
func GetRegistry() *gestures.Registry {
	stateMu.RLock()
	defer stateMu.RUnlock()
	return sessionRegistry
}

func requireRegistry() (*gestures.Registry, error) {
	registry := GetRegistry()
	if registry == nil {
		return nil, fmt.Errorf("session registry is not initialized")
	}
	return registry, nil
}
