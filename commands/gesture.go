package commands

import (
	"fmt"
	"os"

	"github.com/inklusif-kerja/gesturecli/actions"
	"github.com/inklusif-kerja/gesturecli/config"
	"github.com/inklusif-kerja/gesturecli/gestures"
	"github.com/inklusif-kerja/gesturecli/utils"
)

// DetectedGesture is a detection enriched with the action it triggers
type DetectedGesture struct {
	gestures.Detection
	Action *actions.Action `json:"action,omitempty"`
}

// Describe attaches the configured action to a detection
func Describe(d gestures.Detection) DetectedGesture {
	return DetectedGesture{
		Detection: d,
		Action:    actionFor(d.Gesture),
	}
}

func actionFor(kind gestures.Kind) *actions.Action {
	action, ok := actions.For(kind, GetConfig().Language())
	if !ok {
		return nil
	}
	return &action
}

// ClassifyRequest represents the parameters for a one-shot classification
type ClassifyRequest struct {
	Start gestures.PointerSample `json:"start"`
	End   gestures.PointerSample `json:"end"`
	// Gesture overrides the configured thresholds when set
	Gesture *config.GestureConfig `json:"gesture,omitempty"`
}

// ClassifyResponse holds the swipe found between two samples
type ClassifyResponse struct {
	Gesture gestures.Kind   `json:"gesture"`
	Action  *actions.Action `json:"action,omitempty"`
}

// ClassifyCommand classifies the straight line between two samples. It has
// no interaction history, so it never reports double-taps or long-presses.
func ClassifyCommand(req ClassifyRequest) *CommandResponse {
	cfg := GetConfig()
	if req.Gesture != nil {
		cfg.Gesture = *req.Gesture
	}

	thresholds := cfg.Classifier()
	if err := thresholds.Validate(); err != nil {
		return NewErrorResponse(fmt.Errorf("invalid gesture thresholds: %w", err))
	}

	kind := gestures.Classify(req.Start, req.End, thresholds)
	utils.Verbose("Classified (%v,%v)->(%v,%v) as '%s'", req.Start.X, req.Start.Y, req.End.X, req.End.Y, kind)

	return NewSuccessResponse(ClassifyResponse{
		Gesture: kind,
		Action:  actionFor(kind),
	})
}

// SessionCreateResponse carries the id of a newly opened session
type SessionCreateResponse struct {
	SessionID string `json:"sessionId"`
}

// SessionCreateCommand opens a gesture session. notify, when not nil,
// receives every detection as it happens, including long-presses fired by
// the timer.
func SessionCreateCommand(notify gestures.Notifier) *CommandResponse {
	registry, err := requireRegistry()
	if err != nil {
		return NewErrorResponse(err)
	}

	session := registry.Create(notify)
	return NewSuccessResponse(SessionCreateResponse{SessionID: session.ID})
}

// PointerRequest represents one normalized pointer event for a session
type PointerRequest struct {
	SessionID string                 `json:"sessionId"`
	Phase     gestures.Phase         `json:"phase"`
	Sample    gestures.PointerSample `json:"sample"`
}

// PointerResponse reports the gesture completed by an end event, if any
type PointerResponse struct {
	SessionID string          `json:"sessionId"`
	Phase     gestures.Phase  `json:"phase"`
	Gesture   gestures.Kind   `json:"gesture"`
	Action    *actions.Action `json:"action,omitempty"`
}

// PointerCommand feeds one pointer event into a session
func PointerCommand(req PointerRequest) *CommandResponse {
	registry, err := requireRegistry()
	if err != nil {
		return NewErrorResponse(err)
	}

	session, err := registry.Get(req.SessionID)
	if err != nil {
		return NewErrorResponse(err)
	}

	kind, err := session.Apply(req.Phase, req.Sample)
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(PointerResponse{
		SessionID: session.ID,
		Phase:     req.Phase,
		Gesture:   kind,
		Action:    actionFor(kind),
	})
}

// EventsResponse lists detections buffered since the last poll
type EventsResponse struct {
	SessionID  string            `json:"sessionId"`
	Detections []DetectedGesture `json:"detections"`
}

// EventsCommand drains the detections buffered for a session. Clients that
// cannot receive pushed notifications poll this to learn about long-presses.
func EventsCommand(sessionID string) *CommandResponse {
	registry, err := requireRegistry()
	if err != nil {
		return NewErrorResponse(err)
	}

	session, err := registry.Get(sessionID)
	if err != nil {
		return NewErrorResponse(err)
	}

	detections := []DetectedGesture{}
	for _, d := range session.Drain() {
		detections = append(detections, Describe(d))
	}

	return NewSuccessResponse(EventsResponse{
		SessionID:  session.ID,
		Detections: detections,
	})
}

// SessionCloseCommand disposes a session
func SessionCloseCommand(sessionID string) *CommandResponse {
	registry, err := requireRegistry()
	if err != nil {
		return NewErrorResponse(err)
	}

	if err := registry.Close(sessionID); err != nil {
		return NewErrorResponse(err)
	}

	return NewSuccessResponse(map[string]interface{}{
		"message": fmt.Sprintf("Closed session %s", sessionID),
	})
}

// ActionsCommand lists the gesture bindings in the requested language, or
// in the configured one when language is empty
func ActionsCommand(language string) *CommandResponse {
	lang := GetConfig().Language()
	if language != "" {
		parsed, err := actions.ParseLanguage(language)
		if err != nil {
			return NewErrorResponse(err)
		}
		lang = parsed
	}

	return NewSuccessResponse(actions.All(lang))
}

// ReplayRequest represents the parameters for replaying a recorded trace
type ReplayRequest struct {
	Path string `json:"path"`
}

// ReplayResponse lists the gestures found in a trace
type ReplayResponse struct {
	Events     int               `json:"events"`
	Detections []DetectedGesture `json:"detections"`
}

// ReplayCommand classifies a trace file of JSON events, one per line
func ReplayCommand(req ReplayRequest) *CommandResponse {
	if req.Path == "" {
		return NewErrorResponse(fmt.Errorf("trace path is required"))
	}

	file, err := os.Open(req.Path)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("failed to open trace: %w", err))
	}
	defer file.Close()

	events, err := gestures.ReadTrace(file)
	if err != nil {
		return NewErrorResponse(fmt.Errorf("failed to read trace %s: %w", req.Path, err))
	}

	found, err := gestures.Replay(events, GetConfig().Classifier())
	if err != nil {
		return NewErrorResponse(fmt.Errorf("failed to replay trace %s: %w", req.Path, err))
	}

	detections := []DetectedGesture{}
	for _, d := range found {
		detections = append(detections, Describe(d))
	}

	return NewSuccessResponse(ReplayResponse{
		Events:     len(events),
		Detections: detections,
	})
}

// InfoResponse describes a running server
type InfoResponse struct {
	Version  string        `json:"version"`
	Sessions int           `json:"sessions"`
	Config   config.Config `json:"config"`
}

// InfoCommand reports the effective configuration and open session count
func InfoCommand(version string) *CommandResponse {
	sessions := 0
	if registry := GetRegistry(); registry != nil {
		sessions = registry.Len()
	}

	return NewSuccessResponse(InfoResponse{
		Version:  version,
		Sessions: sessions,
		Config:   GetConfig(),
	})
}
