package server

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/inklusif-kerja/gesturecli/gestures"
)

// PointerParams is accepted by the gesture.start/move/end/cancel and
// gesture.pointer methods. Either the normalized x, y and timestampMs fields
// or a raw browser event under "event" must be given.
type PointerParams struct {
	SessionID   string          `json:"sessionId"`
	Phase       string          `json:"phase,omitempty"`
	X           *float64        `json:"x,omitempty"`
	Y           *float64        `json:"y,omitempty"`
	TimestampMs *int64          `json:"timestampMs,omitempty"`
	Event       json.RawMessage `json:"event,omitempty"`
}

// browserEvent covers the fields shared by DOM touch, mouse and pointer events
type browserEvent struct {
	Type           string       `json:"type"`
	ClientX        *float64     `json:"clientX"`
	ClientY        *float64     `json:"clientY"`
	Touches        []touchPoint `json:"touches"`
	ChangedTouches []touchPoint `json:"changedTouches"`
	TimeStamp      *float64     `json:"timeStamp"`
}

type touchPoint struct {
	ClientX float64 `json:"clientX"`
	ClientY float64 `json:"clientY"`
}

var eventPhases = map[string]gestures.Phase{
	"touchstart":    gestures.PhaseStart,
	"mousedown":     gestures.PhaseStart,
	"pointerdown":   gestures.PhaseStart,
	"touchmove":     gestures.PhaseMove,
	"mousemove":     gestures.PhaseMove,
	"pointermove":   gestures.PhaseMove,
	"touchend":      gestures.PhaseEnd,
	"mouseup":       gestures.PhaseEnd,
	"pointerup":     gestures.PhaseEnd,
	"touchcancel":   gestures.PhaseCancel,
	"pointercancel": gestures.PhaseCancel,
}

// resolve works out the phase and sample described by the params. fixed is
// the phase implied by the method name, empty for gesture.pointer.
func (p PointerParams) resolve(fixed gestures.Phase) (gestures.Phase, gestures.PointerSample, error) {
	if len(p.Event) > 0 {
		phase, sample, err := normalizeEvent(p.Event)
		if err != nil {
			return "", gestures.PointerSample{}, err
		}
		if fixed != "" && phase != fixed {
			return "", gestures.PointerSample{}, fmt.Errorf("event is a %s event, expected %s", phase, fixed)
		}
		return phase, sample, nil
	}

	phase := fixed
	if phase == "" {
		parsed, err := gestures.ParsePhase(p.Phase)
		if err != nil {
			return "", gestures.PointerSample{}, err
		}
		phase = parsed
	}

	// cancel carries no position
	if phase == gestures.PhaseCancel {
		return phase, gestures.PointerSample{}, nil
	}

	var missing []string
	if p.X == nil {
		missing = append(missing, "x")
	}
	if p.Y == nil {
		missing = append(missing, "y")
	}
	if p.TimestampMs == nil {
		missing = append(missing, "timestampMs")
	}
	if len(missing) > 0 {
		return "", gestures.PointerSample{}, fmt.Errorf("'%s' is required", strings.Join(missing, "', '"))
	}

	return phase, gestures.PointerSample{X: *p.X, Y: *p.Y, TimestampMs: *p.TimestampMs}, nil
}

// normalizeEvent converts a serialized DOM event into a phase and sample.
// Touch events read the first active touch, falling back to the changed
// touches since touchend has no active ones left.
func normalizeEvent(raw json.RawMessage) (gestures.Phase, gestures.PointerSample, error) {
	var ev browserEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return "", gestures.PointerSample{}, fmt.Errorf("invalid event: %v", err)
	}

	phase, ok := eventPhases[strings.ToLower(ev.Type)]
	if !ok {
		return "", gestures.PointerSample{}, fmt.Errorf("unsupported event type '%s'", ev.Type)
	}

	if ev.TimeStamp == nil {
		return "", gestures.PointerSample{}, fmt.Errorf("event 'timeStamp' is required")
	}

	sample := gestures.PointerSample{TimestampMs: int64(math.Round(*ev.TimeStamp))}

	switch {
	case len(ev.Touches) > 0:
		sample.X, sample.Y = ev.Touches[0].ClientX, ev.Touches[0].ClientY
	case len(ev.ChangedTouches) > 0:
		sample.X, sample.Y = ev.ChangedTouches[0].ClientX, ev.ChangedTouches[0].ClientY
	case ev.ClientX != nil && ev.ClientY != nil:
		sample.X, sample.Y = *ev.ClientX, *ev.ClientY
	case phase == gestures.PhaseCancel:
		// position is irrelevant
	default:
		return "", gestures.PointerSample{}, fmt.Errorf("event '%s' has no coordinates", ev.Type)
	}

	return phase, sample, nil
}
