package gestures

import "fmt"

// Kind identifies a classified gesture. KindNone means the interaction
// produced no gesture, which is a valid outcome and not an error.
type Kind string

const (
	KindNone       Kind = ""
	KindFlickRight Kind = "flick-right"
	KindFlickLeft  Kind = "flick-left"
	KindDoubleTap  Kind = "double-tap"
	KindLongPress  Kind = "long-press"
	KindSwipeUp    Kind = "swipe-up"
	KindSwipeDown  Kind = "swipe-down"
)

// AllKinds lists every gesture the classifier can report
var AllKinds = []Kind{
	KindFlickRight,
	KindFlickLeft,
	KindDoubleTap,
	KindLongPress,
	KindSwipeUp,
	KindSwipeDown,
}

// PointerSample is a normalized pointer position. Callers convert touch,
// mouse or pointer events into samples before handing them to a Classifier.
type PointerSample struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	TimestampMs int64   `json:"timestampMs"`
}

// Phase is the stage of an interaction a sample belongs to
type Phase string

const (
	PhaseStart  Phase = "start"
	PhaseMove   Phase = "move"
	PhaseEnd    Phase = "end"
	PhaseCancel Phase = "cancel"
)

// ParsePhase validates a phase name
func ParsePhase(s string) (Phase, error) {
	switch p := Phase(s); p {
	case PhaseStart, PhaseMove, PhaseEnd, PhaseCancel:
		return p, nil
	}
	return "", fmt.Errorf("unknown phase '%s', expected one of: start, move, end, cancel", s)
}

// Event is a sample tagged with its phase, as found in recorded traces
type Event struct {
	Phase Phase `json:"phase"`
	PointerSample
}

// Detection records a gesture reported by a classifier together with the
// sample that completed it. For long-presses the sample is the start sample
// shifted by the long-press delay.
type Detection struct {
	Gesture     Kind    `json:"gesture"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	TimestampMs int64   `json:"timestampMs"`
}
