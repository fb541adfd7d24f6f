package gestures

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTrace = `
{"phase":"start","x":0,"y":0,"timestampMs":1000}
{"phase":"move","x":50,"y":0,"timestampMs":1050}
{"phase":"end","x":120,"y":0,"timestampMs":1100}

{"phase":"start","x":10,"y":10,"timestampMs":3000}
{"phase":"end","x":10,"y":10,"timestampMs":3600}
{"phase":"start","x":0,"y":0,"timestampMs":5000}
{"phase":"end","x":0,"y":-90,"timestampMs":5100}
`

func TestReadTrace(t *testing.T) {
	events, err := ReadTrace(strings.NewReader(sampleTrace))
	require.NoError(t, err)
	require.Len(t, events, 7)

	assert.Equal(t, Event{Phase: PhaseStart, PointerSample: PointerSample{X: 0, Y: 0, TimestampMs: 1000}}, events[0])
	assert.Equal(t, PhaseMove, events[1].Phase)
	assert.Equal(t, 120.0, events[2].X)
}

func TestReadTrace_Errors(t *testing.T) {
	tests := []struct {
		name          string
		trace         string
		expectedError string
	}{
		{"invalid json", "{\"phase\":\"start\"}\nnot json\n", "line 2: invalid event"},
		{"unknown phase", `{"phase":"hover","x":1,"y":1,"timestampMs":1}`, "line 1: unknown phase 'hover'"},
		{"missing phase", `{"x":1,"y":1,"timestampMs":1}`, "line 1: unknown phase ''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTrace(strings.NewReader(tt.trace))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestReplay(t *testing.T) {
	events, err := ReadTrace(strings.NewReader(sampleTrace))
	require.NoError(t, err)

	detections, err := Replay(events, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []Detection{
		{Gesture: KindFlickRight, X: 120, Y: 0, TimestampMs: 1100},
		{Gesture: KindLongPress, X: 10, Y: 10, TimestampMs: 3500},
		{Gesture: KindSwipeUp, X: 0, Y: -90, TimestampMs: 5100},
	}, detections)
}

func TestReplay_TrailingLongPress(t *testing.T) {
	events := []Event{
		{Phase: PhaseStart, PointerSample: PointerSample{X: 3, Y: 4, TimestampMs: 200}},
	}

	detections, err := Replay(events, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []Detection{{Gesture: KindLongPress, X: 3, Y: 4, TimestampMs: 700}}, detections)
}

func TestReplay_LongPressBeatsEndAtDeadline(t *testing.T) {
	events := []Event{
		{Phase: PhaseStart, PointerSample: PointerSample{TimestampMs: 0}},
		{Phase: PhaseEnd, PointerSample: PointerSample{TimestampMs: 500}},
	}

	detections, err := Replay(events, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Equal(t, KindLongPress, detections[0].Gesture)
}

func TestReplay_DoubleTap(t *testing.T) {
	events := []Event{
		{Phase: PhaseStart, PointerSample: PointerSample{TimestampMs: 0}},
		{Phase: PhaseEnd, PointerSample: PointerSample{TimestampMs: 60}},
		{Phase: PhaseStart, PointerSample: PointerSample{TimestampMs: 150}},
		{Phase: PhaseEnd, PointerSample: PointerSample{TimestampMs: 210}},
	}

	detections, err := Replay(events, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Equal(t, KindDoubleTap, detections[0].Gesture)
	assert.Equal(t, int64(210), detections[0].TimestampMs)
}

func TestReplay_CancelDropsInteraction(t *testing.T) {
	events := []Event{
		{Phase: PhaseStart, PointerSample: PointerSample{TimestampMs: 0}},
		{Phase: PhaseCancel, PointerSample: PointerSample{TimestampMs: 100}},
		{Phase: PhaseEnd, PointerSample: PointerSample{X: 200, TimestampMs: 150}},
	}

	detections, err := Replay(events, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, detections)
}

func TestReplay_BackwardsTimestamp(t *testing.T) {
	events := []Event{
		{Phase: PhaseStart, PointerSample: PointerSample{TimestampMs: 100}},
		{Phase: PhaseEnd, PointerSample: PointerSample{TimestampMs: 50}},
	}

	_, err := Replay(events, DefaultConfig())
	require.Error(t, err)
	assert.Equal(t, "event 1: timestamp 50 is earlier than previous 100", err.Error())
}

func TestReplay_Empty(t *testing.T) {
	detections, err := Replay(nil, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, detections)
}
