package gestures

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// ReadTrace parses a trace written as one JSON event per line. Blank lines
// are skipped.
func ReadTrace(r io.Reader) ([]Event, error) {
	var events []Event

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, fmt.Errorf("line %d: invalid event: %w", lineNo, err)
		}

		if _, err := ParsePhase(string(ev.Phase)); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		events = append(events, ev)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	return events, nil
}

// Replay feeds a recorded trace through a fresh classifier running on a
// virtual clock and returns the gestures it detected, in order. Timestamps
// must not go backwards. A long-press still pending after the last event is
// allowed to fire.
func Replay(events []Event, cfg Config) ([]Detection, error) {
	if len(events) == 0 {
		return nil, nil
	}

	var detections []Detection
	clock := NewVirtualClock()
	classifier := NewClassifier(cfg, Handlers{},
		WithScheduler(clock),
		WithListener(func(d Detection) {
			detections = append(detections, d)
		}),
	)
	defer classifier.Dispose()

	origin := events[0].TimestampMs
	last := origin

	for i, ev := range events {
		if ev.TimestampMs < last {
			return nil, fmt.Errorf("event %d: timestamp %d is earlier than previous %d", i, ev.TimestampMs, last)
		}
		last = ev.TimestampMs

		clock.AdvanceTo(time.Duration(ev.TimestampMs-origin) * time.Millisecond)

		switch ev.Phase {
		case PhaseStart:
			classifier.Start(ev.PointerSample)
		case PhaseMove:
			classifier.Move(ev.PointerSample)
		case PhaseEnd:
			classifier.End(ev.PointerSample)
		case PhaseCancel:
			classifier.Cancel()
		default:
			return nil, fmt.Errorf("event %d: unknown phase '%s'", i, ev.Phase)
		}
	}

	clock.Advance(classifier.Config().LongPressDelay)

	return detections, nil
}
