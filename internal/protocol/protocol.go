// Package protocol defines the single-line selection outcome format a
// picker session reports back to its host process. The outcome is a
// type-tagged JSON object written to stdout; the process exit status is 0
// for cancel/region/window and 1 for error.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanchriswhite/snaploupe/internal/geometry"
)

// OutcomeType tags a selection outcome.
type OutcomeType string

const (
	TypeCancel OutcomeType = "cancel"
	TypeRegion OutcomeType = "region"
	TypeWindow OutcomeType = "window"
	TypeError  OutcomeType = "error"
)

// Outcome is the final result of a selection session. Exactly one of the
// optional fields is set, matching Type. Rect is always normalized
// (non-negative width/height) regardless of drag direction.
type Outcome struct {
	Type     OutcomeType    `json:"type"`
	Rect     *geometry.Rect `json:"rect,omitempty"`
	WindowID *uint32        `json:"window_id,omitempty"`
	Message  string         `json:"message,omitempty"`
}

// Cancel is the outcome for a user-cancelled session.
func Cancel() Outcome {
	return Outcome{Type: TypeCancel}
}

// Region is the outcome for a chosen screen region. The rect is normalized
// before being stored.
func Region(a, b geometry.Point) Outcome {
	r := geometry.RectFromPoints(a, b)
	return Outcome{Type: TypeRegion, Rect: &r}
}

// RegionRect is Region for an already-normalized rectangle.
func RegionRect(r geometry.Rect) Outcome {
	return Outcome{Type: TypeRegion, Rect: &r}
}

// Window is the outcome for a chosen window.
func Window(windowID uint32) Outcome {
	return Outcome{Type: TypeWindow, WindowID: &windowID}
}

// Errorf is the outcome for a failed session.
func Errorf(format string, args ...any) Outcome {
	return Outcome{Type: TypeError, Message: fmt.Sprintf(format, args...)}
}

// ExitCode maps the outcome to the process exit status the host expects.
func (o Outcome) ExitCode() int {
	if o.Type == TypeError {
		return 1
	}
	return 0
}

// Encode serializes the outcome as a single JSON line without a trailing
// newline.
func (o Outcome) Encode() (string, error) {
	switch o.Type {
	case TypeCancel, TypeRegion, TypeWindow, TypeError:
	default:
		return "", fmt.Errorf("protocol: unknown outcome type %q", o.Type)
	}
	raw, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("protocol: encode outcome: %w", err)
	}
	return string(raw), nil
}

// Decode parses a single outcome line produced by Encode.
func Decode(line string) (Outcome, error) {
	var o Outcome
	dec := json.NewDecoder(strings.NewReader(line))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&o); err != nil {
		return Outcome{}, fmt.Errorf("protocol: decode outcome: %w", err)
	}
	switch o.Type {
	case TypeCancel, TypeRegion, TypeWindow, TypeError:
	default:
		return Outcome{}, fmt.Errorf("protocol: unknown outcome type %q", o.Type)
	}
	if o.Type == TypeRegion && o.Rect == nil {
		return Outcome{}, fmt.Errorf("protocol: region outcome missing rect")
	}
	if o.Type == TypeWindow && o.WindowID == nil {
		return Outcome{}, fmt.Errorf("protocol: window outcome missing window_id")
	}
	return o, nil
}
