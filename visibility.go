package cull

import "fmt"

// Visibility is the tri-state outcome of an occlusion probe.
//
// Objects start out Unknown. A resolved probe moves them to Visible or
// Occluded; the state persists until the next probe for that object
// resolves. In gated mode only Visible objects receive detail draws, so
// Unknown objects are never drawn until their first probe completes.
type Visibility uint8

const (
	// VisibilityUnknown means no probe for the object has resolved yet.
	VisibilityUnknown Visibility = iota

	// VisibilityVisible means the most recent probe produced at least
	// one sample that passed the depth test.
	VisibilityVisible

	// VisibilityOccluded means the most recent probe produced no
	// passing samples: the proxy is entirely behind other geometry.
	VisibilityOccluded
)

// String returns the visibility state name.
func (v Visibility) String() string {
	switch v {
	case VisibilityUnknown:
		return "unknown"
	case VisibilityVisible:
		return "visible"
	case VisibilityOccluded:
		return "occluded"
	default:
		return fmt.Sprintf("Visibility(%d)", uint8(v))
	}
}

// MarshalText implements encoding.TextMarshaler so visibility states
// serialize by name in traces and logs.
func (v Visibility) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Visibility) UnmarshalText(text []byte) error {
	switch string(text) {
	case "unknown":
		*v = VisibilityUnknown
	case "visible":
		*v = VisibilityVisible
	case "occluded":
		*v = VisibilityOccluded
	default:
		return fmt.Errorf("cull: unknown visibility %q", text)
	}
	return nil
}
