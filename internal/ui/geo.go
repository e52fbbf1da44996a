package ui

import "context"

// Position is a device location in decimal degrees.
type Position struct {
	Latitude  float64
	Longitude float64
}

// PositionErrorCode follows the W3C geolocation numbering.
type PositionErrorCode int

const (
	PermissionDenied    PositionErrorCode = 1
	PositionUnavailable PositionErrorCode = 2
	Timeout             PositionErrorCode = 3
)

// PositionError is returned by a Geolocator that could not produce a position.
type PositionError struct {
	Code PositionErrorCode
	Err  error
}

func (e *PositionError) Error() string { return PositionMessage(e.Code) }

func (e *PositionError) Unwrap() error { return e.Err }

// Geolocator resolves the current device position. Implementations report
// failures as *PositionError.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// PositionMessage returns the user-facing text for a geolocation failure.
func PositionMessage(code PositionErrorCode) string {
	switch code {
	case PermissionDenied:
		return MsgPermissionDenied
	case PositionUnavailable:
		return MsgPositionUnavailable
	case Timeout:
		return MsgLocationTimeout
	default:
		return MsgLocationFailed
	}
}
