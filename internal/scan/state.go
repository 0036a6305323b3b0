// Package scan drives one QR attendance scan: a camera device yields decoded
// frames, the first decode is parsed into a volunteer id and verified exactly
// once against the backend, and the device is released exactly once.
package scan

import "time"

// State is the position of a session in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateDecoding
	StateVerifying
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateDecoding:
		return "decoding"
	case StateVerifying:
		return "verifying"
	case StateSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// FailureKind classifies why a session settled without success.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureCamera
	FailureFormat
	FailureVerification
	FailureNetwork
	FailureCancelled
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureCamera:
		return "camera"
	case FailureFormat:
		return "format"
	case FailureVerification:
		return "verification"
	case FailureNetwork:
		return "network"
	case FailureCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// User-facing outcome messages.
const (
	MsgCameraError        = "Camera access error"
	MsgInvalidQRCode      = "Invalid QR code."
	MsgInvalidQRFormat    = "Invalid QR code format."
	MsgVerificationFailed = "Verification failed."
	MsgNetworkError       = "Network error"
	MsgCancelled          = "Scan cancelled"
)

// Outcome is the terminal result of a session.
type Outcome struct {
	SessionID   string      `json:"sessionId"`
	OK          bool        `json:"ok"`
	Kind        FailureKind `json:"kind"`
	Message     string      `json:"message"`
	VolunteerID string      `json:"volunteerId,omitempty"`
	At          time.Time   `json:"at"`
}

// Title is the short heading shown above the outcome message.
func (o Outcome) Title() string {
	switch o.Kind {
	case FailureNone:
		return "Scan Successful"
	case FailureCamera:
		return "Camera Error"
	case FailureFormat:
		return "Invalid QR Code"
	case FailureNetwork:
		return "Network Error"
	case FailureCancelled:
		return "Scan Cancelled"
	default:
		return "Verification Failed"
	}
}
