package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for common failures across screens.
var (
	ErrNotFound          = errors.New("requested resource not found")
	ErrNotConfirmed      = errors.New("action was not confirmed")
	ErrInvalidQRCode     = errors.New("scanned QR code is not in the expected format")
	ErrCameraUnavailable = errors.New("unable to access camera for scanning")
	ErrUnauthenticated   = errors.New("not logged in")
	ErrUnknownOption     = errors.New("selected option does not exist")
)
