package hxtoast

import "errors"

// Sentinel errors for toast operations.
var (
	ErrNoScope          = errors.New("hxtoast: no toast scope in context")
	ErrScopeClosed      = errors.New("hxtoast: toast scope is closed")
	ErrScopeMismatch    = errors.New("hxtoast: close token belongs to another scope")
	ErrUnknownRenderer  = errors.New("hxtoast: no renderer registered for kind")
	ErrDecryptFailed    = errors.New("hxtoast: token decryption failed")
	ErrSignatureInvalid = errors.New("hxtoast: signature verification failed")
	ErrInvalidFormat    = errors.New("hxtoast: invalid token format")
)

// IsDecryptionError checks if err is a decryption or signature error.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryptFailed) || errors.Is(err, ErrSignatureInvalid)
}

// IsUnknownRenderer checks if err reports a toast kind with no renderer.
func IsUnknownRenderer(err error) bool {
	return errors.Is(err, ErrUnknownRenderer)
}
