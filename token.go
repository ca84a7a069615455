package hxtoast

import (
	"errors"
	"fmt"

	"github.com/pthm/hxtoast/lib/encoding"
)

// Encoder is an alias for encoding.Encoder for convenience.
type Encoder = encoding.Encoder

// NewEncoder creates a new encoder with the given key.
func NewEncoder(key []byte) (*Encoder, error) {
	return encoding.NewEncoder(key)
}

// closeToken names one toast in one scope. It travels through the browser
// as the "p" parameter of close requests.
type closeToken struct {
	Scope string
	ID    ID
}

func (t closeToken) fields() map[string]any {
	return map[string]any{"s": t.Scope, "i": string(t.ID)}
}

func encodeCloseToken(enc *Encoder, t closeToken, sensitive bool) (string, error) {
	return enc.Encode(t.fields(), sensitive)
}

func decodeCloseToken(enc *Encoder, token string, sensitive bool) (closeToken, error) {
	fields, err := enc.Decode(token, sensitive)
	if err != nil {
		return closeToken{}, wrapEncodingError(err)
	}
	scope, ok1 := fields["s"].(string)
	id, ok2 := fields["i"].(string)
	if !ok1 || !ok2 || id == "" {
		return closeToken{}, fmt.Errorf("%w: missing scope or id", ErrInvalidFormat)
	}
	return closeToken{Scope: scope, ID: ID(id)}, nil
}

// wrapEncodingError maps encoding package errors onto hxtoast sentinels.
func wrapEncodingError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, encoding.ErrInvalidFormat):
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	case errors.Is(err, encoding.ErrSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	case errors.Is(err, encoding.ErrDecryptFailed):
		return fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}
	return err
}
