package errors

import (
	"errors"

	"github.com/mwantia/hostfs/data"
)

// Code is the stable wire name of a taxonomy sentinel.
type Code string

const (
	CodeNone         Code = ""
	CodeNotExist     Code = "not_exist"
	CodeWrongKind    Code = "wrong_kind"
	CodeExist        Code = "exist"
	CodePermission   Code = "permission"
	CodeNotSupported Code = "not_supported"
	CodeInvalid      Code = "invalid"
	CodeIO           Code = "io"
	CodeClosed       Code = "closed"
	CodeUnknown      Code = "unknown"
)

var sentinels = []struct {
	code Code
	err  error
}{
	{CodeNotExist, data.ErrNotExist},
	{CodeWrongKind, data.ErrWrongKind},
	{CodeExist, data.ErrExist},
	{CodePermission, data.ErrPermission},
	{CodeNotSupported, data.ErrNotSupported},
	{CodeInvalid, data.ErrInvalid},
	{CodeIO, data.ErrIO},
	{CodeClosed, data.ErrClosed},
}

// Classified reports whether err carries one of the taxonomy sentinels.
func Classified(err error) bool {
	code := CodeOf(err)
	return code != CodeNone && code != CodeUnknown
}

// CodeOf returns the wire code for err.
func CodeOf(err error) Code {
	if err == nil {
		return CodeNone
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.code
		}
	}

	return CodeUnknown
}

// FromCode rebuilds an error received over the wire, so that errors.Is keeps
// working on the receiving side.
func FromCode(code Code, message string) error {
	if code == CodeNone {
		return nil
	}

	for _, s := range sentinels {
		if s.code == code {
			if message == "" || message == s.err.Error() {
				return s.err
			}
			return &remoteError{sentinel: s.err, message: message}
		}
	}

	return errors.New(message)
}

type remoteError struct {
	sentinel error
	message  string
}

func (e *remoteError) Error() string {
	return e.message
}

func (e *remoteError) Unwrap() error {
	return e.sentinel
}
