// Package errors contains constructors that attach context to the sentinel
// errors defined in package data while keeping them matchable with errors.Is.
package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/mwantia/hostfs/data"
)

func ItemNotFound(name string) error {
	return newError(data.ErrNotExist, "no item named '%s'", name)
}

func FolderNotFound(name string) error {
	return newError(data.ErrNotExist, "no folder named '%s'", name)
}

func FileNotFound(name string) error {
	return newError(data.ErrNotExist, "no file named '%s'", name)
}

// ItemWrongKind reports that name exists, but as the kind opposite to want.
func ItemWrongKind(name string, want data.ItemKind) error {
	return newError(data.ErrWrongKind, "item '%s' is not a %s", name, want)
}

func ItemAlreadyExists(name string) error {
	return newError(data.ErrExist, "an item named '%s' already exists", name)
}

func OperationFailed(op, name string) error {
	return newError(data.ErrPermission, "could not %s '%s'", op, name)
}

func NotSupported(format string, args ...any) error {
	return newError(data.ErrNotSupported, format, args...)
}

func InvalidArgument(name string, value any) error {
	return newError(data.ErrInvalid, "unrecognized %s value '%v'", name, value)
}

// IOFailure wraps err (which may be nil) as an ErrIO, unless err already
// carries one of the taxonomy sentinels or stems from a done context.
func IOFailure(err error, format string, args ...any) error {
	if err != nil && (Classified(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return err
	}

	text := fmt.Sprintf(format, args...)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", data.ErrIO, text, err)
	}

	return fmt.Errorf("%w: %s", data.ErrIO, text)
}

func newError(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// UnknownIdentifier is returned by hosts for identifiers they never issued or already forgot.
func UnknownIdentifier(id string) error {
	return newError(data.ErrNotExist, "unknown identifier '%s'", id)
}
