package shared

import (
	"fmt"

	"github.com/sabai-pos/sabai-pos/internal/platform/httpx"
)

// Error helpers wrapping the platform sentinels so handlers can map them to
// HTTP statuses with errors.Is.

func Validation(msg string) error {
	return fmt.Errorf("%w: %s", httpx.ErrValidation, msg)
}

func NotFound(what string) error {
	return fmt.Errorf("%w: %s", httpx.ErrNotFound, what)
}

func Duplicate(what string) error {
	return fmt.Errorf("%w: %s", httpx.ErrDuplicate, what)
}

func Conflict(msg string) error {
	return fmt.Errorf("%w: %s", httpx.ErrConflict, msg)
}
