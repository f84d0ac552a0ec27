package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrUpstream a third-party API rejected the call or was unreachable
	ErrUpstream = errors.New("upstream failure")
	// ErrInvalidInput rejected before any network call (empty prompt, missing key)
	ErrInvalidInput = errors.New("invalid input")
	// ErrStorageCorruption persisted JSON that fails to parse
	ErrStorageCorruption = errors.New("storage corruption")
	// ErrNotFound index or id that does not exist
	ErrNotFound = errors.New("not found")
)

// StatusCode maps an error to the HTTP status used in responses.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrUpstream):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
