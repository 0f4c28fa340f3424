package protocol

import (
	"errors"
	"fmt"

	"hearthwild.dev/internal/persistence/slots"
	"hearthwild.dev/internal/sim/world"
	"hearthwild.dev/internal/sim/world/feature/economy/crafting"
)

const (
	// Protocol/transport validation.
	CodeProto = "E_PROTO"
	CodeBusy  = "E_BUSY"

	// Command layer.
	CodeBadRequest    = "E_BAD_REQUEST"
	CodeNoResource    = "E_NO_RESOURCE"
	CodeInvalidTarget = "E_INVALID_TARGET"
	CodeConflict      = "E_CONFLICT"
	CodeInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	CodeProto:         {},
	CodeBusy:          {},
	CodeBadRequest:    {},
	CodeNoResource:    {},
	CodeInvalidTarget: {},
	CodeConflict:      {},
	CodeInternal:      {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

// Error carries a wire code. Two errors match under errors.Is when their
// codes are equal.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	ErrProto      = &Error{Code: CodeProto}
	ErrBusy       = &Error{Code: CodeBusy}
	ErrBadRequest = &Error{Code: CodeBadRequest}
)

func Errorf(code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf maps an error returned by a command to its wire code.
func CodeOf(err error) string {
	var pe *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &pe):
		return pe.Code
	case errors.Is(err, crafting.ErrNotEnough),
		errors.Is(err, crafting.ErrNeedStation),
		errors.Is(err, crafting.ErrInventoryFull),
		errors.Is(err, world.ErrNoSpace):
		return CodeNoResource
	case errors.Is(err, world.ErrNoContainer):
		return CodeInvalidTarget
	case errors.Is(err, world.ErrPlayerDead),
		errors.Is(err, world.ErrPlayerAlive),
		errors.Is(err, world.ErrNestedBag):
		return CodeConflict
	case errors.Is(err, world.ErrBadSlot),
		errors.Is(err, world.ErrNotUsable),
		errors.Is(err, world.ErrUnknownCraft),
		errors.Is(err, world.ErrUnknownOp),
		errors.Is(err, slots.ErrBadSlot):
		return CodeBadRequest
	}
	return CodeInternal
}
