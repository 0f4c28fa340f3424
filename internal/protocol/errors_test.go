package protocol

import (
	"errors"
	"fmt"
	"testing"

	"hearthwild.dev/internal/sim/world"
	"hearthwild.dev/internal/sim/world/feature/economy/crafting"
)

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		CodeProto,
		CodeBusy,
		CodeBadRequest,
		CodeNoResource,
		CodeInvalidTarget,
		CodeConflict,
		CodeInternal,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{Errorf(CodeBusy, "queue full"), CodeBusy},
		{fmt.Errorf("decode: %w", ErrProto), CodeProto},
		{crafting.ErrNotEnough, CodeNoResource},
		{crafting.ErrNeedStation, CodeNoResource},
		{world.ErrNoContainer, CodeInvalidTarget},
		{fmt.Errorf("respawn: %w", world.ErrPlayerAlive), CodeConflict},
		{fmt.Errorf("%w: area %q", world.ErrBadSlot, "x"), CodeBadRequest},
		{world.ErrUnknownCraft, CodeBadRequest},
		{errors.New("disk on fire"), CodeInternal},
	}
	for _, tc := range cases {
		if got := CodeOf(tc.err); got != tc.want {
			t.Fatalf("CodeOf(%v)=%q want %q", tc.err, got, tc.want)
		}
		if !IsKnownCode(CodeOf(tc.err)) {
			t.Fatalf("CodeOf(%v) not a known code", tc.err)
		}
	}
}

func TestErrorMatchesByCode(t *testing.T) {
	err := fmt.Errorf("hello: %w", Errorf(CodeProto, "bad protocol_version %q", "0.1"))
	if !errors.Is(err, ErrProto) {
		t.Fatalf("expected ErrProto match: %v", err)
	}
	if errors.Is(err, ErrBadRequest) {
		t.Fatalf("unexpected ErrBadRequest match")
	}
}
