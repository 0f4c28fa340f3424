package protocol

import "hearthwild.dev/internal/sim/world"

// EventBatchItem numbers an event so a reconnecting client can ask for what
// it missed (HelloMsg.SinceCursor).
type EventBatchItem struct {
	Cursor uint64      `json:"cursor"`
	Event  world.Event `json:"event"`
}
