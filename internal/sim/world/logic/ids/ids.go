package ids

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Generated wildlife ids live in their own namespace so they never collide
// with runtime uuids.
var genNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("hearthwild.dev/terrain/gen"))

// EntityID returns a fresh id for an entity created at runtime (projectiles,
// boats).
func EntityID() string {
	return uuid.NewString()
}

// GeneratedEntityID is stable for a given spawn slot so regenerating a chunk
// reproduces the same ids.
func GeneratedEntityID(kind string, gx, gy, n int) string {
	return uuid.NewSHA1(genNamespace, []byte(fmt.Sprintf("%s:%d:%d:%d", kind, gx, gy, n))).String()
}

// DropID returns a lexically time-ordered id for a dropped item.
func DropID() string {
	return "drop_" + ulid.Make().String()
}

// SaveID identifies one written save (not the slot).
func SaveID() string {
	return ulid.Make().String()
}
