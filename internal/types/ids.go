package types

import (
	"time"

	"github.com/google/uuid"
)

// FlowID represents a UUIDv7 flow identifier.
// String alias enables type safety while maintaining JSON string
// serialization. UUIDv7 time-ordering ensures sequential IDs cluster in
// B-tree indexes.
type FlowID string

// NewFlowID generates a UUIDv7 flow identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewFlowID() FlowID {
	return FlowID(uuid.Must(uuid.NewV7()).String())
}

// ParseFlowID validates and converts a string to FlowID.
// Rejects malformed UUIDs to prevent invalid IDs from entering the system.
func ParseFlowID(s string) (FlowID, error) {
	_, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return FlowID(s), nil
}

// FlowIDTime extracts the timestamp embedded in a UUIDv7 ID.
// Enables time-based listing without a database lookup.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func FlowIDTime(id FlowID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
