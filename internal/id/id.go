package id

import (
	"strings"

	"github.com/google/uuid"
)

// UUID generates a UUID v4 (random).
// Returns a string in the format: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
func UUID() string {
	return uuid.NewString()
}

// Short generates a short random ID (12 hex characters), derived from a
// UUID v4. Suitable for user-facing IDs where brevity matters, like request
// log entries.
func Short() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
