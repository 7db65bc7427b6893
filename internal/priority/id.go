package priority

import (
	"strconv"

	"github.com/google/uuid"
)

// IDGenerator produces ids for rules, boosts, actions, and schedule entries.
// Injected so tests can make id regeneration deterministic.
type IDGenerator func() string

// NewUUID is the production generator: a random UUIDv4.
func NewUUID() string {
	return uuid.New().String()
}

// SequentialIDs returns a generator yielding prefix-1, prefix-2, ... for
// deterministic tests.
func SequentialIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}
