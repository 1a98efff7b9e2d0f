package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered UUID. Used for trace ids and
// streaming session ids, where creation-order sorting is convenient.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}
