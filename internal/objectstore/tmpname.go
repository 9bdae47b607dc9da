package objectstore

import "github.com/google/uuid"

// randSuffix returns a short unique suffix for temp files, avoiding
// collisions between concurrent writers to the same key.
func randSuffix() string {
	return uuid.NewString()
}
