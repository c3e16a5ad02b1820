package access

import "github.com/google/uuid"

// Owned is anything mutable only by the user that owns it.
type Owned interface {
	OwnerID() uuid.UUID
}

// IsOwner is true iff actor owns resource.
func IsOwner(resource Owned, actor uuid.UUID) bool {
	if resource == nil || actor == uuid.Nil {
		return false
	}
	return resource.OwnerID() == actor
}
