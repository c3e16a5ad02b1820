package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Kind names a cached entity family. It is the first segment of every key.
type Kind string

const (
	KindUser   Kind = "user"
	KindRecipe Kind = "recipe"
	KindReview Kind = "review"
)

// Rendering formats a body can be cached under.
const (
	FormatJSON = "json"
	FormatXML  = "xml"
)

// Formats lists every rendering format; invalidation walks all of them.
var Formats = []string{FormatJSON, FormatXML}

// EntityKey -> "recipe:<id>"
func EntityKey(kind Kind, id uuid.UUID) string {
	return fmt.Sprintf("%s:%s", kind, id)
}

// RenderKey -> "recipe:<id>:json"
func RenderKey(kind Kind, id uuid.UUID, format string) string {
	return fmt.Sprintf("%s:%s:%s", kind, id, format)
}

// CollectionKey -> "recipeCollection:<page>"
func CollectionKey(kind Kind, page int) string {
	return fmt.Sprintf("%sCollection:%d", kind, page)
}

// TokenKey maps a token digest to the id of its user.
func TokenKey(digest string) string {
	return "token:" + digest
}

// EntityKeys returns the whole-object key plus the rendered key of every format.
func EntityKeys(kind Kind, id uuid.UUID) []string {
	keys := make([]string, 0, len(Formats)+1)
	keys = append(keys, EntityKey(kind, id))
	for _, f := range Formats {
		keys = append(keys, RenderKey(kind, id, f))
	}
	return keys
}

// Invalidate drops every key derived from the given entities in one round trip.
// Collection keys are left to expire on their own TTL.
func Invalidate(ctx context.Context, c Cache, kind Kind, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids)*(len(Formats)+1))
	for _, id := range ids {
		keys = append(keys, EntityKeys(kind, id)...)
	}
	return c.Delete(ctx, keys...)
}
