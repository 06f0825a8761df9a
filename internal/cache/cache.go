package cache

import (
	"context"
	"time"
)

// KeyApprovedTemplates holds the serialized approved-catalog listing. Any
// template mutation deletes it.
const KeyApprovedTemplates = "catalog:approved"

// Cache defines the interface for the read-through catalog cache. A nil Cache
// is a valid "caching disabled" value for every consumer.
type Cache interface {
	Get(ctx context.Context, key string) (string, error) // "" when the key is absent
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}
