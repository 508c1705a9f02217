// Package blob abstracts the object storage the tracker keeps photos in.
// Keys are derived from record IDs, so uploads are idempotent overwrites
// and safe to retry after partial failures.
package blob

import (
	"context"
	"fmt"
)

// Store uploads photo payloads and resolves fetchable references for them.
type Store interface {
	// Upload writes data under key, overwriting any previous content, and
	// returns the resolved public reference.
	Upload(ctx context.Context, key string, data []byte) (string, error)

	// ResolveURL returns the fetchable reference for an already-uploaded key.
	ResolveURL(key string) string
}

// Config selects and parameterizes a Store backend.
type Config struct {
	// Backend is "s3" or "supabase".
	Backend string

	S3User         string
	S3Password     string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string
}

// New constructs the Store described by cfg.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3Store(ctx, cfg)
	case "supabase":
		return NewSupabaseStore(cfg), nil
	default:
		return nil, fmt.Errorf("unknown blob backend: %q", cfg.Backend)
	}
}
