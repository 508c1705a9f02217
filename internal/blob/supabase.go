package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// SupabaseStore keeps photos in a Supabase Storage bucket and serves them
// through the project's public object URLs.
type SupabaseStore struct {
	client *storage.Client
	bucket string
	base   string
}

func NewSupabaseStore(cfg Config) *SupabaseStore {
	base := strings.TrimSuffix(cfg.SupabaseURL, "/")
	client := storage.NewClient(base+"/storage/v1", cfg.SupabaseKey, nil)

	return &SupabaseStore{
		client: client,
		bucket: cfg.SupabaseBucket,
		base:   base,
	}
}

func (s *SupabaseStore) Upload(ctx context.Context, key string, data []byte) (string, error) {
	contentType := "image/jpeg"
	upsert := true

	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return s.ResolveURL(key), nil
}

func (s *SupabaseStore) ResolveURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.base, s.bucket, key)
}
