package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/resiembra/resiembra/internal/flagx"
	"github.com/resiembra/resiembra/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	DatabaseDSN         string         `json:"database_dsn"`
	LocalDSN            string         `json:"local_dsn"`
	UserID              string         `json:"user_id"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	BlobBackend         string         `json:"blob_backend"`
	S3User              string         `json:"s3_user"`
	S3Password          string         `json:"s3_password"`
	S3Bucket            string         `json:"s3_bucket"`
	S3Region            string         `json:"s3_region"`
	S3BaseEndpoint      string         `json:"s3_base_endpoint"`
	SupabaseURL         string         `json:"supabase_url"`
	SupabaseKey         string         `json:"supabase_key"`
	SupabaseBucket      string         `json:"supabase_bucket"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Panics on read or unmarshal errors. Intended usage is defaults ->
// parseJson -> parseFlags, where later stages override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.DatabaseDSN = jc.DatabaseDSN
	cfg.LocalDSN = jc.LocalDSN
	cfg.UserID = jc.UserID
	cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	cfg.BlobBackend = jc.BlobBackend
	cfg.S3User = jc.S3User
	cfg.S3Password = jc.S3Password
	cfg.S3Bucket = jc.S3Bucket
	cfg.S3Region = jc.S3Region
	cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	cfg.SupabaseURL = jc.SupabaseURL
	cfg.SupabaseKey = jc.SupabaseKey
	cfg.SupabaseBucket = jc.SupabaseBucket
}
