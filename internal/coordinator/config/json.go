package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/resiembra/resiembra/internal/flagx"
	"github.com/resiembra/resiembra/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "5s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	DatabaseDSN    string         `json:"database_dsn"`
	AdminID        string         `json:"admin_id"`
	WatchInterval  timex.Duration `json:"watch_interval"`
	BlobBackend    string         `json:"blob_backend"`
	S3User         string         `json:"s3_user"`
	S3Password     string         `json:"s3_password"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	SupabaseURL    string         `json:"supabase_url"`
	SupabaseKey    string         `json:"supabase_key"`
	SupabaseBucket string         `json:"supabase_bucket"`
}

// parseJson overlays Config with values loaded from a JSON file resolved via
// the -c or -config flags. No file path means no overlay. Panics on read or
// unmarshal errors.
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
	cfg.AdminID = jc.AdminID
	cfg.WatchInterval = time.Duration(jc.WatchInterval.Duration)
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
