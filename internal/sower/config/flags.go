package config

import (
	"flag"
	"os"
	"time"

	"github.com/resiembra/resiembra/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN of the remote store
//	-l string   SQLite path for the local queue
//	-o string   acting user ID
//	-i int      online check interval in seconds
//	-k string   blob backend ("s3" or "supabase")
//	-u string   S3 user
//	-p string   S3 password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-j string   Supabase project URL
//	-m string   Supabase service key
//	-v string   Supabase bucket name
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		[]string{"-d", "-l", "-o", "-i", "-k", "-u", "-p", "-b", "-g", "-e", "-j", "-m", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.LocalDSN, "l", cfg.LocalDSN, "local queue SQLite path")
	fs.StringVar(&cfg.UserID, "o", cfg.UserID, "acting user ID")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	fs.StringVar(&cfg.BlobBackend, "k", cfg.BlobBackend, "blob backend")
	fs.StringVar(&cfg.S3User, "u", cfg.S3User, "S3 user")
	fs.StringVar(&cfg.S3Password, "p", cfg.S3Password, "S3 password")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.SupabaseURL, "j", cfg.SupabaseURL, "Supabase project URL")
	fs.StringVar(&cfg.SupabaseKey, "m", cfg.SupabaseKey, "Supabase service key")
	fs.StringVar(&cfg.SupabaseBucket, "v", cfg.SupabaseBucket, "Supabase bucket")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
