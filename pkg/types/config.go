package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// DatabaseURL points at an external Postgres. When empty, serve starts an
	// embedded Postgres under EmbeddedDataDir instead, keeping the whole app
	// local to the machine.
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	EmbeddedDataDir string `envconfig:"EMBEDDED_DATA_DIR" default:".pgdata"`
	EmbeddedPort    uint32 `envconfig:"EMBEDDED_PORT" default:"5433"`

	// Donation photo storage. When the bucket is unset, photo uploads are
	// skipped and listings are created without an image.
	S3BucketName    string `envconfig:"S3_BUCKET_NAME"`
	S3PublicBaseURL string `envconfig:"S3_PUBLIC_BASE_URL"`

	// Session cookie
	CookieName       string `envconfig:"SESSION_COOKIE_NAME" default:"food_rescue_session"`
	SessionMaxAgeSec int    `envconfig:"SESSION_MAX_AGE_SEC" default:"604800"` // 7 days

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes
}
