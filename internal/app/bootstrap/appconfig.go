// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (RECIPES_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// covers the framework-level settings: ports, TLS, logging level and
// request body limits.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Image storage configuration
	StorageType      string // "local" or "s3"
	StorageLocalPath string // directory for uploaded images (e.g., "./media")
	StorageLocalURL  string // URL prefix the local files are served under (e.g., "/media")

	// S3 configuration (only used if StorageType is "s3")
	StorageS3Region    string
	StorageS3Bucket    string
	StorageS3Prefix    string // key prefix (e.g., "media/")
	StorageS3PublicURL string // CDN or custom domain in front of the bucket; blank uses the bucket URL

	MaxUploadMB int // largest accepted image upload

	// Token endpoint throttling, requests per minute per client IP
	TokenRateLimit int

	// Audit logging: 'all' (db+log), 'db', 'log', or 'off'
	AuditLogAuth    string
	AuditLogAccount string

	// Superuser bootstrap (creates or promotes on startup)
	SuperuserEmail    string
	SuperuserPassword string
}
