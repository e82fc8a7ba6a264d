// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/valera-kram/recipe-app-api/internal/app/system/auditlog"
	"github.com/valera-kram/recipe-app-api/internal/app/system/authutil"
	"github.com/valera-kram/recipe-app-api/internal/app/system/inputval"
	"go.uber.org/zap"
)

// EnvPrefix is the prefix of every app environment variable.
const EnvPrefix = "RECIPES"

// appConfigKeys defines the configuration keys for the recipe API.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, storage_type, etc.
//   - Environment variables: RECIPES_MONGO_URI, RECIPES_STORAGE_TYPE, etc.
//   - Command-line flags: --mongo_uri, --storage_type, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "recipes", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Image storage
	{Name: "storage_type", Default: "local", Desc: "Image storage backend: 'local' or 's3'"},
	{Name: "storage_local_path", Default: "./media", Desc: "Local directory for uploaded images"},
	{Name: "storage_local_url", Default: "/media", Desc: "URL prefix for serving local images"},
	{Name: "storage_s3_region", Default: "", Desc: "AWS region for S3"},
	{Name: "storage_s3_bucket", Default: "", Desc: "S3 bucket name"},
	{Name: "storage_s3_prefix", Default: "media/", Desc: "S3 key prefix"},
	{Name: "storage_s3_public_url", Default: "", Desc: "Public base URL for S3 objects (CDN); blank uses the bucket URL"},
	{Name: "max_upload_mb", Default: 10, Desc: "Largest accepted image upload in megabytes"},

	// Throttling
	{Name: "token_rate_limit", Default: 20, Desc: "Token requests allowed per minute per client IP"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Token event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_account", Default: "all", Desc: "Account event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Superuser bootstrap
	{Name: "superuser_email", Default: "", Desc: "Email of the superuser (created or promoted on startup)"},
	{Name: "superuser_password", Default: "", Desc: "Password set on the superuser at startup"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, RECIPES_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		StorageType:        strings.ToLower(strings.TrimSpace(appValues.String("storage_type"))),
		StorageLocalPath:   appValues.String("storage_local_path"),
		StorageLocalURL:    appValues.String("storage_local_url"),
		StorageS3Region:    appValues.String("storage_s3_region"),
		StorageS3Bucket:    appValues.String("storage_s3_bucket"),
		StorageS3Prefix:    appValues.String("storage_s3_prefix"),
		StorageS3PublicURL: appValues.String("storage_s3_public_url"),
		MaxUploadMB:        appValues.Int("max_upload_mb"),

		TokenRateLimit: appValues.Int("token_rate_limit"),

		AuditLogAuth:    appValues.String("audit_log_auth"),
		AuditLogAccount: appValues.String("audit_log_account"),

		SuperuserEmail:    strings.TrimSpace(appValues.String("superuser_email")),
		SuperuserPassword: appValues.String("superuser_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI format is checked here to catch configuration errors
// before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return errors.New("mongo_database must be set")
	}

	switch appCfg.StorageType {
	case "local":
		if appCfg.StorageLocalPath == "" {
			return errors.New("storage_local_path must be set for local storage")
		}
		if !strings.HasPrefix(appCfg.StorageLocalURL, "/") {
			return fmt.Errorf("storage_local_url must start with '/', got %q", appCfg.StorageLocalURL)
		}
	case "s3":
		if appCfg.StorageS3Bucket == "" || appCfg.StorageS3Region == "" {
			return errors.New("s3 storage requires storage_s3_bucket and storage_s3_region")
		}
	default:
		return fmt.Errorf("storage_type must be 'local' or 's3', got %q", appCfg.StorageType)
	}

	if appCfg.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", appCfg.MaxUploadMB)
	}
	if appCfg.TokenRateLimit <= 0 {
		return fmt.Errorf("token_rate_limit must be positive, got %d", appCfg.TokenRateLimit)
	}

	for name, v := range map[string]string{
		"audit_log_auth":    appCfg.AuditLogAuth,
		"audit_log_account": appCfg.AuditLogAccount,
	} {
		switch v {
		case auditlog.DestAll, auditlog.DestDB, auditlog.DestLog, auditlog.DestOff:
		default:
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", name, v)
		}
	}

	if appCfg.SuperuserEmail != "" {
		if !inputval.IsValidEmail(appCfg.SuperuserEmail) {
			return fmt.Errorf("superuser_email %q is not a valid email address", appCfg.SuperuserEmail)
		}
		if err := authutil.ValidatePassword(appCfg.SuperuserPassword); err != nil {
			return fmt.Errorf("superuser_password: %s", authutil.PasswordRules())
		}
	}
	return nil
}
