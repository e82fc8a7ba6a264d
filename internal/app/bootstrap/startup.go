// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/valera-kram/recipe-app-api/internal/app/store/audit"
	userstore "github.com/valera-kram/recipe-app-api/internal/app/store/users"
	"github.com/valera-kram/recipe-app-api/internal/app/system/auditlog"
	"github.com/valera-kram/recipe-app-api/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Startup runs one-time initialization after the schema is in place and
// before the handler is built: timeout overrides and the superuser.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		cur := timeouts.Current()
		logger.Info("timeouts overridden from environment",
			zap.Int("count", n),
			zap.Duration("ping", cur.Ping),
			zap.Duration("short", cur.Short),
			zap.Duration("medium", cur.Medium),
			zap.Duration("long", cur.Long))
	}

	if appCfg.SuperuserEmail == "" {
		return nil
	}
	return ensureSuperuser(ctx, deps, appCfg.SuperuserEmail, appCfg.SuperuserPassword,
		newAuditLogger(appCfg, deps, logger), logger)
}

func newAuditLogger(appCfg AppConfig, deps DBDeps, logger *zap.Logger) *auditlog.Logger {
	return auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:    appCfg.AuditLogAuth,
		Account: appCfg.AuditLogAccount,
	})
}

// ensureSuperuser creates the configured superuser, or promotes the
// existing account and resets its password.
func ensureSuperuser(ctx context.Context, deps DBDeps, email, password string, auditLog *auditlog.Logger, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	u, created, err := userstore.New(deps.MongoDatabase).EnsureSuperuser(ctx, email, password)
	if err != nil {
		return fmt.Errorf("ensure superuser %s: %w", email, err)
	}
	auditLog.SuperuserEnsured(ctx, u.ID, u.Email, created)
	if created {
		logger.Info("created superuser", zap.String("email", u.Email))
	} else {
		logger.Info("promoted existing user to superuser", zap.String("email", u.Email))
	}
	return nil
}
