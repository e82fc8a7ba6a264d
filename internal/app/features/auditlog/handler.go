package auditlog

import (
	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	"github.com/valera-kram/recipe-app-api/internal/app/store/audit"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the read-only audit trail to superusers.
type Handler struct {
	Events *audit.Store
	Log    *zap.Logger
	ErrLog *apierrors.ErrorLogger
}

// NewHandler constructs an audit log handler bound to the given database.
func NewHandler(db *mongo.Database, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Events: audit.New(db),
		Log:    logger,
		ErrLog: errLog,
	}
}
