package users

import (
	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	tokenstore "github.com/valera-kram/recipe-app-api/internal/app/store/tokens"
	userstore "github.com/valera-kram/recipe-app-api/internal/app/store/users"
	"github.com/valera-kram/recipe-app-api/internal/app/system/auditlog"
	"github.com/valera-kram/recipe-app-api/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns account creation, token issuance, and the current user's
// profile.
type Handler struct {
	Users    *userstore.Store
	Tokens   *tokenstore.Store
	AuditLog *auditlog.Logger
	Metrics  *metrics.Metrics
	Log      *zap.Logger
	ErrLog   *apierrors.ErrorLogger
}

// NewHandler constructs a Handler bound to the given Mongo database.
// auditLog and m may be nil.
func NewHandler(db *mongo.Database, auditLog *auditlog.Logger, m *metrics.Metrics, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    userstore.New(db),
		Tokens:   tokenstore.New(db),
		AuditLog: auditLog,
		Metrics:  m,
		Log:      logger,
		ErrLog:   errLog,
	}
}

// userView is the public representation of an account. The password is
// write-only and never appears here.
type userView struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
