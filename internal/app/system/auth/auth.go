// Package auth authenticates API requests by opaque token.
//
// Clients send "Authorization: Token <key>" (the "Bearer" scheme is also
// accepted). LoadUser resolves the key to a user id, loads the user fresh
// from storage, and places a Principal in the request context. Requests
// without an Authorization header pass through anonymously; requests with
// a header that does not resolve are rejected with 401.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/valera-kram/recipe-app-api/internal/app/system/jsonio"
	"github.com/valera-kram/recipe-app-api/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Principal & collaborators                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// Principal is the authenticated user injected into r.Context().
type Principal struct {
	ID          primitive.ObjectID
	Email       string
	Name        string
	IsStaff     bool
	IsSuperuser bool
}

// TokenResolver maps a token key to the id of the user that owns it.
// ok is false when the key is unknown.
type TokenResolver interface {
	ResolveToken(ctx context.Context, key string) (userID primitive.ObjectID, ok bool, err error)
}

// UserFetcher loads the current state of a user. It returns nil when the
// user does not exist or is inactive.
type UserFetcher interface {
	FetchUser(ctx context.Context, id primitive.ObjectID) *Principal
}

// Scheme is advertised in WWW-Authenticate on 401 responses.
const Scheme = "Token"

const (
	msgNotProvided  = "Authentication credentials were not provided."
	msgInvalidToken = "Invalid token."
	msgInactiveUser = "User inactive or deleted."
)

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the authenticated principal and a found flag.
func CurrentUser(r *http.Request) (*Principal, bool) {
	u, ok := r.Context().Value(currentUserKey).(*Principal)
	return u, ok && u != nil
}

// WithPrincipal returns a copy of r carrying p. Handler tests use it to
// bypass token resolution.
func WithPrincipal(r *http.Request, p *Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, p))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// Authenticator wires the token and user lookups into middleware.
type Authenticator struct {
	Tokens TokenResolver
	Users  UserFetcher
	Log    *zap.Logger
}

// NewAuthenticator builds an Authenticator.
func NewAuthenticator(tokens TokenResolver, users UserFetcher, logger *zap.Logger) *Authenticator {
	return &Authenticator{Tokens: tokens, Users: users, Log: logger}
}

// LoadUser authenticates the request when it carries credentials.
func (a *Authenticator) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		key, ok := ParseAuthorization(header)
		if !ok {
			Unauthorized(w, msgInvalidToken)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		userID, found, err := a.Tokens.ResolveToken(ctx, key)
		if err != nil {
			a.Log.Error("token lookup failed", zap.Error(err), zap.String("path", r.URL.Path))
			jsonio.Write(w, http.StatusInternalServerError, map[string]string{"detail": "internal error"})
			return
		}
		if !found {
			Unauthorized(w, msgInvalidToken)
			return
		}

		p := a.Users.FetchUser(ctx, userID)
		if p == nil {
			Unauthorized(w, msgInactiveUser)
			return
		}

		next.ServeHTTP(w, WithPrincipal(r, p))
	})
}

// RequireSignedIn rejects requests without an authenticated principal.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			Unauthorized(w, msgNotProvided)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Unauthorized writes a 401 JSON response with the given detail.
func Unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", Scheme)
	jsonio.Write(w, http.StatusUnauthorized, map[string]string{"detail": detail})
}

// ParseAuthorization extracts the key from a "Token <key>" or
// "Bearer <key>" header value. The scheme is case-insensitive.
func ParseAuthorization(header string) (string, bool) {
	scheme, key, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	switch strings.ToLower(scheme) {
	case "token", "bearer":
	default:
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", false
	}
	return key, true
}
