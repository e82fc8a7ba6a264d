package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/valera-kram/recipe-app-api/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeTokens struct {
	keys map[string]primitive.ObjectID
	err  error
}

func (f fakeTokens) ResolveToken(_ context.Context, key string) (primitive.ObjectID, bool, error) {
	if f.err != nil {
		return primitive.NilObjectID, false, f.err
	}
	id, ok := f.keys[key]
	return id, ok, nil
}

type fakeUsers map[primitive.ObjectID]*auth.Principal

func (f fakeUsers) FetchUser(_ context.Context, id primitive.ObjectID) *auth.Principal {
	return f[id]
}

func newAuthenticator(tokens fakeTokens, users fakeUsers) *auth.Authenticator {
	return auth.NewAuthenticator(tokens, users, zap.NewNop())
}

// echoHandler writes the principal's email, or "anonymous".
func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := auth.CurrentUser(r); ok {
			w.Write([]byte(u.Email))
			return
		}
		w.Write([]byte("anonymous"))
	})
}

func TestLoadUser(t *testing.T) {
	uid := primitive.NewObjectID()
	inactive := primitive.NewObjectID()
	tokens := fakeTokens{keys: map[string]primitive.ObjectID{
		"goodkey":     uid,
		"inactivekey": inactive,
	}}
	users := fakeUsers{uid: {ID: uid, Email: "user@example.com"}}

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantBody string
	}{
		{"no header", "", http.StatusOK, "anonymous"},
		{"token scheme", "Token goodkey", http.StatusOK, "user@example.com"},
		{"bearer scheme", "Bearer goodkey", http.StatusOK, "user@example.com"},
		{"lowercase scheme", "token goodkey", http.StatusOK, "user@example.com"},
		{"unknown key", "Token nope", http.StatusUnauthorized, "Invalid token."},
		{"wrong scheme", "Basic Zm9vOmJhcg==", http.StatusUnauthorized, "Invalid token."},
		{"missing key", "Token", http.StatusUnauthorized, "Invalid token."},
		{"inactive user", "Token inactivekey", http.StatusUnauthorized, "User inactive or deleted."},
	}

	h := newAuthenticator(tokens, users).LoadUser(echoHandler())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
			if tt.wantCode == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") != "Token" {
				t.Errorf("WWW-Authenticate = %q", rec.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestLoadUser_LookupError_Returns500(t *testing.T) {
	h := newAuthenticator(fakeTokens{err: errors.New("db down")}, fakeUsers{}).LoadUser(echoHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token anything")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRequireSignedIn_NoUser_Returns401(t *testing.T) {
	handler := auth.RequireSignedIn(echoHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Authentication credentials were not provided.") {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestRequireSignedIn_WithUser_Proceeds(t *testing.T) {
	handler := auth.RequireSignedIn(echoHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req = auth.WithPrincipal(req, &auth.Principal{ID: primitive.NewObjectID(), Email: "me@example.com"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "me@example.com" {
		t.Errorf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := auth.CurrentUser(req); ok {
		t.Error("expected no user")
	}
}

func TestParseAuthorization(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Token abc123", "abc123", true},
		{"Bearer abc123", "abc123", true},
		{"  Token   abc123  ", "abc123", true},
		{"Token a b", "", false},
		{"Basic abc123", "", false},
		{"abc123", "", false},
		{"Token ", "", false},
	}
	for _, tt := range tests {
		got, ok := auth.ParseAuthorization(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseAuthorization(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}
