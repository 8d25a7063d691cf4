package auth

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/common/utils"
)

const testSecret = "test-secret"

func protectedHandler(t *testing.T, wantUserID int64) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        userID, ok := GetUserIDFromContext(r.Context())
        if !ok {
            t.Error("userID missing from context")
        }
        if userID != wantUserID {
            t.Errorf("userID = %d, want %d", userID, wantUserID)
        }
        w.WriteHeader(http.StatusOK)
    })
}

func TestAuthenticateValidToken(t *testing.T) {
    token, err := utils.GenerateJWT(42, "a@b.c", "alice", "access", testSecret, time.Hour)
    if err != nil {
        t.Fatalf("GenerateJWT returned error: %v", err)
    }

    middleware := NewMiddleware(testSecret)
    req := httptest.NewRequest("GET", "/", nil)
    req.Header.Set("Authorization", "Bearer "+token)
    rec := httptest.NewRecorder()

    middleware.Authenticate(protectedHandler(t, 42)).ServeHTTP(rec, req)

    if rec.Code != http.StatusOK {
        t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
    }
}

func TestAuthenticateRejections(t *testing.T) {
    middleware := NewMiddleware(testSecret)

    expired, _ := utils.GenerateJWT(42, "a@b.c", "alice", "access", testSecret, -time.Hour)
    wrongSecret, _ := utils.GenerateJWT(42, "a@b.c", "alice", "access", "other-secret", time.Hour)
    refresh, _ := utils.GenerateJWT(42, "a@b.c", "alice", "refresh", testSecret, time.Hour)

    tests := []struct {
        name   string
        header string
    }{
        {"missing header", ""},
        {"malformed header", "token-without-bearer"},
        {"expired token", "Bearer " + expired},
        {"wrong secret", "Bearer " + wrongSecret},
        {"refresh token on protected route", "Bearer " + refresh},
    }

    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            req := httptest.NewRequest("GET", "/", nil)
            if tt.header != "" {
                req.Header.Set("Authorization", tt.header)
            }
            rec := httptest.NewRecorder()

            called := false
            next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
                called = true
            })
            middleware.Authenticate(next).ServeHTTP(rec, req)

            if called {
                t.Error("handler should not be reached")
            }
            if rec.Code != http.StatusUnauthorized {
                t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
            }
        })
    }
}

func TestOptionalAuthenticate(t *testing.T) {
    middleware := NewMiddleware(testSecret)

    req := httptest.NewRequest("GET", "/", nil)
    rec := httptest.NewRecorder()

    middleware.OptionalAuthenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if _, ok := GetUserIDFromContext(r.Context()); ok {
            t.Error("anonymous request should have no userID")
        }
        w.WriteHeader(http.StatusOK)
    })).ServeHTTP(rec, req)

    if rec.Code != http.StatusOK {
        t.Errorf("anonymous request status = %d, want %d", rec.Code, http.StatusOK)
    }

    token, _ := utils.GenerateJWT(7, "a@b.c", "bob", "access", testSecret, time.Hour)
    req = httptest.NewRequest("GET", "/", nil)
    req.Header.Set("Authorization", "Bearer "+token)
    rec = httptest.NewRecorder()

    middleware.OptionalAuthenticate(protectedHandler(t, 7)).ServeHTTP(rec, req)

    if rec.Code != http.StatusOK {
        t.Errorf("authenticated request status = %d, want %d", rec.Code, http.StatusOK)
    }
}
