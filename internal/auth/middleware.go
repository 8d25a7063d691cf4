package auth

import (
    "context"
    "net/http"
    "strings"

    "github.com/djbenjaminfranklin-sketch/shy-sub000/internal/common/utils"
)

// Middleware verifies JWT access tokens issued by the identity service and
// puts the caller's identity on the request context. Token issuance lives
// elsewhere; this service only consumes tokens.
type Middleware struct {
    secret string
}

func NewMiddleware(secret string) *Middleware {
    return &Middleware{secret: secret}
}

// Authenticate protects a route. It verifies the token and adds user
// information to the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        token := m.extractToken(r)
        if token == "" {
            utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
            return
        }

        claims, err := utils.ValidateJWT(token, m.secret)
        if err != nil {
            utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
            return
        }

        if claims.Type != "access" {
            utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token type")
            return
        }

        ctx := context.WithValue(r.Context(), "userID", claims.UserID)
        ctx = context.WithValue(ctx, "email", claims.Email)
        ctx = context.WithValue(ctx, "username", claims.Username)

        next.ServeHTTP(w, r.WithContext(ctx))
    })
}

// OptionalAuthenticate adds user context when a valid token is present but
// never rejects the request.
func (m *Middleware) OptionalAuthenticate(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        token := m.extractToken(r)
        if token == "" {
            next.ServeHTTP(w, r)
            return
        }

        claims, err := utils.ValidateJWT(token, m.secret)
        if err == nil && claims.Type == "access" {
            ctx := context.WithValue(r.Context(), "userID", claims.UserID)
            ctx = context.WithValue(ctx, "email", claims.Email)
            ctx = context.WithValue(ctx, "username", claims.Username)
            r = r.WithContext(ctx)
        }

        next.ServeHTTP(w, r)
    })
}

// extractToken pulls the token out of a "Bearer <token>" header.
func (m *Middleware) extractToken(r *http.Request) string {
    authHeader := r.Header.Get("Authorization")
    if authHeader == "" {
        return ""
    }

    parts := strings.Split(authHeader, " ")
    if len(parts) != 2 || parts[0] != "Bearer" {
        return ""
    }
    return parts[1]
}

// GetUserIDFromContext extracts the authenticated user id from a request
// context.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
    userID, ok := ctx.Value("userID").(int64)
    return userID, ok
}
