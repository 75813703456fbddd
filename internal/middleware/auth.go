package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/business-os/backend/api/transport"
	"github.com/business-os/backend/repository"
)

// Headers stamped on the request once the session resolves. Handlers read
// these instead of touching token or session state themselves.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
	HeaderSessionID = "X-Session-ID"
)

const resolveTimeout = 3 * time.Second

// SessionAuth is the session resolver: it parses the bearer token, loads the
// referenced session from Redis and rejects the request before any
// persistence access when no valid session exists.
func SessionAuth(secret string, sessions repository.SessionRepository, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := []byte(secret)

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				unauthorized(ctx)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return key, nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid session token", zap.Error(err))
				unauthorized(ctx)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				unauthorized(ctx)
				return
			}
			sessionID, _ := claims["session_id"].(string)
			if sessionID == "" {
				unauthorized(ctx)
				return
			}

			// The Redis lookup is what makes logout effective: a revoked
			// session fails here even while the token is still unexpired.
			stdCtx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
			session, err := sessions.Get(stdCtx, sessionID)
			cancel()
			if err != nil || session.IsExpired(time.Now()) {
				if err != nil {
					logger.Warn("session lookup failed", zap.String("session_id", sessionID), zap.Error(err))
				}
				unauthorized(ctx)
				return
			}

			identity := session.Identity()
			ctx.Request.Header.Set(HeaderUserID, identity.UserID)
			ctx.Request.Header.Set(HeaderUserEmail, identity.Email)
			ctx.Request.Header.Set(HeaderUserRole, identity.Role)
			ctx.Request.Header.Set(HeaderSessionID, session.ID)

			next(ctx)
		}
	}
}

func unauthorized(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusUnauthorized)
	body, _ := json.Marshal(transport.ErrorResponse{Error: "No autorizado"})
	ctx.SetBody(body)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
