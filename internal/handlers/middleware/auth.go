package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/rafabene/orquesta-admin/internal/domain/errors"
	"github.com/rafabene/orquesta-admin/internal/domain/ports"
	"github.com/rafabene/orquesta-admin/internal/handlers/dto"
)

const (
	// UserIDContextKey guarda o id do usuário autenticado
	UserIDContextKey = "user_id"
	// SessionIDContextKey guarda o id da sessão do token
	SessionIDContextKey = "session_id"
)

// Authenticator valida um token de acesso
type Authenticator interface {
	Authenticate(token string) (*ports.TokenClaims, error)
}

// Authorizer decide se um usuário tem a capability pedida
type Authorizer interface {
	Authorize(ctx context.Context, userID uint, resource, action string) (bool, error)
}

// Authenticate exige um token válido no header Authorization (Bearer) ou no
// parâmetro ?token=, usado pelo upgrade de websocket
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			dto.Abort(c, dto.UnauthorizedErrorResponseI18n(c, ""))
			return
		}

		claims, err := auth.Authenticate(token)
		if err != nil {
			dto.Abort(c, dto.UnauthorizedErrorResponseI18n(c, domainerrors.ErrUnauthorized.Error()))
			return
		}

		c.Set(UserIDContextKey, claims.UserID)
		c.Set(SessionIDContextKey, claims.SessionID)
		c.Next()
	}
}

// RequirePermission re-resolve a identidade a cada requisição e responde 403
// "acesso restrito" quando o rol não concede resource:action
func RequirePermission(authorizer Authorizer, logger ports.Logger, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			dto.Abort(c, dto.UnauthorizedErrorResponseI18n(c, ""))
			return
		}

		allowed, err := authorizer.Authorize(c.Request.Context(), userID, resource, action)
		switch {
		case errors.Is(err, domainerrors.ErrUserNotFound), errors.Is(err, domainerrors.ErrInactiveUser):
			dto.Abort(c, dto.UnauthorizedErrorResponseI18n(c, err.Error()))
			return
		case err != nil:
			logger.Error("failed to authorize request",
				"user_id", userID,
				"resource", resource,
				"action", action,
				"error", err,
			)
			dto.Abort(c, dto.InternalErrorResponseI18n(c))
			return
		case !allowed:
			logger.Debug("access denied",
				"user_id", userID,
				"resource", resource,
				"action", action,
			)
			dto.Abort(c, dto.AccessDeniedResponseI18n(c, resource, action))
			return
		}

		c.Next()
	}
}

// GetUserID retorna o usuário autenticado da requisição
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(UserIDContextKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok && id != 0
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
