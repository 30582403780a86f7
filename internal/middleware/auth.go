package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/wajeehjabribrahim/manajel-store/internal/dto"
	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// gin context keys
const (
	CtxUserID   = "user_id"
	CtxUserRole = "user_role"
	CtxToken    = "access_token"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Claims, error)
}

// Authenticate resolves an optional bearer token into a request identity.
// Requests without a usable token continue anonymously; RequireUser and
// RequireRole decide whether that is acceptable.
func Authenticate(auth Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.Next()
			return
		}
		token, ok := ExtractBearerToken(authz)
		if !ok || token == "" {
			log.Debug("malformed Authorization header")
			c.Next()
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Debug("token rejected", zap.Error(err))
			c.Next()
			return
		}

		c.Set(CtxUserID, claims.UserID.String())
		c.Set(CtxUserRole, string(claims.Role))
		c.Set(CtxToken, token)
		c.Request = c.Request.WithContext(service.WithIdentity(c.Request.Context(), claims.UserID, claims.Role))
		c.Next()
	}
}

// RequireUser rejects anonymous requests with 401.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := service.UserIDFromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError(dto.MsgLoginRequired))
			return
		}
		c.Next()
	}
}

// RequireRole rejects anonymous requests with 401 and other roles with 403.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if _, ok := service.UserIDFromContext(ctx); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError(dto.MsgLoginRequired))
			return
		}
		if r, _ := service.RoleFromContext(ctx); r != role {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewForbiddenError(dto.MsgAdminRequired))
			return
		}
		c.Next()
	}
}

// ExtractBearerToken pulls the token out of an Authorization header,
// tolerating quotes and trailing garbage after a comma or space.
func ExtractBearerToken(authz string) (string, bool) {
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	t := strings.Trim(strings.TrimSpace(parts[1]), " \"'")
	if i := strings.IndexAny(t, ", "); i >= 0 {
		t = t[:i]
	}
	return strings.Trim(t, " \"'"), true
}
