package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rekoonads/sweven-games-gateway/pkg/config"
	"github.com/rekoonads/sweven-games-gateway/pkg/logctx"
	"github.com/rekoonads/sweven-games-gateway/pkg/response"
	"github.com/rekoonads/sweven-games-gateway/pkg/types"
)

const identityKey = "identity"

type sessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	jwt.RegisteredClaims
}

// Identity parses an HS256 bearer session token when present and attaches
// the resulting identity to the request. Requests without a token pass
// through signed-out; enforcement is left to RequireIdentity.
func Identity(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.Next()
			return
		}

		claims := &sessionClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.Auth.Secret), nil
		})
		if err != nil || !token.Valid {
			// An unparseable token is treated as signed-out, not as an error:
			// protected routes will still refuse, public ones keep working.
			c.Next()
			return
		}

		id := types.Identity{
			UserID:    claims.Subject,
			UserName:  claims.Name,
			UserEmail: claims.Email,
			UserPhone: claims.Phone,
		}
		c.Set(identityKey, id)
		ctx := context.WithValue(c.Request.Context(), logctx.UserIDKey, id.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireIdentity rejects requests that did not present a valid session token.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IdentityFrom(c).SignedIn() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.ErrorT("Please sign in to continue"))
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the request identity, zero when signed out.
func IdentityFrom(c *gin.Context) types.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(types.Identity); ok {
			return id
		}
	}
	return types.Identity{}
}
