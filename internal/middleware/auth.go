package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskman/internal/auth"
	"taskman/internal/models"
	"taskman/internal/store"
)

const (
	userContextKey  = "auth_user"
	tokenContextKey = "auth_token"

	// One message for every failure mode; the reason is never leaked.
	authFailedMessage = "Please authenticate!"
)

// Auth gates protected routes. The bearer token must carry a valid
// signature AND still be present on the embedded user's active-token list;
// either check failing aborts with the same generic 401.
func Auth(users *store.UserStore, tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthenticated(c)
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			abortUnauthenticated(c)
			return
		}
		tokenString := tokenParts[1]

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		user, err := users.GetByIDAndToken(c.Request.Context(), claims.UserID, tokenString)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		c.Set(userContextKey, user)
		c.Set(tokenContextKey, tokenString)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": authFailedMessage})
	c.Abort()
}

// UserFromContext returns the user resolved by Auth.
func UserFromContext(c *gin.Context) (*models.User, bool) {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// TokenFromContext returns the raw bearer token the request authenticated with.
func TokenFromContext(c *gin.Context) (string, bool) {
	value, ok := c.Get(tokenContextKey)
	if !ok {
		return "", false
	}
	token, ok := value.(string)
	return token, ok
}
