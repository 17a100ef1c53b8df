package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/taskhub-dev/taskhub/db"
	"github.com/taskhub-dev/taskhub/internal/auth"
	"github.com/taskhub-dev/taskhub/internal/models"
	"github.com/taskhub-dev/taskhub/internal/types"
)

type AuthenticatedUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthMiddleware resolves the acting user from a Bearer header or the token
// cookie. Guests asking for HTML get the sign-in redirect; JSON clients get a
// 401 body instead.
func AuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx)

		if tokenString == "" {
			if cookie, err := ctx.Cookie("token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			rejectGuest(ctx)
			return
		}

		token, err := auth.VerifyJWT(tokenString)

		if err != nil || !token.Valid {
			rejectGuest(ctx)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)

		if !ok {
			rejectGuest(ctx)
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)

		if !ok {
			rejectGuest(ctx)
			return
		}

		var user models.User

		if err := db.DB.Where("id = ?", uint(userIDFloat)).First(&user).Error; err != nil {
			rejectGuest(ctx)
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:    user.ID,
			Name:  user.Name(),
			Email: user.Email,
		})
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

func rejectGuest(ctx *gin.Context) {
	if WantsJSON(ctx) {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in required"})
		return
	}

	ctx.Redirect(http.StatusFound, types.SignInPath)
	ctx.Abort()
}

// WantsJSON reports whether the client asked for a structured body rather
// than the browser-style redirect flow.
func WantsJSON(ctx *gin.Context) bool {
	if ctx.Query("format") == "json" {
		return true
	}

	accept := ctx.GetHeader("Accept")
	return strings.Contains(accept, "application/json")
}
