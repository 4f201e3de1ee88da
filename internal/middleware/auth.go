package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"cmenu/internal/model"
	"cmenu/internal/service"
	"cmenu/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenCookie = "access_token"
	userKey     = "user"
)

// SetTokenCookie stores the access token as an HttpOnly cookie. Release
// builds serve cross-origin and need SameSite=None with Secure.
func SetTokenCookie(c *gin.Context, token string) {
	sameSite, secure := cookiePolicy()
	c.SetSameSite(sameSite)
	c.SetCookie(tokenCookie, token, 3600*24, "/", "", secure, true)
}

// ClearTokenCookie removes the access token cookie.
func ClearTokenCookie(c *gin.Context) {
	sameSite, secure := cookiePolicy()
	c.SetSameSite(sameSite)
	c.SetCookie(tokenCookie, "", -1, "/", "", secure, true)
}

func cookiePolicy() (http.SameSite, bool) {
	if gin.Mode() == gin.ReleaseMode {
		return http.SameSiteNoneMode, true
	}
	return http.SameSiteLaxMode, false
}

// Authenticator verifies bearer tokens issued by UserService.Login.
type Authenticator struct {
	secret []byte
	users  service.UserService
}

func NewAuthenticator(secret []byte, users service.UserService) *Authenticator {
	return &Authenticator{secret: secret, users: users}
}

// RequirePermission validates the token, loads the user it names and checks
// that the user holds every listed permission. With no permissions it only
// requires an active, signed-in user.
func (a *Authenticator) RequirePermission(perms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token"))
			return
		}

		id, err := strconv.ParseUint(claims.Subject, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Invalid token claims"))
			return
		}

		user, err := a.users.GetUser(c.Request.Context(), uint(id))
		if errors.Is(err, service.ErrUserNotFound) || (err == nil && !user.Active) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Account is not active"))
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to verify permissions"))
			return
		}

		for _, p := range perms {
			if !user.HasPermission(p) {
				c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: missing permission '"+p+"'"))
				return
			}
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user attached by RequirePermission.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

// bearerToken reads the token from the cookie, falling back to the
// Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	if token, err := c.Cookie(tokenCookie); err == nil && token != "" {
		return token, true
	}
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
