package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"school-advisor/internal/service"
)

const authClaimsKey = "auth_claims"

// OptionalJWTMiddleware resuelve la identidad si viene un Bearer token.
// Sin header la request sigue como anonima (preview); con un token roto o
// vencido se corta con 401.
func OptionalJWTMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader("Authorization")) == "" {
			c.Next()
			return
		}
		if !authenticate(c, jwtSvc) {
			return
		}
		c.Next()
	}
}

// JWTAuthMiddleware exige un access token valido.
func JWTAuthMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == "" && !authenticate(c, jwtSvc) {
			return
		}
		c.Next()
	}
}

// authenticate parsea el Bearer token y guarda los claims. Si falla ya
// escribio la respuesta y abortó la cadena.
func authenticate(c *gin.Context, jwtSvc *service.JWTService) bool {
	if jwtSvc == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
		return false
	}
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return false
	}
	claims, err := jwtSvc.ParseAccessToken(token)
	if err != nil {
		msg := "invalid token"
		if errors.Is(err, service.ErrJWTExpired) {
			msg = "token expired"
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
		return false
	}
	c.Set(authClaimsKey, claims)
	return true
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetAuthClaims obtiene claims de JWT desde el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}

// CurrentUserID devuelve "" para requests anonimas.
func CurrentUserID(c *gin.Context) string {
	claims, ok := GetAuthClaims(c)
	if !ok {
		return ""
	}
	return claims.UserID
}

// requireUser escribe 401 y devuelve false si la request es anonima.
func requireUser(c *gin.Context) (string, bool) {
	userID := CurrentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", false
	}
	return userID, true
}
