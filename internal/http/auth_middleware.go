package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/StellarBearX/stanlendar-sub003/internal/service"
)

const authClaimsKey = "auth_claims"

// loginRedirectBody es el placeholder que ve un navegador mientras se lo
// redirige a la pantalla de login.
const loginRedirectBody = "Redirecting to login..."

// AuthGuard protege rutas: con token válido deja pasar y guarda claims en el
// contexto; sin él, los navegadores reciben redirect a /login y los clientes
// de API un 401.
func AuthGuard(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			rejectUnauthenticated(c)
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		claims, err := jwtSvc.ParseAccessToken(token)
		if err != nil {
			rejectUnauthenticated(c)
			return
		}

		c.Set(authClaimsKey, claims)
		c.Next()
	}
}

func rejectUnauthenticated(c *gin.Context) {
	if wantsHTML(c) {
		c.Header("Location", "/login")
		c.String(http.StatusFound, loginRedirectBody)
	} else {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
	}
	c.Abort()
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
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
