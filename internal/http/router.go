package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/StellarBearX/stanlendar-sub003/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	userH *UserHandler,
	importH *ImportHandler,
	scheduleH *ScheduleHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	auth := r.Group("/auth")
	auth.POST("/register", userH.Register)
	auth.POST("/login", userH.Login)
	auth.POST("/refresh", userH.RefreshToken)
	auth.POST("/logout", userH.Logout)

	// Todo lo demás exige un access token válido.
	protected := r.Group("", AuthGuard(jwtSvc))

	users := protected.Group("/users")
	users.GET("/me", userH.Me)
	users.PATCH("/me", userH.UpdateSettings)

	imports := protected.Group("/imports")
	imports.POST("", importH.CreateImport)
	imports.GET("", importH.ListImports)
	imports.GET("/:id", importH.GetImport)
	imports.GET("/:id/items", importH.ListImportItems)
	imports.POST("/:id/items", importH.CreateImportItem)

	items := protected.Group("/import-items")
	items.GET("", importH.ListAllItems)
	items.GET("/:itemID", importH.GetImportItem)
	items.PATCH("/:itemID", importH.UpdateImportItem)
	items.DELETE("/:itemID", importH.DeleteImportItem)

	protected.GET("/schedule", scheduleH.ListSchedule)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
