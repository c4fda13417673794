package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/venturalabs/ventura/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(products *handlers.ProductHandler, actions *handlers.ActionHandler, scans *handlers.ScanHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	{
		api.GET("/products", products.List)
		api.POST("/products", products.Create)
		api.GET("/products/:id", products.Get)
		api.PATCH("/products/:id", products.Update)
		api.DELETE("/products/:id", products.Delete)

		api.POST("/query", actions.Propose)
		api.POST("/execute-action", actions.Execute)

		api.POST("/product/receive", scans.Receive)
		api.POST("/product/scan", scans.Scan)
		api.GET("/product/check-scanned", scans.Poll)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
