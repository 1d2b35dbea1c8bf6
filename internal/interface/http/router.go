package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanqian/hiking-guide/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	// X-Forwarded-For is honored only from the configured proxies.
	if err := router.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		logger.Warn("invalid trusted proxies, trusting none", "error", err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(logger),
		errorHandlingMiddleware(logger),
	)

	limiter := rateLimitMiddleware(cfg.HTTP.RateLimit, logger)

	// CORS runs ahead of the limiter so rejected /api calls stay readable.
	api := router.Group("/api", corsMiddleware(handler.forwarder), limiter)
	{
		api.Any("/*path", handler.Forward)
	}

	site := router.Group("", limiter)
	{
		site.GET("/", handler.ShowForm)
		site.POST("/", handler.SubmitForm)
		site.GET("/healthz", handler.Health)
		site.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
