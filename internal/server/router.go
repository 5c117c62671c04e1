// Package server 组装 HTTP 路由：通用中间件、各业务模块路由、健康检查与指标
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/ratelimit"
)

// RouteRegistrar 各模块的 HTTP 入口
type RouteRegistrar interface {
	RegisterRoutes(router gin.IRouter)
}

// HealthChecker 健康检查依赖，通常为数据库
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Options 路由组装所需的依赖，除 Registrars 外均可为空
type Options struct {
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	MetricsPath string
	Limiter     ratelimit.RateLimiter
	RateLimit   config.RateLimitConfig
	Health      HealthChecker
	Registrars  []RouteRegistrar
}

const healthTimeout = 2 * time.Second

// NewRouter 创建 gin 引擎并注册全部路由。
// 未匹配的路由返回 404 {"error": "not found"}。
func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.GinRequestIDMiddleware(),
		middleware.GinRecoveryMiddleware(),
		middleware.GinLoggingMiddleware(),
		middleware.GinMetricsMiddleware(opts.Metrics),
		middleware.GinCORSMiddleware(),
	)

	r.GET("/healthz", healthHandler(opts.Health))
	if opts.Gatherer != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(metrics.Handler(opts.Gatherer)))
	}

	// 限流只作用于业务路由
	api := r.Group("")
	if opts.Limiter != nil && opts.RateLimit.Enabled {
		api.Use(middleware.RateLimitMiddleware(opts.Limiter, opts.RateLimit))
	}
	for _, reg := range opts.Registrars {
		reg.RegisterRoutes(api)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}

func healthHandler(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := checker.Ping(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
