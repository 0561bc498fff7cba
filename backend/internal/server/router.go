package server

import (
	"fmt"
	"strings"
	"time"

	"rental-desk/backend/internal/handler"
	"rental-desk/backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	AuthHandler      *handler.AuthHandler
	ReportHandler    *handler.ReportHandler
	RentHandler      *handler.RentHandler
	ApartmentHandler *handler.ApartmentHandler
	VisitorHandler   *handler.VisitorHandler
	AuthMW           middleware.Authenticator
	ReportLimiter    *middleware.RateLimitMiddleware
}

// NewRouter 构建应用的 Gin Engine，汇总所有 REST 接口与公共中间件配置。
func NewRouter(opts RouterOptions) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  false,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
		AllowOriginFunc: func(origin string) bool {
			if origin == "" {
				return false
			}
			if origin == "null" {
				return true
			}
			return strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")
		},
	}))
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: gin.LogFormatter(func(params gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s\" %d %s\n",
				params.ClientIP,
				params.TimeStamp.Format(time.RFC3339),
				params.Method,
				params.Path,
				params.StatusCode,
				params.Latency,
			)
		}),
		SkipPaths: []string{"/metrics"},
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		if opts.AuthHandler != nil {
			api.POST("/auth/login", opts.AuthHandler.Login)
		}

		// 以下路由都需要登录，写操作额外要求管理员。
		protected := api.Group("")
		if opts.AuthMW != nil {
			protected.Use(opts.AuthMW.Handle())
		}

		if opts.ReportHandler != nil {
			reports := protected.Group("/reports")
			if opts.ReportLimiter != nil {
				reports.Use(opts.ReportLimiter.Handle())
			}
			reports.GET("/adr", opts.ReportHandler.ADR)
			reports.GET("/adr/export", opts.ReportHandler.ExportADR)
			reports.GET("/revpar", opts.ReportHandler.RevPAR)
			reports.GET("/revpar/export", opts.ReportHandler.ExportRevPAR)
		}

		if opts.RentHandler != nil {
			rents := protected.Group("/rents")
			rents.GET("", opts.RentHandler.List)
			rents.GET("/options", opts.RentHandler.Options)
			rents.POST("", middleware.RequireAdmin(), opts.RentHandler.Create)
			rents.PUT("/:id", middleware.RequireAdmin(), opts.RentHandler.Update)
			rents.DELETE("/:id", middleware.RequireAdmin(), opts.RentHandler.Delete)
		}

		if opts.ApartmentHandler != nil {
			apartments := protected.Group("/apartments")
			apartments.GET("", opts.ApartmentHandler.List)
			apartments.GET("/lookups", opts.ApartmentHandler.Lookups)
			apartments.POST("", middleware.RequireAdmin(), opts.ApartmentHandler.Create)
			apartments.PUT("/:id", middleware.RequireAdmin(), opts.ApartmentHandler.Update)
			apartments.DELETE("/:id", middleware.RequireAdmin(), opts.ApartmentHandler.Delete)
		}

		if opts.VisitorHandler != nil {
			visitors := protected.Group("/visitors")
			visitors.GET("", opts.VisitorHandler.List)
			visitors.POST("", middleware.RequireAdmin(), opts.VisitorHandler.Create)
			visitors.PUT("/:id", middleware.RequireAdmin(), opts.VisitorHandler.Update)
			visitors.DELETE("/:id", middleware.RequireAdmin(), opts.VisitorHandler.Delete)
		}
	}

	return r
}
