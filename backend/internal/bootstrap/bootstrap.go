/*
 * @Author: NEFU AB-IN
 * @Date: 2026-09-23 20:51:28
 * @FilePath: \rental-desk\backend\internal\bootstrap\bootstrap.go
 * @LastEditTime: 2026-09-23 20:51:34
 */
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"rental-desk/backend/internal/app"
	"rental-desk/backend/internal/config"
	"rental-desk/backend/internal/handler"
	appLogger "rental-desk/backend/internal/infra/logger"
	"rental-desk/backend/internal/infra/ratelimit"
	"rental-desk/backend/internal/infra/token"
	"rental-desk/backend/internal/middleware"
	"rental-desk/backend/internal/repository"
	"rental-desk/backend/internal/scheduler"
	"rental-desk/backend/internal/server"
	apartmentsvc "rental-desk/backend/internal/service/apartment"
	authsvc "rental-desk/backend/internal/service/auth"
	rentsvc "rental-desk/backend/internal/service/rent"
	"rental-desk/backend/internal/service/revenue"
	visitorsvc "rental-desk/backend/internal/service/visitor"

	"go.uber.org/zap"
)

// Application 聚合对外提供服务所需的全部组件。
type Application struct {
	Resources  *app.Resources
	RevenueSvc *revenue.Service
	RentSvc    *rentsvc.Service
	Scheduler  *scheduler.ReportScheduler
	Router     http.Handler
}

// BuildApplication 组装仓储、服务、handler 与路由。
func BuildApplication(ctx context.Context, logger *zap.SugaredLogger, resources *app.Resources, cfg config.ServerConfig) (*Application, error) {
	if resources == nil || resources.DB == nil {
		return nil, errors.New("resources not initialised")
	}
	if logger == nil {
		logger = appLogger.S()
	}
	reportCfg := resources.Config.Report

	payments := repository.NewPaymentRepository(resources.DB)
	apartments := repository.NewApartmentRepository(resources.DB)
	visitors := repository.NewVisitorRepository(resources.DB)
	staff := repository.NewStaffRepository(resources.DB)

	revenueService, err := revenue.NewService(revenue.Config{
		Rounding:    revenue.Rounding(reportCfg.Rounding),
		Location:    reportCfg.Location,
		DefaultDays: reportCfg.DefaultDays,
	}, logger, payments, apartments)
	if err != nil {
		return nil, fmt.Errorf("build revenue service: %w", err)
	}
	rentService := rentsvc.NewService(resources.DB, logger)

	var authMW middleware.Authenticator
	var authHandler *handler.AuthHandler
	if resources.Config.IsLocal() {
		local := resources.Config.Local
		authMW = middleware.NewOfflineAuthMiddleware(local.StaffID, local.IsAdmin)
		logger.Infow("local mode: requests run as fixed staff", "staff_id", local.StaffID, "is_admin", local.IsAdmin)
	} else {
		if cfg.JWTSecret == "" {
			return nil, errors.New("JWT_SECRET is required in online mode")
		}
		tokens := token.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL)
		authHandler = handler.NewAuthHandler(authsvc.NewService(staff, tokens, logger), logger)
		authMW = middleware.NewAuthMiddleware(tokens)
	}

	policy := ratelimit.Policy{Limit: reportCfg.RateLimit, Window: reportCfg.RateWindow}
	var limiter ratelimit.Limiter
	if resources.Redis != nil {
		limiter = ratelimit.NewRedisLimiter(resources.Redis, "rentaldesk:report", policy)
	} else {
		limiter = ratelimit.NewMemoryLimiter(policy)
	}

	router := server.NewRouter(server.RouterOptions{
		AuthHandler:      authHandler,
		ReportHandler:    handler.NewReportHandler(revenueService, logger),
		RentHandler:      handler.NewRentHandler(rentService, logger),
		ApartmentHandler: handler.NewApartmentHandler(apartmentsvc.NewService(apartments), logger),
		VisitorHandler:   handler.NewVisitorHandler(visitorsvc.NewService(visitors), logger),
		AuthMW:           authMW,
		ReportLimiter:    middleware.NewRateLimitMiddleware(limiter, "report", logger),
	})

	return &Application{
		Resources:  resources,
		RevenueSvc: revenueService,
		RentSvc:    rentService,
		Scheduler:  scheduler.NewReportScheduler(reportCfg.ExportCron, reportCfg.ExportDir, revenueService, logger),
		Router:     router,
	}, nil
}
