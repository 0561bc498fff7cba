/*
 * @Author: NEFU AB-IN
 * @Date: 2026-09-23 19:55:11
 * @FilePath: \rental-desk\backend\cmd\server\main.go
 * @LastEditTime: 2026-09-23 19:55:16
 */
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental-desk/backend/internal/app"
	"rental-desk/backend/internal/bootstrap"
	"rental-desk/backend/internal/config"
	"rental-desk/backend/internal/infra/logger"
	"rental-desk/backend/internal/infra/metrics"
	"rental-desk/backend/internal/scheduler"
)

func main() {
	zapLogger, err := logger.Init()
	if err != nil {
		panic(fmt.Sprintf("init logger failed: %v", err))
	}
	defer logger.Sync()
	sugar := zapLogger.Sugar()

	metrics.MustRegister()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resources, err := app.InitResources(ctx)
	if err != nil {
		sugar.Fatalw("initialise resources failed", "error", err)
	}
	defer func() {
		if err := resources.Close(); err != nil {
			sugar.Warnw("resource cleanup error", "error", err)
		}
	}()

	serverCfg := config.LoadServerConfig(resources.Config.RuntimeFlags)
	application, err := bootstrap.BuildApplication(ctx, sugar, resources, serverCfg)
	if err != nil {
		sugar.Fatalw("build application failed", "error", err)
	}

	if err := application.Scheduler.Start(); err != nil {
		if errors.Is(err, scheduler.ErrScheduleDisabled) {
			sugar.Infow("report export schedule disabled")
		} else {
			sugar.Fatalw("start report scheduler failed", "error", err)
		}
	} else {
		defer application.Scheduler.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + serverCfg.Port,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		sugar.Infow("http server listening", "addr", srv.Addr, "mode", resources.Config.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Errorw("http server stopped unexpectedly", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	sugar.Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("graceful shutdown failed", "error", err)
	}
}
