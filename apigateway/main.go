package main

import (
	"context"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/locvowork/task_management_sample/apigateway/internal/bootstrap"
	"github.com/locvowork/task_management_sample/apigateway/internal/config"
	"github.com/locvowork/task_management_sample/apigateway/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, "Failed to initialize application: %v", err)
		os.Exit(1)
	}

	go func() {
		if err := app.Run(); err != nil {
			logger.ErrorLog(ctx, "Application failed: %v", err)
			os.Exit(1)
		}
	}()
	logger.InfoLog(ctx, "Listening on :%s", config.DefaultEnvConfig.APP_PORT)

	wait := gfshutdown.GracefulShutdown(
		ctx,
		config.DefaultEnvConfig.SHUTDOWN_TIMEOUT,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				logger.InfoLog(ctx, "Graceful shutdown initiated...")
				return app.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait
	logger.InfoLog(ctx, "Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}
