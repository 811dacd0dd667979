package main

import (
	"context"

	"github.com/example/employee-gateway/internal/bootstrap"
	"github.com/example/employee-gateway/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		panic(err)
	}

	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, "Server stopped", err)
	}
}
