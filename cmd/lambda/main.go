package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/andresuchdata/datareplica/internal/config"
	"github.com/andresuchdata/datareplica/internal/handler"
	"github.com/andresuchdata/datareplica/pkg/logger"
)

// One binary serves every function; LAMBDA_HANDLER picks the entry point.
func main() {
	cfg := config.Load()
	logger.Configure(cfg.Log.Level, cfg.Log.Format)

	fn, err := handler.New().Lookup(cfg.Lambda.Handler)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("handler", cfg.Lambda.Handler).Msg("Unknown handler")
	}

	logger.Log.Info().Str("handler", cfg.Lambda.Handler).Msg("Starting lambda handler")
	lambda.Start(fn)
}
