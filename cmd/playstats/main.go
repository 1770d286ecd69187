package main

import (
	"os"

	"playstats/internal/amqp"
	"playstats/internal/backend"
	"playstats/internal/cli"
	applog "playstats/internal/log"
)

func main() {
	os.Exit(run())
}

// run returns the process exit status so deferred cleanup completes before
// main exits.
func run() int {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Failed to prepare backend configuration", applog.FieldError, err, applog.FieldBackend, cfg.StoreBackend)
		return 1
	}
	store, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateStore(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize report store", applog.FieldError, err, applog.FieldBackend, cfg.StoreBackend)
		return 1
	}

	var pub summaryPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without publishing", applog.FieldError, err)
		} else {
			defer client.Close()
			pub = client
			logger.Info("Initialized AMQP client",
				applog.FieldExchange, cfg.AMQPExchange,
				applog.FieldQueue, cfg.AMQPQueue)
		}
	}

	results, err := runAll(ctx, logger, store, cfg.Bucket, cfg.Packages, cfg.PackageConcurrency, pub)
	if err != nil {
		logger.Error("Failed to aggregate monthly installs", applog.FieldError, err, applog.FieldBucket, cfg.Bucket)
		return 1
	}
	if err := writeResults(os.Stdout, cfg.Packages, results); err != nil {
		logger.Error("Failed to write results", applog.FieldError, err)
		return 1
	}
	return 0
}
