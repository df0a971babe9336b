package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"healthrisk/config"
	"healthrisk/db"
	riskhttp "healthrisk/http"
	"healthrisk/logging"
	"healthrisk/ml"
	"healthrisk/monitoring"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		stop()
		log.Fatalf("healthrisk: %v", err)
	}
}

// run builds the pipeline and serves until ctx is done. Dataset and training
// failures are returned before the server starts.
func run(ctx context.Context, configPath string) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Logger
	logger, level, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// 3. Load dataset and fit the model once
	source, err := db.NewSource(cfg.Dataset)
	if err != nil {
		return err
	}
	pipeline, err := ml.NewPipeline(source, ml.PipelineConfig{
		Target:    cfg.Dataset.Target,
		CacheSize: cfg.Cache.Size,
	}, logger)
	if err != nil {
		logger.Error("failed to build model",
			zap.String("kind", ml.ErrorKind(err)),
			zap.Error(err))
		return err
	}

	metrics := monitoring.NewMetrics()
	metrics.SetModel(pipeline.Model().Diagnostics().RSquared, pipeline.Dataset().Len())

	// 4. HTTP server
	server := riskhttp.NewServer(riskhttp.ServerConfig{
		Port:           cfg.Server.Port,
		Timeout:        cfg.Server.Timeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	}, pipeline, metrics, logger)

	// 5. Run until ctx is done
	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-ctx.Done()
		return server.Stop()
	})
	g.Go(func() error {
		return config.Watch(ctx, configPath, func(next *config.Config) {
			if err := logging.SetLevel(level, next.Log.Level); err != nil {
				logger.Warn("ignoring log level", zap.Error(err))
				return
			}
			logger.Info("log level updated", zap.String("level", next.Log.Level))
		}, logger)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		return err
	}
	logger.Info("exiting")
	return nil
}
