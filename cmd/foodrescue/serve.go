package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodrescue/internal/db"
	"foodrescue/internal/market"
	"foodrescue/internal/server"
	"foodrescue/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	if config.DatabaseURL == "" {
		instance, dsn, err := db.StartEmbedded(config)
		if err != nil {
			return err
		}
		defer func() {
			if err := instance.Stop(); err != nil {
				logger.WithError(err).Warn("failed to stop embedded postgres")
			}
		}()

		config.DatabaseURL = dsn
		logger.WithField("data_dir", config.EmbeddedDataDir).Info("embedded postgres started")
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	marketSvc := market.New(ctx, store.NewPostgres(pool), logger)

	var s3Client *s3.Client
	if config.S3BucketName != "" {
		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}
		s3Client = s3.NewFromConfig(awsConfig)
	} else {
		logger.Info("no S3 bucket configured, photo uploads disabled")
	}

	srv, err := server.New(config, logger, marketSvc, s3Client)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
