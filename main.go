package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/finance-server/api"
	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/config"
	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
)

func main() {
	logger := logging.SetupLogging()
	logrus.SetFormatter(logger.Formatter)
	logrus.Info("finance-server starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}
	if err := logging.SetLevel(logger, envConfig.LogLevel); err != nil {
		logrus.WithError(err).Fatal("logging.SetLevel")
		return
	}
	logrus.SetLevel(logger.GetLevel())

	if envConfig.MigrateOnStart {
		result, err := storage.RunMigrations(envConfig.PostgresURL())
		if err != nil {
			logrus.WithError(err).Fatal("storage.RunMigrations")
			return
		}
		logrus.WithFields(logrus.Fields{
			"preMigrationVersion":  result.PreMigrationVersion,
			"postMigrationVersion": result.PostMigrationVersion,
		}).Info("Migration status")
	}

	dbStorage, err := storage.NewStorage(envConfig)
	if err != nil {
		logrus.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer dbStorage.Close()

	var publisher events.Publisher = events.NopPublisher{}
	var amqpPublisher *events.AMQPPublisher
	if envConfig.AMQPURL != "" {
		amqpPublisher, err = events.NewAMQPPublisher(envConfig.AMQPURL, envConfig.AMQPExchange)
		if err != nil {
			logrus.WithError(err).Fatal("events.NewAMQPPublisher")
			return
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	delegator := operator.NewOperatorDelegator(dbStorage, envConfig.OperatorWorkers, logger)

	tokens := auth.NewTokens([]byte(envConfig.JWTSecret))
	svc := service.NewService(dbStorage, delegator, tokens, publisher, envConfig.BcryptCost)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The workers outlive the HTTP server so in-flight writes can finish.
	serverCtx, serverStopped := context.WithCancel(context.Background())
	defer serverStopped()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer serverStopped()
		httpRest := api.Rest{
			Logger:   logger,
			Port:     envConfig.Port,
			Service:  svc,
			Tokens:   tokens,
			Database: dbStorage,
		}
		return httpRest.Serve(groupCtx)
	})
	group.Go(func() error {
		return delegator.Run(serverCtx)
	})
	if amqpPublisher != nil {
		group.Go(func() error {
			return amqpPublisher.Watch(groupCtx)
		})
	}

	if err := group.Wait(); err != nil {
		logrus.WithError(err).Error("finance-server stopped with error")
		return
	}
	logrus.Info("finance-server stopped")
}
