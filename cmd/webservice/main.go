package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Iphint/Sayurku/config"
	"github.com/Iphint/Sayurku/internal/controller"
	"github.com/Iphint/Sayurku/internal/infrastructure/database/postgres"
	"github.com/Iphint/Sayurku/internal/infrastructure/message-queue/kafka"
	"github.com/Iphint/Sayurku/internal/infrastructure/tracing"
	localmiddleware "github.com/Iphint/Sayurku/internal/middleware"
	"github.com/Iphint/Sayurku/internal/repository"
	"github.com/Iphint/Sayurku/internal/service"
	"github.com/Iphint/Sayurku/pkg/filestore"
	"github.com/Iphint/Sayurku/pkg/response"
	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger

	conf := config.CreateNewConfig()

	db, err := postgres.GetDBInstance(conf.PostgreSQLConfig.DBUsername, conf.PostgreSQLConfig.DBPassword, conf.PostgreSQLConfig.DBHost, conf.PostgreSQLConfig.DBPort, conf.PostgreSQLConfig.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the database")
	}

	fileStore, err := filestore.CreateFileStore(conf.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create upload directory")
	}

	kafkaProducer := kafka.CreateKafkaProducer(conf)

	traceProvider, err := tracing.InitTracing(conf.TracingConfig.CollectorHost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize tracing")
	}

	defer func() {
		if traceProvider == nil {
			return
		}
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown tracing")
		}
	}()

	e := echo.New()
	g := e.Group("/api/v1")

	if traceProvider != nil {
		tracer := traceProvider.Tracer("marketplace-service")
		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
				defer span.End()

				req := c.Request()
				c.SetRequest(req.WithContext(ctx))

				return next(c)
			}
		})
	}

	// Used empty string so that metrics are not prefixed with the service name
	e.Use(echoprometheus.NewMiddleware(""))
	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(fmt.Sprintf(":%s", conf.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	e.Use(localmiddleware.Logger)
	e.Static("/uploads", fileStore.Dir())

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, map[string]string{"message": "pong"})
	})

	isLoggedIn := localmiddleware.IsLoggedIn(conf.JWTSecret)

	userRepo := repository.CreateUserRepository(db)
	userSvc := service.CreateUserService(userRepo, *conf)
	controller.CreateUserController(g, userSvc)

	productRepo := repository.CreateProductRepository(db)
	productSvc := service.CreateProductService(productRepo, fileStore, *conf, kafkaProducer)
	controller.CreateProductController(g, productSvc, fileStore, isLoggedIn)

	transactionRepo := repository.CreateTransactionRepository(db)
	transactionSvc := service.CreateTransactionService(transactionRepo, *conf, kafkaProducer)
	controller.CreateTransactionController(g, transactionSvc, isLoggedIn)

	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}

	_, err = s.NewJob(
		gocron.DurationJob(
			30*time.Minute,
		),
		gocron.NewTask(
			productSvc.SweepOrphanFiles,
		),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule orphan sweep")
	}

	s.Start()

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", conf.ServicePort)))
}
