package main

import (
	"context"
	"flag"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/kesuzuki/notably/internal/config"
	"github.com/kesuzuki/notably/internal/domain"
	"github.com/kesuzuki/notably/internal/infra/database"
	"github.com/kesuzuki/notably/internal/infra/repository"
	"github.com/kesuzuki/notably/internal/present/rest"
	authmw "github.com/kesuzuki/notably/internal/present/rest/middleware"
	"github.com/kesuzuki/notably/internal/service"
	"github.com/kesuzuki/notably/internal/usecase"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "c", "config/config.yaml", "path to config file")
	flag.Parse()

	conf, err := config.Load(configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if conf.Server.EnableTrace {
		cleanup, err := setupTraceProvider(conf.Server.TraceEndpoint, conf.NodeInfo.FQDN)
		if err != nil {
			panic("failed to setup trace provider: " + err.Error())
		}
		defer cleanup()
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		panic("failed to connect database")
	}

	err = database.MigratePostgres(db)
	if err != nil {
		panic("failed to migrate database")
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, "", conf.Server.RedisDB)

	var mc *memcache.Client
	if conf.Server.MemcachedAddr != "" {
		mc = database.NewMemcached(conf.Server.MemcachedAddr)
	}

	domainConf := domain.Config{
		FQDN:   conf.NodeInfo.FQDN,
		Secret: conf.NodeInfo.Secret,
	}

	userRepo := repository.NewUserRepository(db)
	revocationRepo := repository.NewRevocationRepository(rdb, mc)

	tokenService := service.NewTokenService(domainConf)
	passwordService := service.NewPasswordService()
	authService := service.NewAuthService(domainConf, revocationRepo)
	signalService := service.NewSignalService(rdb)

	accountUC := usecase.NewAccountUsecase(userRepo, tokenService, passwordService, revocationRepo)
	noteUC := usecase.NewNoteUsecase(userRepo, signalService)

	authMiddleware := authmw.NewAuthMiddleware(authService, domainConf)
	handler := rest.NewHandler(domainConf, accountUC, noteUC, signalService)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware(conf.NodeInfo.FQDN))
	}

	handler.RegisterRoutes(e, authMiddleware)

	e.Logger.Fatal(e.Start(conf.Server.ListenAddr))
}

func setupTraceProvider(endpoint string, fqdn string) (func(), error) {
	exporter, err := otlptracehttp.New(
		context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String("notably"),
		semconv.HostNameKey.String(fqdn),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	cleanup := func() {
		_ = tp.Shutdown(context.Background())
	}
	return cleanup, nil
}
