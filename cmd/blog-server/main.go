package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nrednav/cuid2"
	"uk.co.dudmesh.blogger/internal/boot"
	"uk.co.dudmesh.blogger/internal/handlers"
	"uk.co.dudmesh.blogger/internal/service/auth"
	"uk.co.dudmesh.blogger/internal/service/post"
	"uk.co.dudmesh.blogger/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %+v", err)
	}

	config, err := boot.Load()
	if err != nil {
		log.Fatalf("boot: %+v", err)
	}

	ctx := context.Background()
	db, err := store.Open(ctx, config)
	if err != nil {
		log.Fatalf("store: %+v", err)
	}
	defer db.Close()

	authService, err := auth.New(db, config)
	if err != nil {
		log.Fatalf("auth service: %+v", err)
	}
	postService := post.New(db)

	server := echo.New()
	server.Use(middleware.BodyLimit("1M"))
	server.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	server.Use(echoprometheus.NewMiddleware("blogger"))
	server.Use(middleware.Recover())

	server.Logger.SetLevel(log.INFO)

	server.Static("/static", config.Server.StaticDir)

	t, err := handlers.NewTemplate(config.Server.ViewsDir)
	if err != nil {
		log.Fatalf("templates: %+v", err)
	}
	defer t.Close()
	if config.IsDevelopment() {
		if err := t.Watch(); err != nil {
			log.Fatalf("watcher: %+v", err)
		}
	}
	server.Renderer = t

	pages := server.Group("", session.Middleware(handlers.NewCookieStore(config)), handlers.CSRF(config))
	handlers.Routes(pages, authService, postService)

	go func() {
		metrics := echo.New()
		metrics.HideBanner = true
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(":" + config.Server.MetricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	go func() {
		if err := server.Start(":" + config.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		server.Logger.Fatal(err)
	}
}
