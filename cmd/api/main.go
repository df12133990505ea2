package main

import (
	"log"
	"time"

	"hanmeotapp/controllers"
	"hanmeotapp/dbhelper"
	"hanmeotapp/services"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	err := sentry.Init(sentry.ClientOptions{
		// Either set your DSN here or set the SENTRY_DSN environment variable.
		Dsn:         services.GetEnv("SENTRY_DSN", ""),
		Environment: services.GetEnv("ENV", "local"),
		Release:     "hanmeotgo@1.0.0",
		// Set TracesSampleRate to 1.0 to capture 100%
		// of transactions for performance monitoring.
		// We recommend adjusting this value in production,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Recover()
	defer sentry.Flush(2 * time.Second)

	db := dbhelper.SetupDB()
	store := services.NewDBStore(db)

	generationURL := services.GetEnv("GENERATION_API_URL", "http://localhost:8000")
	orchestrator := services.NewTryOnOrchestrator(services.NewGenerationService(generationURL))

	urlCache, err := services.NewURLCacheService(nil)
	if err != nil {
		log.Fatal("Failed to initialize URL cache service")
	}

	e := controllers.SetupServer(store, orchestrator, urlCache)
	e.Debug = true
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(3)))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Once it's done, you can attach the handler as one of your middleware
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	e.Logger.Fatal(e.Start(":8083"))
}
