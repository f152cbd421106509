package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gopherairtime/gopherairtime/app/repository"
	"github.com/gopherairtime/gopherairtime/internal/pkg/cache"
	"github.com/gopherairtime/gopherairtime/internal/pkg/database"
	"github.com/gopherairtime/gopherairtime/internal/pkg/env"
	"github.com/gopherairtime/gopherairtime/internal/pkg/jobqueue"
	"github.com/gopherairtime/gopherairtime/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	// background pipeline: workers, schedulers, stuck recovery
	jobqueue.GetManager().Start()

	app := fiber.New(fiber.Config{
		AppName: "gopherairtime",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "admin"),
		},
	}), monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
