package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/caminoseguro/walkroute_core/internal/api"
	"github.com/caminoseguro/walkroute_core/internal/cache"
	"github.com/caminoseguro/walkroute_core/internal/dataset"
	"github.com/caminoseguro/walkroute_core/internal/graphcore"
	"github.com/caminoseguro/walkroute_core/internal/query"
)

func main() {
	log.Println("Starting walkroute API server...")

	datasetPath := getEnv("DATASET_PATH", "data/edges.csv")
	f, err := os.Open(datasetPath)
	if err != nil {
		log.Fatalf("Failed to open dataset %s: %v", datasetPath, err)
	}
	loadResult, err := dataset.Load(f)
	f.Close()
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	log.Printf("Loaded %d rows (%d rejected)", loadResult.RowCount, loadResult.RejectedCount)

	g := graphcore.BuildFromRows(loadResult.Rows)
	log.Printf("Routing graph built into memory (%d nodes, %d edges)", g.NodeCount(), g.EdgeCount())

	engine := query.NewEngine(g)
	log.Println("Spatial indexes built")

	cacheEnabled := getEnv("CACHE_ENABLED", "false") == "true"
	if cacheEnabled {
		if _, err := cache.GetClient(); err != nil {
			log.Printf("Redis cache unavailable, continuing without it: %v", err)
			cacheEnabled = false
		} else {
			defer cache.Close()
			log.Println("Redis connection established")
		}
	}

	handler := api.NewHandler(engine, cacheEnabled)

	app := fiber.New(fiber.Config{
		AppName:      "walkroute API",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	app.Get("/health", handler.Health)
	app.Get("/route", handler.Route)
	app.Get("/compare", handler.Compare)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"error": "endpoint not found",
		})
	})

	port := getEnv("API_PORT", "8080")
	addr := fmt.Sprintf(":%s", port)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	log.Printf("Server listening on http://localhost%s", addr)
	log.Printf("Route: http://localhost%s/route?origin_lon=..&origin_lat=..&dest_lon=..&dest_lat=..", addr)
	log.Printf("Health check: http://localhost%s/health", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// customErrorHandler handles errors returned from handlers.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	log.Printf("Error: %v", err)

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
