package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// NewApp builds the Fiber application with the full middleware stack and
// all routes registered. The /v1 group requires the API token; /health is
// public.
func NewApp(handler *PlanHandler, apiToken string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "fundlens v1",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(errorResponse{
				Error: "rate limit exceeded",
				Code:  fiber.StatusTooManyRequests,
			})
		},
	}))

	app.Get("/health", Health)

	v1 := app.Group("/v1", AuthMiddleware(apiToken))
	v1.Post("/plans", handler.CreatePlan)
	v1.Get("/plans", handler.ListPlans)
	v1.Get("/plans/:id", handler.GetPlan)
	v1.Delete("/plans/:id", handler.DeactivatePlan)
	v1.Get("/plans/:id/valuation", handler.GetValuation)
	v1.Get("/plans/:id/performance", handler.GetPerformance)
	v1.Get("/instruments/search", handler.SearchInstruments)

	return app
}
