package main

import (
	"time"

	"lostfound/app"
	"lostfound/internal/middleware"
	"lostfound/pkg/events"
	"lostfound/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type dependencies struct {
	repository         app.Repository
	publisher          events.Publisher
	recorder           metrics.Recorder
	gatherer           prometheus.Gatherer
	publicBaseURL      string
	reactionRateLimit  int
	reactionRateWindow time.Duration
}

func newApp(deps dependencies) *fiber.App {
	if deps.recorder == nil {
		deps.recorder = metrics.Nop{}
	}

	fiberApp := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
	})

	fiberApp.Use(recover.New())
	fiberApp.Use(middleware.NewMetricsMiddleware(deps.recorder))

	fiberApp.Get("/healthz", func(c *fiber.Ctx) error {
		body := fiber.Map{"status": "ok"}
		if broker, ok := deps.publisher.(interface{ IsHealthy() bool }); ok {
			body["events"] = broker.IsHealthy()
		}
		return c.JSON(body)
	})
	if deps.gatherer != nil {
		fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.gatherer, promhttp.HandlerOpts{})))
	}

	createItemHandler := app.NewCreateItemHandler(deps.repository, deps.publisher, deps.recorder)
	getItemsHandler := app.NewGetItemsHandler(deps.repository)
	getItemStatsHandler := app.NewGetItemStatsHandler(deps.repository)
	getItemHandler := app.NewGetItemHandler(deps.repository)
	decideItemHandler := app.NewDecideItemHandler(deps.repository, deps.publisher, deps.recorder)
	createSightingHandler := app.NewCreateSightingHandler(deps.repository, deps.publisher, deps.recorder)
	createCommentHandler := app.NewCreateCommentHandler(deps.repository, deps.publisher, deps.recorder)
	getCommentsHandler := app.NewGetCommentsHandler(deps.repository)
	createReactionHandler := app.NewCreateReactionHandler(deps.repository, deps.publisher, deps.recorder)
	shareItemHandler := app.NewShareItemHandler(deps.repository, deps.publicBaseURL)

	routes := fiberApp.Group("/api/v1", middleware.NewIdentityMiddleware())
	routes.Post("/items", handle[app.CreateItemRequest, app.CreateItemResponse](createItemHandler))
	routes.Get("/items", handle[app.GetItemsRequest, app.GetItemsResponse](getItemsHandler))
	routes.Get("/items/stats", handle[app.GetItemStatsRequest, app.GetItemStatsResponse](getItemStatsHandler))
	routes.Get("/items/:id", handle[app.GetItemRequest, app.GetItemResponse](getItemHandler))
	routes.Post("/items/:id/decision", handle[app.DecideItemRequest, app.DecideItemResponse](decideItemHandler))
	routes.Post("/items/:id/sightings", handle[app.CreateSightingRequest, app.CreateSightingResponse](createSightingHandler))
	routes.Get("/items/:id/comments", handle[app.GetCommentsRequest, app.GetCommentsResponse](getCommentsHandler))
	routes.Post("/items/:id/comments", handle[app.CreateCommentRequest, app.CreateCommentResponse](createCommentHandler))
	routes.Post("/items/:id/reactions",
		middleware.NewReactionLimiter(deps.reactionRateLimit, deps.reactionRateWindow),
		handle[app.CreateReactionRequest, app.CreateReactionResponse](createReactionHandler),
	)
	routes.Get("/items/:id/share", handle[app.ShareItemRequest, app.ShareItemResponse](shareItemHandler))

	return fiberApp
}
