package FiberConfig

import (
	"MagicPlanner/Controllers"
	"MagicPlanner/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// MaxPhotoSize bounds request bodies, which carry camera photos.
const MaxPhotoSize = 20 * 1024 * 1024

func SetupRoutes(app *fiber.App, h *Controllers.Handler, auth fiber.Handler) {
	app.Get("/health", h.Health)

	api := app.Group("/api")
	api.Post("/login", h.Login)

	private := api.Group("", auth)
	private.Post("/logout", h.Logout)
	private.Get("/account", h.Account)
	private.Get("/settings", h.Settings)

	private.Get("/tasks", h.Tasks)
	private.Post("/tasks/:id/start", h.StartTask)
	private.Get("/tasks/:id/subtasks", h.SubTasks)

	private.Put("/subtasks/:id", h.UpdateSubTask)
	private.Post("/subtasks/:id/photo", h.UploadPhoto)
	private.Post("/subtasks/:id/photo/begin", h.BeginPhoto)
	private.Post("/subtasks/:id/photo/cancel", h.CancelPhoto)

	private.Get("/progress", h.Progress)
	private.Get("/progress/export", h.ExportProgress)

	private.Get("/chat", h.ChatHistory)
	private.Post("/chat", h.SendChat)
	private.Get("/materials", h.Materials)

	private.Post("/device-token", h.RegisterDeviceToken)
}

// New builds the fiber app with the planner's middleware and routes.
func New(h *Controllers.Handler, jwtSecret string, sessions middleware.Sessions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "MagicPlanner",
		BodyLimit:             MaxPhotoSize,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost",
		AllowMethods:     "GET,POST,PUT,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, h, middleware.Verify(jwtSecret, sessions))
	return app
}
