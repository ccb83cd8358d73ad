package router

import (
	"github.com/Emmanu-hec2a/bass42/app/controllers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	// Staff accounts
	api.Post("/teachers/register", controllers.HandleTeacherRegister)

	// Staff chat
	api.Get("/messages", controllers.HandleMessageList)
	api.Post("/messages", controllers.HandleMessageCreate)
	api.Delete("/messages/:id", controllers.HandleMessageDelete)
	api.Post("/messages/:id/react", controllers.HandleMessageReact)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
