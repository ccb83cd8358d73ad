package router

import (
	"github.com/Emmanu-hec2a/bass42/app/controllers"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Donation flow
	app.Post("/support", controllers.HandleSupport)

	// Payment provider callbacks (no auth, provider retries on non-ack)
	app.Post("/mpesa/callback", controllers.HandleMpesaCallback)

	// Public school content
	app.Get("/announcements", controllers.HandleAnnouncementList)
	app.Get("/announcements/:id", controllers.HandleAnnouncementShow)

	// Alumni registry
	app.Post("/submit-alumni", controllers.HandleAlumniSubmit)
	app.Get("/alumni-list", controllers.HandleAlumniList)
}
