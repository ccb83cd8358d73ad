package router

import (
	"github.com/Emmanu-hec2a/bass42/app/controllers"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// Initialize support controller with the payment provider client
	controllers.InitializeSupportController()

	// Initialize admin announcement controller with repository
	controllers.InitializeAdminAnnouncementController()

	h.registerPublicRoutes(app)
	h.registerAdminRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
