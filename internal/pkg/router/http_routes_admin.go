package router

import (
	"github.com/Emmanu-hec2a/bass42/app/controllers"
	"github.com/Emmanu-hec2a/bass42/internal/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.AdminTokenMiddleware())
	adminGroup.Get("/stats", controllers.HandleAdminStats)
	adminGroup.Get("/donations", controllers.HandleAdminDonations)

	// Announcement management
	announcementController := controllers.GetAdminAnnouncementController()
	adminGroup.Post("/announcements", announcementController.HandleAdminAnnouncementStore)
	adminGroup.Post("/announcements/update/:id", announcementController.HandleAdminAnnouncementUpdate)
	adminGroup.Post("/announcements/delete/:id", announcementController.HandleAdminAnnouncementDelete)

	// Staff account review
	adminGroup.Get("/teachers/pending", controllers.HandleAdminPendingTeachers)
	adminGroup.Post("/teachers/approve/:id", controllers.HandleAdminApproveTeacher)
	adminGroup.Post("/teachers/reject/:id", controllers.HandleAdminRejectTeacher)

	// Registration codes
	adminGroup.Post("/teachers/generate-code", controllers.HandleAdminGenerateCode)
	adminGroup.Get("/teachers/codes", controllers.HandleAdminListCodes)
}
