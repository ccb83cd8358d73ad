package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/Emmanu-hec2a/bass42/app/models"
	"github.com/Emmanu-hec2a/bass42/app/repository"
	"github.com/Emmanu-hec2a/bass42/internal/pkg/utils"
)

// ============================================================================
// ADMIN ANNOUNCEMENT CONTROLLER - Repository Pattern
// ============================================================================

// AdminAnnouncementController handles admin announcement HTTP requests using repository pattern
type AdminAnnouncementController struct {
	announcementRepo repository.AnnouncementRepository
}

// NewAdminAnnouncementController creates a new admin announcement controller with repository
func NewAdminAnnouncementController(announcementRepo repository.AnnouncementRepository) *AdminAnnouncementController {
	return &AdminAnnouncementController{
		announcementRepo: announcementRepo,
	}
}

// ============================================================================
// GLOBAL ADMIN ANNOUNCEMENT CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var adminAnnouncementController *AdminAnnouncementController

// InitializeAdminAnnouncementController initializes the global admin announcement controller
func InitializeAdminAnnouncementController() {
	announcementRepo := repository.GetGlobalFactory().GetAnnouncementRepository()
	adminAnnouncementController = NewAdminAnnouncementController(announcementRepo)
}

// GetAdminAnnouncementController returns the global admin announcement controller instance
func GetAdminAnnouncementController() *AdminAnnouncementController {
	if adminAnnouncementController == nil {
		InitializeAdminAnnouncementController()
	}
	return adminAnnouncementController
}

type announcementRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Emoji   string `json:"emoji"`
}

// HandleAdminAnnouncementStore creates a new announcement
func (aac *AdminAnnouncementController) HandleAdminAnnouncementStore(c *fiber.Ctx) error {
	var req announcementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	announcement := &models.Announcement{
		Title:   utils.StripHTML(req.Title),
		Content: utils.StripHTML(req.Content),
		Emoji:   req.Emoji,
	}
	if announcement.Emoji == "" {
		announcement.Emoji = "📢"
	}
	if err := announcement.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Title and content are required"})
	}

	if err := aac.announcementRepo.Create(announcement); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create announcement"})
	}

	return c.Status(fiber.StatusCreated).JSON(announcement)
}

// HandleAdminAnnouncementUpdate updates an existing announcement
func (aac *AdminAnnouncementController) HandleAdminAnnouncementUpdate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid announcement ID"})
	}

	announcement, err := aac.announcementRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Announcement not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load announcement"})
	}

	var req announcementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	if req.Title != "" {
		announcement.Title = utils.StripHTML(req.Title)
	}
	if req.Content != "" {
		announcement.Content = utils.StripHTML(req.Content)
	}
	if req.Emoji != "" {
		announcement.Emoji = req.Emoji
	}
	if err := announcement.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_failed", "message": "Title and content are required"})
	}

	if err := aac.announcementRepo.Update(announcement); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update announcement"})
	}

	return c.JSON(announcement)
}

// HandleAdminAnnouncementDelete deletes an announcement
func (aac *AdminAnnouncementController) HandleAdminAnnouncementDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid announcement ID"})
	}

	if _, err := aac.announcementRepo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Announcement not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load announcement"})
	}

	if err := aac.announcementRepo.Delete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete announcement"})
	}

	return c.JSON(fiber.Map{"success": true})
}
