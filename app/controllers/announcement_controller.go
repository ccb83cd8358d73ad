package controllers

import (
	"errors"
	"strconv"

	"github.com/Emmanu-hec2a/bass42/app/repository"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HandleAnnouncementList returns all announcements, newest first
func HandleAnnouncementList(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetAnnouncementRepository()
	announcements, err := repo.GetAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to fetch announcements"})
	}
	return c.JSON(announcements)
}

// HandleAnnouncementShow returns a single announcement
func HandleAnnouncementShow(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid announcement ID"})
	}

	repo := repository.GetGlobalFactory().GetAnnouncementRepository()
	announcement, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Announcement not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load announcement"})
	}
	return c.JSON(announcement)
}
