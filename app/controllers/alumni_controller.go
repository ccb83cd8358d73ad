package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Emmanu-hec2a/bass42/app/models"
	"github.com/Emmanu-hec2a/bass42/app/repository"
	"github.com/Emmanu-hec2a/bass42/internal/pkg/donation"
)

type alumniRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	YearStarted  int    `json:"year_started"`
	YearFinished int    `json:"year_finished"`
}

// HandleAlumniSubmit registers a former student through the public form
func HandleAlumniSubmit(c *fiber.Ctx) error {
	var req alumniRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	phone, err := donation.NormalizePhone(req.Phone)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid phone number format"})
	}

	alumni := &models.Alumni{
		Name:         req.Name,
		Phone:        phone,
		YearStarted:  req.YearStarted,
		YearFinished: req.YearFinished,
	}
	if err := alumni.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Check your name and the years you attended"})
	}

	repo := repository.GetGlobalFactory().GetAlumniRepository()
	if err := repo.Create(alumni); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to save registration"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Welcome to the alumni network!"})
}

// HandleAlumniList returns all registered alumni
func HandleAlumniList(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetAlumniRepository()
	alumni, err := repo.GetAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to fetch alumni"})
	}
	return c.JSON(alumni)
}
