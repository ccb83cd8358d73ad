package controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Emmanu-hec2a/bass42/app/models"
	"github.com/Emmanu-hec2a/bass42/app/repository"
	"github.com/Emmanu-hec2a/bass42/internal/pkg/database"
	"github.com/Emmanu-hec2a/bass42/internal/pkg/donation"
	"github.com/Emmanu-hec2a/bass42/internal/pkg/statistics"
)

// HandleAdminStats returns the cached dashboard statistics
func HandleAdminStats(c *fiber.Ctx) error {
	return c.JSON(statistics.GetDashboardStats())
}

// HandleAdminDonations lists every payment attempt, newest first
func HandleAdminDonations(c *fiber.Ctx) error {
	repo := donation.NewRepository(database.GetDB())
	donations, err := repo.ListAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to fetch donations"})
	}
	return c.JSON(donations)
}

// HandleAdminPendingTeachers lists staff accounts awaiting review
func HandleAdminPendingTeachers(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetTeacherRepository()
	pending, err := repo.GetPending()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to fetch pending teachers"})
	}
	return c.JSON(pending)
}

// HandleAdminApproveTeacher approves a pending staff account
func HandleAdminApproveTeacher(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid teacher ID"})
	}

	repo := repository.GetGlobalFactory().GetTeacherRepository()
	if err := repo.Approve(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Teacher not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to approve teacher"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// HandleAdminRejectTeacher removes a staff account and its pending approval
func HandleAdminRejectTeacher(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid teacher ID"})
	}

	repo := repository.GetGlobalFactory().GetTeacherRepository()
	if err := repo.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Teacher not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to remove teacher"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// HandleAdminGenerateCode mints a single-use staff registration code
func HandleAdminGenerateCode(c *fiber.Ctx) error {
	code := &models.RegistrationCode{
		Code: "STAFF-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10]),
	}

	repo := repository.GetGlobalFactory().GetTeacherRepository()
	if err := repo.CreateCode(code); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to generate code"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "code": code.Code})
}

// HandleAdminListCodes lists unused registration codes
func HandleAdminListCodes(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetTeacherRepository()
	codes, err := repo.GetUnusedCodes()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to fetch codes"})
	}
	return c.JSON(codes)
}
