package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Emmanu-hec2a/bass42/app/models"
	"github.com/Emmanu-hec2a/bass42/app/repository"
)

type teacherRegisterRequest struct {
	FirstName        string `json:"first_name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	RegistrationCode string `json:"registration_code"`
}

// HandleTeacherRegister creates a staff account. Accounts on a school mail
// domain or carrying a valid single-use registration code are approved
// immediately; everyone else waits for admin review.
func HandleTeacherRegister(c *fiber.Ctx) error {
	var req teacherRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FirstName = strings.TrimSpace(req.FirstName)
	if req.FirstName == "" || req.Email == "" || len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Name, email and a password of at least 8 characters are required"})
	}

	repo := repository.GetGlobalFactory().GetTeacherRepository()

	exists, err := repo.EmailExists(req.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to check email"})
	}
	if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "An account with this email already exists"})
	}

	approved := models.IsSchoolEmail(req.Email)
	codeUsed := ""
	if !approved && req.RegistrationCode != "" {
		valid, err := repo.CodeIsValid(req.RegistrationCode)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to check registration code"})
		}
		if !valid {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid or already used registration code"})
		}
		codeUsed = req.RegistrationCode
	}

	teacher, err := models.CreateTeacher(req.FirstName, req.Email, req.Password, codeUsed, approved)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Check your name, email and password"})
	}

	if err := repo.Create(teacher); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create account"})
	}

	if codeUsed != "" {
		// The validity check above is advisory; claiming the code is the
		// atomic step. A lost race leaves the account pending admin review.
		if err := repo.UseCode(codeUsed, teacher.ID); err == nil {
			if err := repo.Approve(teacher.ID); err == nil {
				teacher.IsApproved = true
			}
		}
	}

	message := "Account created. You can start chatting right away."
	if !teacher.IsApproved {
		message = "Account created. An administrator will review your registration."
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":     true,
		"message":     message,
		"teacher_id":  teacher.ID,
		"is_approved": teacher.IsApproved,
	})
}
