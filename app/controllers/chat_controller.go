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

type messageRequest struct {
	SenderID uint   `json:"sender_id"`
	Content  string `json:"content"`
	ReplyTo  *uint  `json:"reply_to"`
}

type reactionRequest struct {
	TeacherID uint   `json:"teacher_id"`
	Reaction  string `json:"reaction"`
}

// approvedSender loads the sending teacher and checks they may post.
func approvedSender(id uint) (*models.Teacher, error) {
	teacher, err := repository.GetGlobalFactory().GetTeacherRepository().GetByID(id)
	if err != nil {
		return nil, err
	}
	if !teacher.IsApproved {
		return nil, errors.New("teacher not approved")
	}
	return teacher, nil
}

// HandleMessageList returns all staff chat messages with reaction tallies
func HandleMessageList(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetMessageRepository()
	messages, err := repo.GetAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to fetch messages"})
	}

	out := make([]fiber.Map, 0, len(messages))
	for _, m := range messages {
		counts, err := repo.ReactionCounts(m.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to fetch reactions"})
		}
		out = append(out, fiber.Map{
			"id":            m.ID,
			"sender_id":     m.SenderID,
			"sender_name":   m.Sender.FirstName,
			"sender_avatar": utils.GetGravatarURL(m.Sender.Email, 80),
			"content":       m.Content,
			"reply_to":      m.ReplyTo,
			"created_at":    m.CreatedAt,
			"reactions":     counts,
		})
	}

	return c.JSON(out)
}

// HandleMessageCreate posts a new staff chat message
func HandleMessageCreate(c *fiber.Ctx) error {
	var req messageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	if _, err := approvedSender(req.SenderID); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Only approved staff can post"})
	}

	message := &models.Message{
		SenderID: req.SenderID,
		Content:  utils.StripHTML(req.Content),
		ReplyTo:  req.ReplyTo,
	}
	if err := message.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Message content is required"})
	}

	repo := repository.GetGlobalFactory().GetMessageRepository()
	if req.ReplyTo != nil {
		if _, err := repo.GetByID(*req.ReplyTo); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Replied-to message does not exist"})
		}
	}
	if err := repo.Create(message); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to post message"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "id": message.ID})
}

// HandleMessageDelete removes a message the sender owns, with its reactions
func HandleMessageDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid message ID"})
	}

	var req struct {
		SenderID uint `json:"sender_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.SenderID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "sender_id is required"})
	}

	repo := repository.GetGlobalFactory().GetMessageRepository()
	deleted, err := repo.DeleteOwned(uint(id), req.SenderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Message not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to delete message"})
	}
	if !deleted {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "You can only delete your own messages"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// HandleMessageReact toggles an emoji reaction on a message
func HandleMessageReact(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid message ID"})
	}

	var req reactionRequest
	if err := c.BodyParser(&req); err != nil || req.Reaction == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "teacher_id and reaction are required"})
	}

	if _, err := approvedSender(req.TeacherID); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Only approved staff can react"})
	}

	repo := repository.GetGlobalFactory().GetMessageRepository()
	if _, err := repo.GetByID(uint(id)); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Message not found"})
	}

	if err := repo.ToggleReaction(uint(id), req.TeacherID, req.Reaction); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to toggle reaction"})
	}

	counts, err := repo.ReactionCounts(uint(id))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch reactions"})
	}

	return c.JSON(fiber.Map{"success": true, "reactions": counts})
}
