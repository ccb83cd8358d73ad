package repository

import (
	"errors"

	"github.com/Emmanu-hec2a/bass42/app/models"
	"gorm.io/gorm"
)

// messageRepository implements the MessageRepository interface
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository instance
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create stores a new chat message
func (r *messageRepository) Create(m *models.Message) error {
	return r.db.Create(m).Error
}

// GetByID retrieves a single message with its sender
func (r *messageRepository) GetByID(id uint) (*models.Message, error) {
	var m models.Message
	err := r.db.Preload("Sender").First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetAll retrieves the full chat history in chronological order
func (r *messageRepository) GetAll() ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").Order("created_at ASC").Find(&messages).Error
	return messages, err
}

// DeleteOwned deletes a message only when it belongs to the given sender,
// along with its reactions. Returns false when nothing matched.
func (r *messageRepository) DeleteOwned(id, senderID uint) (bool, error) {
	var deleted bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND sender_id = ?", id, senderID).Delete(&models.Message{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Where("message_id = ?", id).Delete(&models.Reaction{}).Error
	})
	return deleted, err
}

// ToggleReaction adds the reaction if absent, removes it if present.
func (r *messageRepository) ToggleReaction(messageID, teacherID uint, reaction string) error {
	var existing models.Reaction
	err := r.db.Where("message_id = ? AND teacher_id = ? AND reaction = ?", messageID, teacherID, reaction).
		First(&existing).Error
	if err == nil {
		return r.db.Delete(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&models.Reaction{
		MessageID: messageID,
		TeacherID: teacherID,
		Reaction:  reaction,
	}).Error
}

// ReactionCounts aggregates reactions for a message by emoji
func (r *messageRepository) ReactionCounts(messageID uint) (map[string]int64, error) {
	type row struct {
		Reaction string
		Count    int64
	}
	var rows []row
	err := r.db.Model(&models.Reaction{}).
		Select("reaction, COUNT(*) as count").
		Where("message_id = ?", messageID).
		Group("reaction").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Reaction] = r.Count
	}
	return counts, nil
}
