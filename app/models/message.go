package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Message is a staff chat message, optionally a threaded reply.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SenderID  uint      `gorm:"index;not null" json:"sender_id"`
	Sender    Teacher   `gorm:"foreignKey:SenderID" json:"sender"`
	Content   string    `gorm:"type:text;not null" json:"content" validate:"required,max=4000"`
	ReplyTo   *uint     `gorm:"index;default:null" json:"reply_to,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

func (m *Message) Validate() error {
	v := validator.New()

	return v.Struct(m)
}

// Reaction is a single emoji reaction a teacher left on a message. A teacher
// can leave each emoji on a message at most once.
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"index:ux_reactions_message_teacher_reaction,unique,priority:1;not null" json:"message_id"`
	TeacherID uint      `gorm:"index:ux_reactions_message_teacher_reaction,unique,priority:2;not null" json:"teacher_id"`
	Reaction  string    `gorm:"index:ux_reactions_message_teacher_reaction,unique,priority:3;type:varchar(16);not null" json:"reaction"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the Reaction model
func (Reaction) TableName() string {
	return "reactions"
}
