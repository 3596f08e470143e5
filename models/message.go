package models

import "time"

// Message is one inbox entry; replies reference the parent to form a thread.
type Message struct {
	MessageID       int        `gorm:"primaryKey;column:message_id" json:"message_id"`
	SenderID        int        `gorm:"column:sender_id" json:"sender_id"`
	RecipientID     int        `gorm:"column:recipient_id" json:"recipient_id"`
	Subject         string     `gorm:"column:subject" json:"subject"`
	Body            string     `gorm:"column:body" json:"body"`
	ParentMessageID *int       `gorm:"column:parent_message_id" json:"parent_message_id,omitempty"`
	IsRead          bool       `gorm:"column:is_read" json:"is_read"`
	ReadAt          *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
	CreateAt        time.Time  `gorm:"column:create_at" json:"created_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Sender    User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}

func (Message) TableName() string { return "messages" }
