package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationTypeTicketAssigned = "ticket_assigned"
	NotificationTypeTicketStatus   = "ticket_status_changed"
)

// Notification is an in-app message shown in the bell menu. Rows are created
// by the dispatcher when the recipient has the push or desktop channel on.
type Notification struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_user_read" json:"user_id"`

	Type  string `gorm:"size:50;not null" json:"type"`
	Title string `gorm:"size:255;not null" json:"title"`
	Body  string `gorm:"type:text" json:"body"`
	Read  bool   `gorm:"not null;default:false;index:idx_notifications_user_read" json:"read"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		n.ID = id
	}
	return nil
}

func (Notification) TableName() string {
	return "notifications"
}
