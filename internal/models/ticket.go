package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusWaiting    = "waiting"
	TicketStatusClosed     = "closed"

	TicketPriorityLow    = "low"
	TicketPriorityNormal = "normal"
	TicketPriorityHigh   = "high"
	TicketPriorityUrgent = "urgent"
)

// Ticket is a support request submitted by a user. Priority, status and the
// SLA due time fall back to system settings when the submitter leaves them
// unset. TechnicianID stays nil until an admin assigns someone.
type Ticket struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_tickets_user_status" json:"user_id"`
	TechnicianID *uuid.UUID `gorm:"type:uuid;index" json:"technician_id"`

	Subject     string `gorm:"size:255;not null" json:"subject"`
	Description string `gorm:"type:text" json:"description"`
	Status      string `gorm:"size:20;not null;default:'open';index:idx_tickets_user_status" json:"status"`
	Priority    string `gorm:"size:20;not null;default:'normal'" json:"priority"`

	DueAt          *time.Time                  `json:"due_at"`
	AttachmentKeys datatypes.JSONSlice[string] `json:"attachment_keys"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User       *User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Technician *Technician `gorm:"foreignKey:TechnicianID" json:"-"`
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		t.ID = id
	}
	return nil
}

func (Ticket) TableName() string {
	return "tickets"
}

func ValidTicketStatus(v string) bool {
	switch v {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusWaiting, TicketStatusClosed:
		return true
	}
	return false
}

func ValidTicketPriority(v string) bool {
	switch v {
	case TicketPriorityLow, TicketPriorityNormal, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}
