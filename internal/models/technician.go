package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Technician is an admin-managed staff record that tickets are assigned to.
// Technicians are not accounts; deactivation (Active=false) is the retirement
// path, there is no delete.
type Technician struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName string    `gorm:"size:100;not null" json:"first_name"`
	LastName  string    `gorm:"size:100;not null" json:"last_name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Specialty string    `gorm:"size:100" json:"specialty"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Technician) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		t.ID = id
	}
	return nil
}

func (Technician) TableName() string {
	return "technicians"
}

func (t *Technician) FullName() string {
	return t.FirstName + " " + t.LastName
}
