// Package technician manages the staff records tickets are assigned to.
// Records are admin-only and never deleted; deactivation takes a technician
// out of the assignment pool while keeping history intact.
package technician

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hamyarhq/hamyar_backend/internal/models"
	"github.com/hamyarhq/hamyar_backend/pkg/validate"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Specialty string `json:"specialty" validate:"omitempty,max=100"`
}

// UpdateRequest mirrors CreateRequest; edits replace the whole record.
type UpdateRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Specialty string `json:"specialty" validate:"omitempty,max=100"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// List returns technicians ordered by creation time. A non-nil active
	// filters to that activation state.
	List(ctx context.Context, active *bool) ([]models.Technician, error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.Technician, error)

	Create(ctx context.Context, req CreateRequest) (*models.Technician, error)

	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*models.Technician, error)

	// SetActive toggles whether the technician can receive new assignments.
	// Existing assignments are untouched.
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Technician, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type technicianService struct {
	db *gorm.DB
}

func New(db *gorm.DB) Service {
	return &technicianService{db: db}
}

func (s *technicianService) List(ctx context.Context, active *bool) ([]models.Technician, error) {
	q := s.db.WithContext(ctx).Order("created_at ASC")
	if active != nil {
		q = q.Where("active = ?", *active)
	}
	var rows []models.Technician
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	return rows, nil
}

func (s *technicianService) GetByID(ctx context.Context, id uuid.UUID) (*models.Technician, error) {
	var row models.Technician
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get technician: %w", err)
	}
	return &row, nil
}

func (s *technicianService) Create(ctx context.Context, req CreateRequest) (*models.Technician, error) {
	req.normalize()
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	taken, err := s.emailTaken(ctx, req.Email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	row := models.Technician{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Specialty: req.Specialty,
		Active:    true,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create technician: %w", err)
	}
	return &row, nil
}

func (s *technicianService) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*models.Technician, error) {
	req.normalize()
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	row, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != row.Email {
		taken, err := s.emailTaken(ctx, req.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	row.FirstName = req.FirstName
	row.LastName = req.LastName
	row.Email = req.Email
	row.Phone = req.Phone
	row.Specialty = req.Specialty
	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, fmt.Errorf("update technician: %w", err)
	}
	return row, nil
}

func (s *technicianService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*models.Technician, error) {
	row, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	row.Active = active
	err = s.db.WithContext(ctx).Model(row).Select("active").Updates(row).Error
	if err != nil {
		return nil, fmt.Errorf("set technician active: %w", err)
	}
	return row, nil
}

func (s *technicianService) emailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	q := s.db.WithContext(ctx).Model(&models.Technician{}).Where("email = ?", email)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, fmt.Errorf("check technician email: %w", err)
	}
	return n > 0, nil
}

func (r *CreateRequest) normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Specialty = strings.TrimSpace(r.Specialty)
}

func (r *UpdateRequest) normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Specialty = strings.TrimSpace(r.Specialty)
}
