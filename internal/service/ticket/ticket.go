// Package ticket implements support requests. Creation pulls its defaults
// (status, priority, SLA due time) from system settings, assignment and
// status changes publish NATS events picked up by the notification workers.
package ticket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"gorm.io/gorm"

	"github.com/hamyarhq/hamyar_backend/internal/models"
	"github.com/hamyarhq/hamyar_backend/internal/service/settings"
	s3pkg "github.com/hamyarhq/hamyar_backend/pkg/s3"
	"github.com/hamyarhq/hamyar_backend/pkg/validate"
)

// NATS subjects; the ticket ID rides as the last token and the payload.
const (
	SubjectAssigned      = "hamyar.ticket.assigned"
	SubjectStatusChanged = "hamyar.ticket.status_changed"
)

// ObjectStore is the slice of the S3 client the upload path needs.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PresignDownload(ctx context.Context, key string) (string, error)
}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	Subject     string `json:"subject" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

type ListRequest struct {
	Status  *string
	Page    int
	PerPage int
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open in_progress waiting closed"`
}

type AttachmentResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

type Service interface {
	// List returns the caller's tickets, or every ticket for admins,
	// newest first.
	List(ctx context.Context, userID uuid.UUID, admin bool, req ListRequest) ([]models.Ticket, error)

	// GetByID returns the ticket when the caller owns it or is an admin.
	GetByID(ctx context.Context, ticketID, userID uuid.UUID, admin bool) (*models.Ticket, error)

	// Create opens a ticket for userID. Missing priority falls back to the
	// system default; status and the SLA due time always come from settings.
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*models.Ticket, error)

	// UpdateStatus moves the ticket to the given status and publishes a
	// status-changed event.
	UpdateStatus(ctx context.Context, ticketID uuid.UUID, req UpdateStatusRequest) (*models.Ticket, error)

	// AssignTechnician links an active technician to the ticket and
	// publishes an assigned event.
	AssignTechnician(ctx context.Context, ticketID, technicianID uuid.UUID) (*models.Ticket, error)

	// AddAttachment stores the upload and appends its key to the ticket.
	// Rejected when attachments are disabled or the file exceeds the
	// configured size limit.
	AddAttachment(ctx context.Context, ticketID, userID uuid.UUID, admin bool, fh *multipart.FileHeader) (*AttachmentResult, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type ticketService struct {
	db       *gorm.DB
	nc       *nats.Conn
	store    ObjectStore
	settings settings.Service
}

func New(db *gorm.DB, nc *nats.Conn, store ObjectStore, settingsSvc settings.Service) Service {
	return &ticketService{db: db, nc: nc, store: store, settings: settingsSvc}
}

func (s *ticketService) List(ctx context.Context, userID uuid.UUID, admin bool, req ListRequest) ([]models.Ticket, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 || req.PerPage > 100 {
		req.PerPage = 20
	}
	offset := (req.Page - 1) * req.PerPage

	q := s.db.WithContext(ctx).Model(&models.Ticket{})
	if !admin {
		q = q.Where("user_id = ?", userID)
	}
	if req.Status != nil {
		if !models.ValidTicketStatus(*req.Status) {
			return nil, &validate.Error{Field: "status", Rule: "oneof", Param: "open in_progress waiting closed"}
		}
		q = q.Where("status = ?", *req.Status)
	}

	var rows []models.Ticket
	err := q.Order("created_at DESC").Offset(offset).Limit(req.PerPage).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return rows, nil
}

func (s *ticketService) GetByID(ctx context.Context, ticketID, userID uuid.UUID, admin bool) (*models.Ticket, error) {
	var row models.Ticket
	err := s.db.WithContext(ctx).First(&row, "id = ?", ticketID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	// Non-owners see a 404, not a 403, so ticket IDs leak nothing.
	if !admin && row.UserID != userID {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (s *ticketService) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*models.Ticket, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	sys, err := s.settings.Effective(ctx)
	if err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = sys.DefaultTicketPriority
	}
	due := time.Now().Add(time.Duration(sys.ResponseSLAHours) * time.Hour)

	row := models.Ticket{
		UserID:      userID,
		Subject:     req.Subject,
		Description: req.Description,
		Status:      sys.DefaultTicketStatus,
		Priority:    priority,
		DueAt:       &due,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return &row, nil
}

func (s *ticketService) UpdateStatus(ctx context.Context, ticketID uuid.UUID, req UpdateStatusRequest) (*models.Ticket, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	row, err := s.adminGet(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	row.Status = req.Status
	err = s.db.WithContext(ctx).Model(row).Select("status").Updates(row).Error
	if err != nil {
		return nil, fmt.Errorf("update ticket status: %w", err)
	}

	s.publish(SubjectStatusChanged, row.ID)
	return row, nil
}

func (s *ticketService) AssignTechnician(ctx context.Context, ticketID, technicianID uuid.UUID) (*models.Ticket, error) {
	row, err := s.adminGet(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	var tech models.Technician
	err = s.db.WithContext(ctx).First(&tech, "id = ?", technicianID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTechnicianNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get technician: %w", err)
	}
	if !tech.Active {
		return nil, ErrTechnicianInactive
	}

	row.TechnicianID = &tech.ID
	err = s.db.WithContext(ctx).Model(row).Select("technician_id").Updates(row).Error
	if err != nil {
		return nil, fmt.Errorf("assign technician: %w", err)
	}

	s.publish(SubjectAssigned, row.ID)
	return row, nil
}

func (s *ticketService) AddAttachment(ctx context.Context, ticketID, userID uuid.UUID, admin bool, fh *multipart.FileHeader) (*AttachmentResult, error) {
	row, err := s.GetByID(ctx, ticketID, userID, admin)
	if err != nil {
		return nil, err
	}

	sys, err := s.settings.Effective(ctx)
	if err != nil {
		return nil, err
	}
	if !sys.AttachmentsEnabled {
		return nil, ErrAttachmentsDisabled
	}
	if fh.Size > int64(sys.MaxAttachmentSizeMB)<<20 {
		return nil, fmt.Errorf("%w: limit is %d MB", ErrAttachmentTooLarge, sys.MaxAttachmentSizeMB)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mime := fh.Header.Get("Content-Type")
	if mime == "" {
		mime = "application/octet-stream"
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	key := s3pkg.AttachmentKey(row.ID, uuid.New(), ext)
	if err := s.store.Upload(ctx, key, mime, src, fh.Size); err != nil {
		return nil, fmt.Errorf("upload attachment: %w", err)
	}

	row.AttachmentKeys = append(row.AttachmentKeys, key)
	err = s.db.WithContext(ctx).Model(row).Select("attachment_keys").Updates(row).Error
	if err != nil {
		return nil, fmt.Errorf("save attachment key: %w", err)
	}

	url, err := s.store.PresignDownload(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("presign attachment: %w", err)
	}
	return &AttachmentResult{Key: key, URL: url}, nil
}

// adminGet loads a ticket without an ownership check.
func (s *ticketService) adminGet(ctx context.Context, ticketID uuid.UUID) (*models.Ticket, error) {
	var row models.Ticket
	err := s.db.WithContext(ctx).First(&row, "id = ?", ticketID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return &row, nil
}

func (s *ticketService) publish(subject string, ticketID uuid.UUID) {
	if s.nc == nil {
		return
	}
	full := fmt.Sprintf("%s.%s", subject, ticketID)
	_ = s.nc.Publish(full, []byte(ticketID.String()))
}
