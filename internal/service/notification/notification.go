package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hamyarhq/hamyar_backend/config"
	"github.com/hamyarhq/hamyar_backend/internal/models"
	"github.com/hamyarhq/hamyar_backend/internal/service/preference"
	"github.com/hamyarhq/hamyar_backend/internal/service/settings"
	"github.com/hamyarhq/hamyar_backend/pkg/email"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// DispatchRequest describes a ticket event to fan out to the recipient's
// enabled channels. Status is only meaningful for status-change events and
// TechnicianName only for assignments.
type DispatchRequest struct {
	UserID         uuid.UUID
	Type           string
	TicketSubject  string
	TechnicianName string
	Status         string
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

// EmailSender delivers a built message. *email.Client satisfies this.
type EmailSender interface {
	Send(ctx context.Context, m email.Message) error
}

// SMSSender delivers a templated text. *sms.Client satisfies this.
type SMSSender interface {
	SendTemplate(ctx context.Context, phoneNumber, templateID string, params map[string]string) error
}

type Service interface {
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, perPage int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, notifID, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error

	// Dispatch delivers a ticket event through every channel the recipient
	// has enabled. The in-app row is the only hard dependency; email and SMS
	// failures are logged and swallowed so a flaky provider cannot fail the
	// worker.
	Dispatch(ctx context.Context, req DispatchRequest) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type notificationService struct {
	db       *gorm.DB
	prefs    preference.Service
	settings settings.Service
	email    EmailSender
	sms      SMSSender
	cfg      *config.Config
}

func New(db *gorm.DB, prefs preference.Service, settingsSvc settings.Service, emailSender EmailSender, smsSender SMSSender, cfg *config.Config) Service {
	return &notificationService{
		db:       db,
		prefs:    prefs,
		settings: settingsSvc,
		email:    emailSender,
		sms:      smsSender,
		cfg:      cfg,
	}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, page, perPage int) ([]models.Notification, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}

	var notifs []models.Notification
	if err := q.Order("created_at DESC").Offset(offset).Limit(perPage).Find(&notifs).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifs, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notifID, userID uuid.UUID) error {
	var n models.Notification
	err := s.db.WithContext(ctx).
		First(&n, "id = ? AND user_id = ?", notifID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get notification: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&n).Update("read", true).Error; err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

func (s *notificationService) Dispatch(ctx context.Context, req DispatchRequest) error {
	if req.Type != models.NotificationTypeTicketAssigned && req.Type != models.NotificationTypeTicketStatus {
		return fmt.Errorf("unknown notification type %q", req.Type)
	}

	sys, err := s.settings.Effective(ctx)
	if err != nil {
		return fmt.Errorf("load system settings: %w", err)
	}
	if !sys.NotificationsEnabled {
		slog.Debug("notifications disabled, dropping dispatch",
			"type", req.Type, "user_id", req.UserID)
		return nil
	}

	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", req.UserID).Error; err != nil {
		return fmt.Errorf("load recipient: %w", err)
	}

	p, err := s.prefs.Get(ctx, req.UserID)
	if err != nil {
		return fmt.Errorf("load notification prefs: %w", err)
	}

	if p.PushEnabled || p.DesktopEnabled {
		title, body := inAppText(req, p.Language)
		n := models.Notification{
			UserID: req.UserID,
			Type:   req.Type,
			Title:  title,
			Body:   body,
		}
		if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
			return fmt.Errorf("create notification: %w", err)
		}
	}

	if p.EmailEnabled {
		s.sendEmail(ctx, req, &u, p.Language, sys.AppName)
	}

	if p.SMSEnabled && u.Phone != "" {
		s.sendSMS(ctx, req, u.Phone)
	}

	return nil
}

func (s *notificationService) sendEmail(ctx context.Context, req DispatchRequest, u *models.User, language, appName string) {
	data := email.TicketEmailData{
		FirstName:      u.FirstName,
		Email:          u.Email,
		TicketSubject:  req.TicketSubject,
		TechnicianName: req.TechnicianName,
		Status:         req.Status,
		Language:       language,
		AppName:        appName,
	}

	var msg email.Message
	if req.Type == models.NotificationTypeTicketAssigned {
		msg = email.BuildTicketAssignedEmail(data)
	} else {
		msg = email.BuildTicketStatusEmail(data)
	}

	if err := s.email.Send(ctx, msg); err != nil {
		var disabled email.ErrDisabled
		if errors.As(err, &disabled) {
			slog.Debug("email disabled, skipping ticket email", "user_id", u.ID)
			return
		}
		slog.Warn("send ticket email failed", "user_id", u.ID, "type", req.Type, "error", err)
	}
}

func (s *notificationService) sendSMS(ctx context.Context, req DispatchRequest, phone string) {
	params := map[string]string{
		"SUBJECT": req.TicketSubject,
		"EVENT":   smsEvent(req),
	}
	if err := s.sms.SendTemplate(ctx, phone, s.cfg.SMS.SMSIR.TemplateID, params); err != nil {
		slog.Warn("send ticket sms failed", "user_id", req.UserID, "type", req.Type, "error", err)
	}
}

// smsEvent is the short Persian event line filled into the sms.ir template.
// Texts are Persian-only, sms.ir delivers to Iranian numbers.
func smsEvent(req DispatchRequest) string {
	if req.Type == models.NotificationTypeTicketAssigned {
		return "به کارشناس واگذار شد"
	}
	return "وضعیت: " + statusLabel(req.Status, models.LanguageFA)
}

func inAppText(req DispatchRequest, language string) (title, body string) {
	if language == models.LanguageFA {
		if req.Type == models.NotificationTypeTicketAssigned {
			title = "تیکت شما واگذار شد"
			body = fmt.Sprintf("تیکت «%s» به کارشناس %s واگذار شد.", req.TicketSubject, req.TechnicianName)
			return title, body
		}
		title = "وضعیت تیکت به‌روزرسانی شد"
		body = fmt.Sprintf("وضعیت تیکت «%s» به «%s» تغییر کرد.", req.TicketSubject, statusLabel(req.Status, language))
		return title, body
	}

	if req.Type == models.NotificationTypeTicketAssigned {
		title = "Your ticket was assigned"
		body = fmt.Sprintf("Ticket %q was assigned to %s.", req.TicketSubject, req.TechnicianName)
		return title, body
	}
	title = "Ticket status updated"
	body = fmt.Sprintf("The status of ticket %q changed to %q.", req.TicketSubject, statusLabel(req.Status, language))
	return title, body
}

func statusLabel(status, language string) string {
	if language == models.LanguageFA {
		switch status {
		case models.TicketStatusOpen:
			return "باز"
		case models.TicketStatusInProgress:
			return "در حال بررسی"
		case models.TicketStatusWaiting:
			return "در انتظار پاسخ"
		case models.TicketStatusClosed:
			return "بسته شده"
		}
		return status
	}

	switch status {
	case models.TicketStatusOpen:
		return "open"
	case models.TicketStatusInProgress:
		return "in progress"
	case models.TicketStatusWaiting:
		return "waiting for reply"
	case models.TicketStatusClosed:
		return "closed"
	}
	return status
}
