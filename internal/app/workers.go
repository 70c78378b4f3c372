package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/hamyarhq/hamyar_backend/internal/models"
	"github.com/hamyarhq/hamyar_backend/internal/service/notification"
	"github.com/hamyarhq/hamyar_backend/internal/service/ticket"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	NC       *nats.Conn
	DB       *gorm.DB
	NotifSvc notification.Service
}

func RegisterWorkers(p WorkerParams) {
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			startTicketWorker(p.NC, p.DB, p.NotifSvc)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Drain handled by ProvideNatsClient
			return nil
		},
	})
}

// ---------------------------------------------------------------------------
// ticket_worker
// ---------------------------------------------------------------------------

// startTicketWorker fans ticket events out to the notification dispatcher.
// Subjects carry the ticket ID as the last token; the payload repeats it.
func startTicketWorker(nc *nats.Conn, db *gorm.DB, notifSvc notification.Service) {
	_, err := nc.Subscribe(ticket.SubjectAssigned+".*", func(msg *nats.Msg) {
		row, ok := loadTicket(db, msg)
		if !ok {
			return
		}

		techName := ""
		if row.TechnicianID != nil {
			var tech models.Technician
			err := db.First(&tech, "id = ?", *row.TechnicianID).Error
			if err != nil {
				slog.Warn("ticket_worker: technician not found", "id", row.TechnicianID, "err", err)
			} else {
				techName = tech.FullName()
			}
		}

		err := notifSvc.Dispatch(context.Background(), notification.DispatchRequest{
			UserID:         row.UserID,
			Type:           models.NotificationTypeTicketAssigned,
			TicketSubject:  row.Subject,
			TechnicianName: techName,
		})
		if err != nil {
			slog.Warn("ticket_worker: dispatch assigned failed", "ticket_id", row.ID, "err", err)
		}
	})
	if err != nil {
		slog.Error("ticket_worker: subscribe ticket.assigned failed", "err", err)
	}

	_, err = nc.Subscribe(ticket.SubjectStatusChanged+".*", func(msg *nats.Msg) {
		row, ok := loadTicket(db, msg)
		if !ok {
			return
		}

		err := notifSvc.Dispatch(context.Background(), notification.DispatchRequest{
			UserID:        row.UserID,
			Type:          models.NotificationTypeTicketStatus,
			TicketSubject: row.Subject,
			Status:        row.Status,
		})
		if err != nil {
			slog.Warn("ticket_worker: dispatch status failed", "ticket_id", row.ID, "err", err)
		}
	})
	if err != nil {
		slog.Error("ticket_worker: subscribe ticket.status_changed failed", "err", err)
	}

	slog.Info("ticket_worker: started")
}

// loadTicket resolves the ticket named by the event, preferring the subject
// token over the payload.
func loadTicket(db *gorm.DB, msg *nats.Msg) (*models.Ticket, bool) {
	idStr := strings.TrimSpace(string(msg.Data))
	if parts := strings.Split(msg.Subject, "."); len(parts) >= 4 {
		idStr = parts[3]
	}
	ticketID, err := uuid.Parse(idStr)
	if err != nil {
		slog.Warn("ticket_worker: bad ticket id", "subject", msg.Subject, "err", err)
		return nil, false
	}

	var row models.Ticket
	if err := db.First(&row, "id = ?", ticketID).Error; err != nil {
		slog.Warn("ticket_worker: ticket not found", "id", idStr, "err", err)
		return nil, false
	}
	return &row, true
}
