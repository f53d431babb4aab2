package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ausmass_backend/internal/appointments/repository"
	"ausmass_backend/internal/email"
	"ausmass_backend/platform/config"
	"ausmass_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker processes scheduled reminder tasks.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   *repository.Repository
	sender email.Sender
	log    *logger.Logger
}

// NewWorker creates the asynq worker. sender may be nil when SMTP is not
// configured; reminders are then logged and dropped.
func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		repo:   repository.New(pool),
		sender: sender,
		log:    log,
	}

	mux.HandleFunc(TaskAppointmentReminder, w.handleAppointmentReminder)

	return w, nil
}

// Run blocks processing tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleAppointmentReminder re-reads the appointment and sends the reminder
// mail. Cancelled, completed, rescheduled-to-the-past and customer-less
// appointments are skipped without error so stale tasks drain silently.
func (w *Worker) handleAppointmentReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(payload.AppointmentID)
	if err != nil {
		return err
	}

	info, err := w.repo.GetReminderInfo(ctx, id)
	if err != nil {
		w.log.Warn("reminder skipped, appointment unavailable", "appointment_id", id, "error", err)
		return nil
	}

	a := info.Appointment
	if a.Status == "abgesagt" || a.Status == "abgeschlossen" {
		return nil
	}
	if a.AppointmentDate.Before(time.Now().Truncate(24 * time.Hour)) {
		return nil
	}
	if strings.TrimSpace(info.CustomerEmail) == "" {
		w.log.Info("reminder skipped, no customer email", "appointment_id", id)
		return nil
	}
	if w.sender == nil {
		w.log.Warn("reminder dropped, smtp not configured", "appointment_id", id)
		return nil
	}

	data := email.ReminderData{
		CustomerName: info.CustomerName,
		Title:        a.Title,
		Date:         a.AppointmentDate.Format("02.01.2006"),
		Address:      info.Address,
	}
	if a.AppointmentTime != nil {
		data.Time = *a.AppointmentTime
	}

	if err := w.sender.SendAppointmentReminder(ctx, info.CustomerEmail, data); err != nil {
		return fmt.Errorf("send reminder for appointment %s: %w", id, err)
	}

	w.log.Info("appointment reminder sent", "appointment_id", id)
	return nil
}
