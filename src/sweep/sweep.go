// Package sweep holds the scheduled batch passes over the reservations
// table: the daily reminder sweep and the retention sweep.
package sweep

import (
	"context"
	"log"
	"time"

	"sbs/src/config"
	"sbs/src/models"
	"sbs/src/notify"
	"sbs/src/types"

	"gorm.io/gorm"
)

// Messenger sends a customer-facing text; satisfied by *notify.Dispatcher.
type Messenger interface {
	Send(ctx context.Context, reservationId uint, phone, text string) error
}

type Sweeper struct {
	db        *gorm.DB
	messenger Messenger
	loc       *time.Location
	now       func() time.Time
}

func NewSweeper(db *gorm.DB, messenger Messenger, loc *time.Location) *Sweeper {
	return &Sweeper{db: db, messenger: messenger, loc: loc, now: time.Now}
}

// RemindTomorrow sends a reminder for every confirmed, unreminded reservation
// scheduled tomorrow in the salon's timezone. Flags are only set after a
// successful send, so a failed item is retried on the next sweep:
// at-least-once, duplicate reminders possible, missed ones not.
func (s *Sweeper) RemindTomorrow(ctx context.Context) error {
	tomorrow := s.now().In(s.loc).AddDate(0, 0, 1).Format(config.DATE_FORMAT)

	var due []models.Reservation
	err := s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("date = ? AND status = ? AND reminder_sent = ?", tomorrow, types.RESERVATION_CONFIRMED, false).
		Find(&due).
		Error
	if err != nil {
		return err
	}
	log.Printf("[sweep] %d reservations due for reminder on %s\n", len(due), tomorrow)

	for _, r := range due {
		if err := s.messenger.Send(ctx, r.ID, r.CustomerPhone, notify.ReminderMessage(&r)); err != nil {
			log.Printf("[sweep] reminder for reservation [%d] failed, will retry next sweep: %s\n", r.ID, err.Error())
			continue
		}
		err := s.db.WithContext(ctx).
			Model(&models.Reservation{}).
			Where("id = ?", r.ID).
			Updates(map[string]any{
				"reminder_sent":     true,
				"awaiting_response": true,
			}).
			Error
		if err != nil {
			log.Printf("[sweep] could not mark reservation [%d] reminded: %s\n", r.ID, err.Error())
			continue
		}
		// the reminder asks the cancel-survey question, so open that survey
		// unless the conversation is already past it
		err = s.db.WithContext(ctx).
			Model(&models.Reservation{}).
			Where("id = ? AND survey_state IN ?", r.ID, []types.SurveyState{types.SURVEY_NONE, types.SURVEY_PENDING_CONNECTION}).
			Update("survey_state", types.SURVEY_CANCEL_PENDING).
			Error
		if err != nil {
			log.Printf("[sweep] could not open cancel survey for reservation [%d]: %s\n", r.ID, err.Error())
		}
	}
	return nil
}

// CompletePast marks confirmed reservations whose date has passed as
// completed and closes their surveys.
func (s *Sweeper) CompletePast(ctx context.Context) error {
	today := s.now().In(s.loc).Format(config.DATE_FORMAT)
	res := s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("status = ? AND date < ?", types.RESERVATION_CONFIRMED, today).
		Updates(map[string]any{
			"status":             types.RESERVATION_COMPLETED,
			"survey_state":       types.SURVEY_COMPLETED,
			"awaiting_response":  false,
			"cancellation_token": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("[sweep] completed %d past reservations\n", res.RowsAffected)
	}
	return nil
}

// PurgeExpired removes cancelled and completed reservations past the
// retention window. Unscoped makes this a hard delete: retention means the
// rows are gone, not soft-deleted into an ever-growing table.
func (s *Sweeper) PurgeExpired(ctx context.Context) error {
	cutoff := s.now().AddDate(0, 0, -config.RETENTION_DAYS)
	res := s.db.WithContext(ctx).
		Unscoped().
		Where("status IN ? AND created_at < ?", []types.ReservationStatus{types.RESERVATION_CANCELLED, types.RESERVATION_COMPLETED}, cutoff).
		Delete(&models.Reservation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("[sweep] purged %d expired reservations\n", res.RowsAffected)
	}
	return nil
}

// Run executes one full daily cycle.
func (s *Sweeper) Run(ctx context.Context) {
	if err := s.CompletePast(ctx); err != nil {
		log.Printf("[sweep] complete-past pass failed: %s\n", err.Error())
	}
	if err := s.RemindTomorrow(ctx); err != nil {
		log.Printf("[sweep] reminder pass failed: %s\n", err.Error())
	}
	if err := s.PurgeExpired(ctx); err != nil {
		log.Printf("[sweep] retention pass failed: %s\n", err.Error())
	}
}
