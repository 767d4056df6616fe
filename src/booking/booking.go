// Package booking implements reservation creation, availability checking and
// the cancellation flows.
package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"sbs/src/catalog"
	"sbs/src/config"
	"sbs/src/models"
	"sbs/src/models/scopes"
	"sbs/src/notify"
	"sbs/src/phone"
	"sbs/src/schedule"
	"sbs/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const sideEffectTimeout = 10 * time.Second

// Calendar is the external calendar capability consumed by the booking flows.
type Calendar interface {
	CreateEvent(ctx context.Context, summary, description, date, start, end, timezone string) (string, error)
	DeleteEvent(ctx context.Context, eventId string) error
}

type Service struct {
	db         *gorm.DB
	cal        Calendar
	dispatcher *notify.Dispatcher
	salon      notify.SalonNotifier
}

func NewService(db *gorm.DB, cal Calendar, dispatcher *notify.Dispatcher, salon notify.SalonNotifier) *Service {
	return &Service{db: db, cal: cal, dispatcher: dispatcher, salon: salon}
}

// CheckAvailability computes the end time for the requested slot and verifies
// it sits inside salon hours and overlaps no confirmed reservation on that
// date. Returns the derived end time on success.
func CheckAvailability(tx *gorm.DB, date, start string, durationMinutes int) (string, error) {
	end, err := schedule.ComputeEndTime(start, durationMinutes)
	if err != nil {
		return "", types.ErrInvalidTimeFormat
	}

	startMin, _ := schedule.ParseClock(start)
	endMin, _ := schedule.ParseClock(end)
	openMin, _ := schedule.ParseClock(config.OPENING_TIME)
	closeMin, _ := schedule.ParseClock(config.CLOSING_TIME)
	// endMin <= startMin means the slot wrapped past midnight
	if startMin < openMin || endMin > closeMin || endMin <= startMin {
		return "", types.ErrOutsideBusinessHours
	}

	var existing []models.Reservation
	if err := tx.
		Model(&models.Reservation{}).
		Scopes(scopes.ConfirmedOnDate(date)).
		Find(&existing).
		Error; err != nil {
		return "", err
	}
	for _, r := range existing {
		if schedule.Overlaps(start, end, r.StartTime, r.EndTime) {
			return "", types.ErrSlotTaken
		}
	}
	return end, nil
}

// Create books a reservation for the customer. The check-then-create runs in
// one transaction; the unique index on (date, start_time) catches the losing
// writer of a concurrent race and surfaces it as SLOT_TAKEN. Calendar and
// notification side effects run after commit, best-effort.
func (s *Service) Create(ctx context.Context, customer *models.Customer, params *types.CreateReservationRequestBody) (*models.Reservation, error) {
	svc, ok := catalog.Lookup(params.ServiceCode)
	if !ok {
		return nil, types.ErrInvalidService
	}
	if _, err := time.Parse(config.DATE_FORMAT, params.Date); err != nil {
		return nil, types.ErrInvalidDateFormat
	}

	token := uuid.NewString()
	reservation := models.Reservation{
		CustomerID:        customer.ID,
		CustomerName:      customer.Name,
		CustomerPhone:     customer.Phone,
		PhoneKey:          phone.CorrelationKey(customer.Phone),
		ServiceCode:       svc.Code,
		Date:              params.Date,
		StartTime:         params.StartTime,
		Status:            types.RESERVATION_CONFIRMED,
		SurveyState:       s.dispatcher.Channel().InitialSurveyState(),
		CancellationToken: &token,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		end, err := CheckAvailability(tx, params.Date, params.StartTime, svc.DurationMinutes)
		if err != nil {
			return err
		}
		reservation.EndTime = end
		if err := tx.Create(&reservation).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return types.ErrSlotTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.attachCalendarEvent(ctx, &reservation)
	if err := s.dispatcher.Send(ctx, reservation.ID, reservation.CustomerPhone, notify.BookingCreatedMessage(&reservation)); err != nil {
		log.Printf("Error sending booking confirmation for reservation [%d]: %s\n", reservation.ID, err.Error())
	}

	return &reservation, nil
}

func (s *Service) attachCalendarEvent(ctx context.Context, r *models.Reservation) {
	if s.cal == nil {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()
	svcName := r.ServiceCode
	if svc, ok := catalog.Lookup(r.ServiceCode); ok {
		svcName = svc.Name
	}
	eventId, err := s.cal.CreateEvent(cctx,
		svcName+" - "+r.CustomerName,
		"Tel: "+r.CustomerPhone,
		r.Date, r.StartTime, r.EndTime,
		config.SalonLocation().String(),
	)
	if err != nil {
		log.Printf("Error creating calendar event for reservation [%d]: %s\n", r.ID, err.Error())
		return
	}
	if err := s.db.Model(&models.Reservation{}).
		Scopes(scopes.WithID(r.ID)).
		Update("calendar_event_id", eventId).
		Error; err != nil {
		log.Printf("Error saving calendar event id for reservation [%d]: %s\n", r.ID, err.Error())
		return
	}
	r.CalendarEventID = &eventId
}

func (s *Service) detachCalendarEvent(ctx context.Context, r *models.Reservation) {
	if s.cal == nil || r.CalendarEventID == nil {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()
	if err := s.cal.DeleteEvent(cctx, *r.CalendarEventID); err != nil {
		log.Printf("Error deleting calendar event for reservation [%d]: %s\n", r.ID, err.Error())
	}
}

func (s *Service) notifySalonCancellation(r *models.Reservation) {
	if s.salon == nil {
		return
	}
	if err := s.salon.NotifyCancellation(r); err != nil {
		log.Printf("Error notifying salon about cancellation of reservation [%d]: %s\n", r.ID, err.Error())
	}
}

// WeekSchedule lists confirmed reservations for a 7-day window starting at
// date, for the frontend's availability view.
func (s *Service) WeekSchedule(date string) ([]models.Reservation, error) {
	day, err := time.Parse(config.DATE_FORMAT, date)
	if err != nil {
		return nil, types.ErrInvalidDateFormat
	}
	dates := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		dates = append(dates, day.AddDate(0, 0, i).Format(config.DATE_FORMAT))
	}
	var reservations []models.Reservation
	err = s.db.
		Model(&models.Reservation{}).
		Where("date IN ? AND status = ?", dates, types.RESERVATION_CONFIRMED).
		Order("date, start_time").
		Find(&reservations).
		Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// ListByCustomer returns the customer's reservations, newest first.
func (s *Service) ListByCustomer(customerId uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.
		Model(&models.Reservation{}).
		Where(&models.Reservation{CustomerID: customerId}).
		Order("date DESC, start_time DESC").
		Find(&reservations).
		Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

// Cancel cancels a confirmed reservation on behalf of its owner.
func (s *Service) Cancel(ctx context.Context, id, requesterId uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.db.Scopes(scopes.WithID(id)).First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	if reservation.CustomerID != requesterId {
		return nil, types.ErrForbidden
	}
	if reservation.Status != types.RESERVATION_CONFIRMED {
		return nil, types.ErrNotFound
	}

	res := s.db.
		Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, types.RESERVATION_CONFIRMED).
		Updates(map[string]any{
			"status":             types.RESERVATION_CANCELLED,
			"survey_state":       types.SURVEY_COMPLETED,
			"cancellation_token": nil,
			"awaiting_response":  false,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, types.ErrNotFound
	}
	reservation.Status = types.RESERVATION_CANCELLED
	reservation.SurveyState = types.SURVEY_COMPLETED
	reservation.CancellationToken = nil

	s.detachCalendarEvent(ctx, &reservation)
	s.notifySalonCancellation(&reservation)
	return &reservation, nil
}

// CancelByToken is the public cancel-by-link flow. The conditional update
// consumes the token: it succeeds at most once, and only while the
// reservation is still confirmed.
func (s *Service) CancelByToken(ctx context.Context, id uint, token string) (*models.Reservation, error) {
	res := s.db.
		Model(&models.Reservation{}).
		Where("id = ? AND status = ? AND cancellation_token = ?", id, types.RESERVATION_CONFIRMED, token).
		Updates(map[string]any{
			"status":             types.RESERVATION_CANCELLED,
			"survey_state":       types.SURVEY_COMPLETED,
			"cancellation_token": nil,
			"awaiting_response":  false,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, types.ErrNotFound
	}

	var reservation models.Reservation
	if err := s.db.Scopes(scopes.WithID(id)).First(&reservation).Error; err != nil {
		return nil, err
	}
	s.detachCalendarEvent(ctx, &reservation)
	s.notifySalonCancellation(&reservation)
	return &reservation, nil
}

// DeleteFromHistory removes a finished reservation from the customer's
// history. Confirmed reservations must be cancelled first.
func (s *Service) DeleteFromHistory(id, requesterId uint) error {
	var reservation models.Reservation
	if err := s.db.Scopes(scopes.WithID(id)).First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrNotFound
		}
		return err
	}
	if reservation.CustomerID != requesterId {
		return types.ErrForbidden
	}
	if reservation.Status != types.RESERVATION_CANCELLED && reservation.Status != types.RESERVATION_COMPLETED {
		return types.ErrForbidden
	}
	return s.db.Delete(&models.Reservation{}, reservation.ID).Error
}
