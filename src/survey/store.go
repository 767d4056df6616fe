package survey

import (
	"context"
	"errors"

	"sbs/src/models"
	"sbs/src/models/scopes"
	"sbs/src/types"

	"gorm.io/gorm"
)

// Store is the persistence surface the engine needs. All coordination happens
// through the conditional write in ApplyTransition; there is no in-process
// locking, so multiple server instances are safe.
type Store interface {
	// FindLatestByPhone returns the most recently created reservation for the
	// phone key in the given survey state and status, or nil when none match.
	FindLatestByPhone(ctx context.Context, phoneKey string, state types.SurveyState, status types.ReservationStatus) (*models.Reservation, error)
	// ApplyTransition writes the transition only if the reservation is still
	// in the survey state it was read in. Returns false when another delivery
	// already moved it.
	ApplyTransition(ctx context.Context, r *models.Reservation, tr Transition) (bool, error)
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindLatestByPhone(ctx context.Context, phoneKey string, state types.SurveyState, status types.ReservationStatus) (*models.Reservation, error) {
	var r models.Reservation
	err := s.db.WithContext(ctx).
		Scopes(scopes.WithPhoneKey(phoneKey), scopes.InSurveyState(state)).
		Where("status = ?", status).
		Scopes(scopes.NewestFirst).
		First(&r).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *gormStore) ApplyTransition(ctx context.Context, r *models.Reservation, tr Transition) (bool, error) {
	updates := map[string]any{
		"survey_state":      tr.NextSurveyState,
		"status":            tr.NextStatus,
		"awaiting_response": false,
	}
	if tr.ClearToken {
		updates["cancellation_token"] = nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ? AND survey_state = ?", r.ID, r.SurveyState).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
