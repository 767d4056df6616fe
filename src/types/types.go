package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type ReservationStatus string

const (
	RESERVATION_PENDING   ReservationStatus = "pending"
	RESERVATION_CONFIRMED ReservationStatus = "confirmed"
	RESERVATION_CANCELLED ReservationStatus = "cancelled"
	RESERVATION_COMPLETED ReservationStatus = "completed"
)

// SurveyState tracks which yes/no question, if any, the customer currently
// owes a response to. Transitions move along one of two chains:
//
//	none -> pending_connection -> cancel_survey_pending -> completed
//	                              cancel_survey_pending -> reschedule_survey_pending -> completed
type SurveyState string

const (
	SURVEY_NONE               SurveyState = "none"
	SURVEY_PENDING_CONNECTION SurveyState = "pending_connection"
	SURVEY_CANCEL_PENDING     SurveyState = "cancel_survey_pending"
	SURVEY_RESCHEDULE_PENDING SurveyState = "reschedule_survey_pending"
	SURVEY_COMPLETED          SurveyState = "completed"
)

type NotificationStatus string

const (
	NOTIFICATION_SENT   NotificationStatus = "sent"
	NOTIFICATION_FAILED NotificationStatus = "failed"
)

type CreateReservationRequestBody struct {
	ServiceCode string `json:"service" binding:"required,servicecode"`
	Date        string `json:"date" binding:"required,bookingdate"`
	StartTime   string `json:"start_time" binding:"required,clocktime"`
}

type CancelByTokenRequestBody struct {
	Token string `json:"token" binding:"required"`
}

type SignupRequestBody struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email,omitempty" binding:"omitempty,email"`
}

type LoginRequestBody struct {
	Phone string `json:"phone" binding:"required"`
}
