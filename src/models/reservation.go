package models

import (
	"sbs/src/types"
)

// Reservation is the central entity. EndTime is always derived from StartTime
// plus the service duration, never edited on its own. The partial unique
// index on (date, start_time), created in boot, is the store-level backstop
// against two concurrent writers landing on the same slot; it only covers
// live confirmed rows, so a cancelled or purged reservation frees its slot
// for rebooking. The availability check remains the primary interval-overlap
// guard.
type Reservation struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	CustomerID    uint   `json:"customer_id,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	// PhoneKey is the canonical last-10-digits form used to correlate inbound
	// messages back to this reservation.
	PhoneKey    string `gorm:"index" json:"-"`
	ServiceCode string `json:"service,omitempty"`
	Date        string `gorm:"index" json:"date,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`

	Status      types.ReservationStatus `gorm:"default:'confirmed'" json:"status,omitempty"`
	SurveyState types.SurveyState       `gorm:"default:'none'" json:"-"`

	// CancellationToken is single-use; nil means never issued or already consumed.
	CancellationToken *string `json:"-"`
	ReminderSent      bool    `gorm:"default:false" json:"-"`
	AwaitingResponse  bool    `gorm:"default:false" json:"-"`
	CalendarEventID   *string `json:"-"`

	Customer Customer `gorm:"foreignKey:customer_id" json:"-"`

	types.Timestamps
}
