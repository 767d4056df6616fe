package models

import (
	"sbs/src/types"
)

// NotificationLog records every outbound send attempt per channel, success or
// failure. Advisory only: a failed row is never retried automatically.
type NotificationLog struct {
	ID            uint                     `gorm:"primarykey" json:"id"`
	ReservationID uint                     `gorm:"index" json:"reservation_id,omitempty"`
	Channel       string                   `json:"channel,omitempty"`
	Recipient     string                   `json:"recipient,omitempty"`
	Body          string                   `json:"body,omitempty"`
	Status        types.NotificationStatus `json:"status,omitempty"`
	ErrorMessage  string                   `json:"error_message,omitempty"`

	types.Timestamps
}
