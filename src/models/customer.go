package models

import (
	"sbs/src/types"
)

type Customer struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	PhoneKey string `gorm:"index" json:"-"`
	Email    string `json:"email,omitempty"`

	Reservations []Reservation `gorm:"foreignKey:customer_id" json:"reservations,omitempty"`

	types.Timestamps
}
