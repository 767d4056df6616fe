package config

import (
	"fmt"
	"os"
	"time"
)

// const dsn = "host=localhost user=postgres password=password dbname=salondb port=5432 sslmode=disable TimeZone=America/Mexico_City"

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const (
	DATE_FORMAT  = "2006-01-02"
	CLOCK_FORMAT = "15:04"

	// Salon operating hours, local time. Bookings must fit inside [OPENING_TIME, CLOSING_TIME].
	OPENING_TIME = "10:00"
	CLOSING_TIME = "20:00"

	// Hour of day (salon local time) the daily sweeps run at.
	SWEEP_HOUR = 9

	// Cancelled and completed reservations older than this are purged.
	RETENTION_DAYS = 30
)

var API_ENV = os.Getenv("API_ENV")

// SalonLocation returns the salon's timezone. All reservation dates and clock
// times are interpreted in this location.
func SalonLocation() *time.Location {
	tz := os.Getenv("SALON_TIMEZONE")
	if tz == "" {
		tz = "America/Mexico_City"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RescheduleURL is the public booking page customers are pointed at when they
// want to rebook after a cancellation.
func RescheduleURL() string {
	host := os.Getenv("APP_HOST")
	if host == "" {
		host = "http://localhost:3000"
	}
	return host + "/reservar"
}
