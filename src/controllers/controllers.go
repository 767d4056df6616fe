// Package controllers maps HTTP requests onto the booking service and the
// survey engine. Handlers return a value, an HTTP status, and an error; the
// route closures in main decide the response shape.
package controllers

import (
	"sbs/src/booking"
	"sbs/src/survey"
	"sbs/src/types"
)

var (
	bookingService *booking.Service
	surveyEngine   *survey.Engine
)

// Init wires the request handlers to their dependencies. Called once from
// main before routes are registered.
func Init(b *booking.Service, e *survey.Engine) {
	bookingService = b
	surveyEngine = e
}

// statusOf maps a service error to its HTTP status.
func statusOf(err error, fallback int) int {
	if apiErr, ok := err.(*types.APIError); ok {
		return apiErr.Status
	}
	return fallback
}
