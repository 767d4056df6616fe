package controllers

import (
	"log"
	"net/http"
	"time"

	"sbs/src/config"
	"sbs/src/db"
	"sbs/src/models"
	"sbs/src/types"

	"github.com/gin-gonic/gin"
)

// CreateReservation books a slot for the authenticated customer.
func CreateReservation(ctx *gin.Context) (*models.Reservation, int, error) {
	var body types.CreateReservationRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	customerId := ctx.GetUint("id")
	db := db.GetDb()
	var customer models.Customer
	if err := db.
		Model(&models.Customer{}).
		Where(&models.Customer{ID: customerId}).
		First(&customer).
		Error; err != nil {
		return nil, http.StatusUnauthorized, err
	}

	reservation, err := bookingService.Create(ctx.Request.Context(), &customer, &body)
	if err != nil {
		log.Printf("Error creating reservation for customer [%d]: %s\n", customerId, err.Error())
		return nil, statusOf(err, http.StatusInternalServerError), err
	}
	return reservation, http.StatusCreated, nil
}

// GetWeekSchedule returns the confirmed reservations for the 7 days starting
// at the date query param, defaulting to today. Public; the frontend derives
// free slots from it.
func GetWeekSchedule(ctx *gin.Context) ([]models.Reservation, int, error) {
	date := ctx.Query("date")
	if date == "" {
		date = time.Now().In(config.SalonLocation()).Format(config.DATE_FORMAT)
	}
	reservations, err := bookingService.WeekSchedule(date)
	if err != nil {
		return nil, statusOf(err, http.StatusInternalServerError), err
	}
	return reservations, http.StatusOK, nil
}

// ListReservations returns the authenticated customer's reservations.
func ListReservations(ctx *gin.Context) ([]models.Reservation, int, error) {
	reservations, err := bookingService.ListByCustomer(ctx.GetUint("id"))
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return reservations, http.StatusOK, nil
}

type reservationUriParams struct {
	ID uint `uri:"id" binding:"required"`
}

// CancelReservation cancels one of the authenticated customer's confirmed
// reservations.
func CancelReservation(ctx *gin.Context) (*models.Reservation, int, error) {
	var params reservationUriParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		return nil, http.StatusBadRequest, err
	}
	reservation, err := bookingService.Cancel(ctx.Request.Context(), params.ID, ctx.GetUint("id"))
	if err != nil {
		return nil, statusOf(err, http.StatusInternalServerError), err
	}
	return reservation, http.StatusOK, nil
}

// CancelReservationByToken is the public cancel-by-link flow: no session, the
// single-use token mailed out at booking time is the proof of ownership.
func CancelReservationByToken(ctx *gin.Context) (*models.Reservation, int, error) {
	var params reservationUriParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		return nil, http.StatusBadRequest, err
	}
	var body types.CancelByTokenRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	reservation, err := bookingService.CancelByToken(ctx.Request.Context(), params.ID, body.Token)
	if err != nil {
		return nil, statusOf(err, http.StatusInternalServerError), err
	}
	return reservation, http.StatusOK, nil
}

// DeleteReservation removes a finished reservation from the customer's
// history.
func DeleteReservation(ctx *gin.Context) (int, error) {
	var params reservationUriParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		return http.StatusBadRequest, err
	}
	if err := bookingService.DeleteFromHistory(params.ID, ctx.GetUint("id")); err != nil {
		return statusOf(err, http.StatusInternalServerError), err
	}
	return http.StatusNoContent, nil
}
