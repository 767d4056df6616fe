package controllers

import (
	"errors"
	"log"
	"net/http"

	"sbs/src/db"
	"sbs/src/models"
	"sbs/src/phone"
	"sbs/src/types"
	"sbs/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthSignup registers a customer by phone number and returns a session
// token. Signing up again with a known phone refreshes the stored name and
// email instead of failing.
func AuthSignup(ctx *gin.Context) (token *string, status int, err error) {
	var body types.SignupRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	key := phone.CorrelationKey(body.Phone)
	if len(key) < 10 {
		return nil, http.StatusBadRequest, errors.New("phone number must carry at least 10 digits")
	}

	db := db.GetDb()
	var customer models.Customer
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Model(&models.Customer{}).
			Where(&models.Customer{PhoneKey: key}).
			First(&customer).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			customer = models.Customer{
				Name:     body.Name,
				Phone:    body.Phone,
				PhoneKey: key,
				Email:    body.Email,
			}
			return tx.Create(&customer).Error
		}
		if err != nil {
			return err
		}
		return tx.
			Model(&models.Customer{}).
			Where("id = ?", customer.ID).
			Updates(map[string]any{"name": body.Name, "email": body.Email}).
			Error
	})
	if err != nil {
		log.Printf("Error signing up customer: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}

	jwt, err := utils.GenerateJWT(body.Name, customer.Phone, customer.ID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &jwt, http.StatusOK, nil
}

// AuthLogin exchanges a known phone number for a session token.
func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}

	db := db.GetDb()
	var customer models.Customer
	if err := db.
		Model(&models.Customer{}).
		Where(&models.Customer{PhoneKey: phone.CorrelationKey(body.Phone)}).
		First(&customer).
		Error; err != nil {
		log.Printf("error: %s\n", err.Error())
		return nil, http.StatusNotFound, err
	}

	jwt, err := utils.GenerateJWT(customer.Name, customer.Phone, customer.ID)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &jwt, http.StatusOK, nil
}
