package middlewares

import (
	"log"
	"os"
	"strconv"
	"strings"

	"sbs/src/db"
	"sbs/src/models"
	"sbs/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	parts := strings.Fields(bearerToken)
	if len(parts) != 2 || parts[0] != "Bearer" {
		ctx.AbortWithStatus(401)
		return
	}
	reqToken := parts[1]
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		if err == jwt.ErrSignatureInvalid || err == jwt.ErrTokenMalformed {
			ctx.AbortWithStatus(401)
			return
		}
		ctx.AbortWithError(401, err)
		return
	}
	if !tkn.Valid {
		ctx.AbortWithStatus(401)
		return
	}

	db := db.GetDb()
	var customer models.Customer
	cid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		log.Println("error parsing claims:", err.Error())
		ctx.AbortWithStatus(401)
		return
	}
	db.Model(&models.Customer{}).Where(&models.Customer{ID: uint(cid)}).Find(&customer)

	if uint(cid) != customer.ID || customer.ID < 1 {
		ctx.AbortWithStatus(401)
		return
	}
	ctx.Set("id", customer.ID)
	ctx.Set("name", customer.Name)
	ctx.Set("phone", customer.Phone)
}
