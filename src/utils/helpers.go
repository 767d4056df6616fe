package utils

import (
	"os"
	"strconv"
	"time"

	"sbs/src/types"

	"github.com/golang-jwt/jwt/v4"
)

func IsProd() bool {
	env := os.Getenv("API_ENV")
	return env == "production" || env == "prod"
}

func GenerateJWT(name, phone string, customerId uint) (string, error) {
	claims := types.Claims{
		Name:  name,
		Phone: phone,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(customerId)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
