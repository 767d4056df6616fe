package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware, func(ctx *gin.Context) {
		ctx.Status(http.StatusOK)
	})

	// every malformed shape must come back 401, never panic into a 500
	headers := []string{
		"",
		"Token abc",
		"Bearer",
		"Bearer ",
		"Bearer not-a-jwt",
	}
	for _, header := range headers {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header=%q", header)
	}
}
