package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("remote-api-secret"))
	require.NoError(t, err)
	return token
}

func TestIsValidAt(t *testing.T) {
	now := time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name  string
		token string
		valid bool
	}{
		{
			name:  "Live token",
			token: signedToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix(), "user_id": 7}),
			valid: true,
		},
		{
			name:  "Expired token",
			token: signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Hour).Unix()}),
			valid: false,
		},
		{
			name:  "No expiry claim",
			token: signedToken(t, jwt.MapClaims{"user_id": 7}),
			valid: false,
		},
		{
			name:  "Not a JWT at all",
			token: "definitely-not-a-token",
			valid: false,
		},
		{
			name:  "Empty string",
			token: "",
			valid: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, isValidAt(tc.token, now))
		})
	}
}

func TestSessionRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", SessionRequired(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	live := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	expired := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})

	testCases := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{name: "Valid bearer token", authHeader: "Bearer " + live, wantStatus: http.StatusNoContent},
		{name: "Expired bearer token", authHeader: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "Missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "Wrong scheme", authHeader: "Token abc", wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}
