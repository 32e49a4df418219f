package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tradepack/internal/http/auth"
)

var secret = []byte("test-secret")

func TestMiddleware(t *testing.T) {
	userID := uuid.New()

	valid, err := auth.Sign(secret, userID, time.Hour)
	require.NoError(t, err)

	expired, err := auth.Sign(secret, userID, -time.Minute)
	require.NoError(t, err)

	otherKey, err := auth.Sign([]byte("other"), userID, time.Hour)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	require.NoError(t, err)

	type testCase struct {
		name       string
		header     string
		wantStatus int
	}

	tests := []testCase{
		{name: "Valid", header: "Bearer " + valid, wantStatus: http.StatusNoContent},
		{name: "Missing", header: "", wantStatus: http.StatusUnauthorized},
		{name: "NotBearer", header: "Token " + valid, wantStatus: http.StatusUnauthorized},
		{name: "Expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized},
		{name: "WrongKey", header: "Bearer " + otherKey, wantStatus: http.StatusUnauthorized},
		{name: "NoSubject", header: "Bearer " + noSubject, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got uuid.UUID

			h := auth.Middleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = auth.Actor(r.Context())
				w.WriteHeader(http.StatusNoContent)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusNoContent {
				assert.Equal(t, userID, got)
			}
		})
	}
}
