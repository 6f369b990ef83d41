package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PrayerLoop/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPing(t *testing.T) {
	c, w := SetupTestContext()
	c.Request = httptest.NewRequest("GET", "/ping", nil)

	Ping(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestGetUserProfile(t *testing.T) {
	SetupTestServices(t, testNow)

	weeks := 12
	tests := []struct {
		name          string
		visibility    *int
		wantEffective float64
	}{
		{name: "default window", visibility: nil, wantEffective: 4},
		{name: "custom window", visibility: &weeks, wantEffective: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := MockUser()
			user.Prayer_Visibility_Weeks = tt.visibility

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, user)
			c.Request = httptest.NewRequest("GET", "/users/me", nil)

			GetUserProfile(c)

			assert.Equal(t, http.StatusOK, w.Code)
			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.wantEffective, response["effectiveVisibilityWeeks"])
			profile := response["user"].(map[string]interface{})
			assert.Equal(t, "testuser", profile["username"])
		})
	}
}

func TestUpdateVisibility(t *testing.T) {
	SetupTestServices(t, testNow)

	tests := []struct {
		name           string
		body           string
		authenticated  bool
		mockUpdate     bool
		dbErr          error
		expectedStatus int
		wantEffective  float64
	}{
		{
			name:           "set eight weeks",
			body:           `{"prayerVisibilityWeeks": 8}`,
			authenticated:  true,
			mockUpdate:     true,
			expectedStatus: http.StatusOK,
			wantEffective:  8,
		},
		{
			name:           "zero keeps prayers visible",
			body:           `{"prayerVisibilityWeeks": 0}`,
			authenticated:  true,
			mockUpdate:     true,
			expectedStatus: http.StatusOK,
			wantEffective:  0,
		},
		{
			name:           "null restores the default",
			body:           `{"prayerVisibilityWeeks": null}`,
			authenticated:  true,
			mockUpdate:     true,
			expectedStatus: http.StatusOK,
			wantEffective:  4,
		},
		{
			name:           "negative weeks",
			body:           `{"prayerVisibilityWeeks": -1}`,
			authenticated:  true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "more than ten years",
			body:           `{"prayerVisibilityWeeks": 521}`,
			authenticated:  true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			body:           `{"prayerVisibilityWeeks": "lots"}`,
			authenticated:  true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "anonymous",
			body:           `{"prayerVisibilityWeeks": 8}`,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "database failure",
			body:           `{"prayerVisibilityWeeks": 8}`,
			authenticated:  true,
			mockUpdate:     true,
			dbErr:          errors.New("connection reset"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			if tt.mockUpdate {
				exp := mock.ExpectExec(`UPDATE "user_profile" SET .* WHERE \("user_profile_id" = 1\)`)
				if tt.dbErr != nil {
					exp.WillReturnError(tt.dbErr)
				} else {
					exp.WillReturnResult(sqlmock.NewResult(0, 1))
				}
			}

			c, w := SetupTestContext()
			if tt.authenticated {
				SetAuthenticatedUser(c, MockUser())
			}
			c.Request = httptest.NewRequest("PUT", "/users/me/visibility", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			UpdateVisibility(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			var response map[string]interface{}
			_ = json.Unmarshal(w.Body.Bytes(), &response)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.wantEffective, response["effectiveVisibilityWeeks"])
			} else {
				assert.NotNil(t, response["error"])
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStorePushToken(t *testing.T) {
	tests := []struct {
		name           string
		tokenData      models.PushTokenRequest
		expectedStatus int
		expectError    bool
	}{
		{
			name: "successful token storage - iOS",
			tokenData: models.PushTokenRequest{
				PushToken: strings.Repeat("a", 100),
				Platform:  "ios",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "successful token storage - Android",
			tokenData: models.PushTokenRequest{
				PushToken: "fcm:" + strings.Repeat("b", 60),
				Platform:  "android",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "shortest accepted token",
			tokenData: models.PushTokenRequest{
				PushToken: strings.Repeat("c", 20),
				Platform:  "ios",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "token too short",
			tokenData: models.PushTokenRequest{
				PushToken: "short",
				Platform:  "ios",
			},
			expectedStatus: http.StatusBadRequest,
			expectError:    true,
		},
		{
			name: "token too long",
			tokenData: models.PushTokenRequest{
				PushToken: strings.Repeat("a", 501),
				Platform:  "ios",
			},
			expectedStatus: http.StatusBadRequest,
			expectError:    true,
		},
		{
			name: "invalid platform",
			tokenData: models.PushTokenRequest{
				PushToken: strings.Repeat("a", 100),
				Platform:  "web",
			},
			expectedStatus: http.StatusBadRequest,
			expectError:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			if !tt.expectError {
				mock.ExpectExec(`INSERT INTO "user_push_tokens" .* ON CONFLICT \(push_token\) DO UPDATE SET`).
					WillReturnResult(sqlmock.NewResult(1, 1))
			}

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockUser())
			jsonData, _ := json.Marshal(tt.tokenData)
			c.Request = httptest.NewRequest("POST", "/users/me/push-token", bytes.NewBuffer(jsonData))
			c.Request.Header.Set("Content-Type", "application/json")

			StorePushToken(c)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			_ = json.Unmarshal(w.Body.Bytes(), &response)
			if tt.expectError {
				assert.NotNil(t, response["error"])
			} else {
				assert.NotNil(t, response["message"])
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
