package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrganization(t *testing.T) {
	SetupTestServices(t, testNow)

	orgColumns := []string{"organization_id", "organization_name", "time_zone", "is_active", "datetime_create"}

	tests := []struct {
		name           string
		orgID          string
		setup          func(mock sqlmock.Sqlmock)
		expectedStatus int
	}{
		{
			name:  "returns organization with current week",
			orgID: "1",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM "organization" WHERE \("organization_id" = 1\) LIMIT 1`).
					WillReturnRows(sqlmock.NewRows(orgColumns).
						AddRow(1, "Grace Church", "America/New_York", true, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid organization ID",
			orgID:          "abc",
			setup:          func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "organization not found",
			orgID: "99",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM "organization"`).WillReturnRows(sqlmock.NewRows(orgColumns))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:  "database error",
			orgID: "1",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT .* FROM "organization"`).WillReturnError(errors.New("connection reset"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()
			tt.setup(mock)

			c, w := SetupTestContext()
			c.Request = httptest.NewRequest("GET", "/organizations/"+tt.orgID, nil)
			c.Params = gin.Params{{Key: "organization_id", Value: tt.orgID}}

			GetOrganization(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NoError(t, mock.ExpectationsWereMet())

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			if tt.expectedStatus != http.StatusOK {
				assert.NotNil(t, response["error"])
				return
			}

			assert.Equal(t, "2024-03-10", response["currentWeek"])
			org := response["organization"].(map[string]interface{})
			assert.Equal(t, "Grace Church", org["organizationName"])
			rng := response["weekRange"].(map[string]interface{})
			assert.Equal(t, "2024-03-10T05:00:00Z", rng["startUtc"])
			assert.Equal(t, "2024-03-17T04:00:00Z", rng["endUtc"])
			assert.Len(t, response["fellowships"], 6)
		})
	}
}
