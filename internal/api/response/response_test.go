package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kingmac21-dev/ghl-telecom-middleware/internal/api/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	response.JSON(rec, map[string]any{"success": true, "routedTo": "loc1"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "loc1", body["routedTo"])
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Error(rec, http.StatusBadRequest, "destination_missing", "Destination number missing")

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Code    string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "destination_missing", body.Code)
	assert.Equal(t, "Destination number missing", body.Message)
}

func TestCollection(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Collection(rec, []string{"a", "b"}, response.PaginationMeta{Page: 1, Limit: 20, Total: 2})

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool     `json:"success"`
		Data    []string `json:"data"`
		Meta    struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Total int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, []string{"a", "b"}, body.Data)
	assert.Equal(t, 2, body.Meta.Total)
}
