package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hiring-ingest/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Should echo the request correlation id", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("RequestID", "req-123")

		response.Success(c, http.StatusOK, "ok", gin.H{"id": "job1"})

		var body response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "req-123", body.RequestID)
	})

	t.Run("Should omit the id when no middleware set one", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		response.Error(c, http.StatusBadRequest, "bad input", []string{"file name is required"})

		assert.NotContains(t, w.Body.String(), "request_id")
		assert.Contains(t, w.Body.String(), "file name is required")
	})
}
