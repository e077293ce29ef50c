package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespondSuccess(t *testing.T) {
	t.Run("empty data is an object", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RespondSuccess(rec, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"success":true,"data":{}}`, rec.Body.String())
	})

	t.Run("payload", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RespondSuccess(rec, map[string]string{"name": "x"})

		assert.JSONEq(t, `{"success":true,"data":{"name":"x"}}`, rec.Body.String())
	})
}

func TestRespondFailure_AlwaysOK(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondFailure(rec, "Bad auth data")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Bad auth data"}`, rec.Body.String())
}
