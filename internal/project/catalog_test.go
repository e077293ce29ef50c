package project

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptostarter/cryptostarter/internal/locale"
)

func TestList(t *testing.T) {
	locales, err := locale.Load("")
	require.NoError(t, err)

	tests := []struct {
		status  Status
		count   int
		firstID int
	}{
		{StatusActive, 6, 0},
		{StatusPrepared, 3, 10},
		{StatusDone, 2, 15},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			projects, err := List(tt.status, locales.Default())
			require.NoError(t, err)
			require.Len(t, projects, tt.count)
			assert.Equal(t, tt.firstID, projects[0].ID)
			assert.Equal(t, tt.firstID+tt.count-1, projects[len(projects)-1].ID)
			assert.Equal(t, "Demo project", projects[0].Title)
		})
	}

	_, err = List(Status("archived"), locales.Default())
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, st)

	st, err = ParseStatus("done")
	require.NoError(t, err)
	assert.Equal(t, StatusDone, st)

	_, err = ParseStatus("bogus")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestHandler_List(t *testing.T) {
	locales, err := locale.Load("")
	require.NoError(t, err)
	h := NewHandler(locales)

	t.Run("localized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, "/api/projects?status=prepared&lang=de", nil))

		var resp struct {
			Success bool      `json:"success"`
			Data    []Summary `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.Len(t, resp.Data, 3)
		assert.Equal(t, "Demoprojekt", resp.Data[0].Title)
	})

	t.Run("unknown status", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.List(rec, httptest.NewRequest(http.MethodGet, "/api/projects?status=bogus", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":false,"message":"Invalid data: status must be active, prepared or done"}`, rec.Body.String())
	})
}
