package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUpdater struct {
	saved   *User
	columns []string
	err     error
}

func (f *fakeUpdater) Update(_ context.Context, u *User, columns ...string) error {
	if f.err != nil {
		return f.err
	}
	f.saved = u
	f.columns = columns
	return nil
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		fields   []string
	}{
		{"valid", "a@b.com", "password1", nil},
		{"short email", "a@bc", "password1", []string{"email", "email"}},
		{"missing tld", "abc@domain", "password1", []string{"email"}},
		{"short password", "a@b.com", "short", []string{"password"}},
		{"long password", "a@b.com", strings.Repeat("x", 151), []string{"password"}},
		{"both", "nope", "", []string{"email", "email", "password"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCredentials(tc.email, tc.password)
			if tc.fields == nil {
				assert.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrInvalidInput)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))

			got := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				got = append(got, f.Field)
			}
			assert.Equal(t, tc.fields, got)
		})
	}
}

func TestValidateCredentials_CountsCharacters(t *testing.T) {
	// eight multi-byte characters
	assert.NoError(t, ValidateCredentials("a@b.com", "пароль12"))
}

func TestService_UpdateProfile(t *testing.T) {
	t.Run("keeps current values for empty fields", func(t *testing.T) {
		store := &fakeUpdater{}
		u := New("a@b.com", "hash")

		updated, err := NewService(store).UpdateProfile(context.Background(), u, Profile{Name: "Satoshi"})
		require.NoError(t, err)

		assert.Equal(t, "Satoshi", updated.Name)
		assert.Equal(t, DefaultBio, updated.Bio)
		assert.Equal(t, DefaultPhoto, updated.Photo)
		assert.Same(t, updated, store.saved)
		assert.Equal(t, ProfileColumns, store.columns, "profile saves must not touch session columns")
		assert.Equal(t, DefaultName, u.Name, "input user must not be mutated")
	})

	t.Run("rejects long bio", func(t *testing.T) {
		store := &fakeUpdater{}
		_, err := NewService(store).UpdateProfile(context.Background(), New("a@b.com", "hash"),
			Profile{Bio: strings.Repeat("b", MaxBioLength+1)})

		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Nil(t, store.saved)
	})
}

func TestHandler_Get(t *testing.T) {
	h := NewHandler(NewService(&fakeUpdater{}))

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Get(rec, httptest.NewRequest(http.MethodGet, "/api/user", nil))
		assert.JSONEq(t, `{"success":false,"message":"Not logged in"}`, rec.Body.String())
	})

	t.Run("hides password hash", func(t *testing.T) {
		u := New("a@b.com", "secret-hash")
		u.SetSession("token-hash", u.CreatedAt)
		req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		req = req.WithContext(NewContext(req.Context(), u))

		rec := httptest.NewRecorder()
		h.Get(rec, req)

		assert.NotContains(t, rec.Body.String(), "secret-hash")
		assert.NotContains(t, rec.Body.String(), "token-hash")

		var body struct {
			Success bool `json:"success"`
			Data    User `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "a@b.com", body.Data.Email)
	})
}

func TestHandler_Update(t *testing.T) {
	u := New("a@b.com", "hash")
	h := NewHandler(NewService(&fakeUpdater{}))

	req := httptest.NewRequest(http.MethodPost, "/api/user", strings.NewReader(`{"name":"`+strings.Repeat("n", 151)+`"}`))
	req = req.WithContext(NewContext(req.Context(), u))
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid data: name must be at most 150 characters"}`, rec.Body.String())
}
