package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xteamMuffin/Hireability/internal/middleware"
	"github.com/0xteamMuffin/Hireability/internal/models"
	"github.com/0xteamMuffin/Hireability/internal/repositories"
	"github.com/0xteamMuffin/Hireability/internal/testhelpers"
)

func newProfileHandler(t *testing.T) *ProfileHandler {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	return NewProfileHandler(&repositories.ProfileRepository{DB: db}, nil)
}

func TestProfileGetBeforeFirstSave(t *testing.T) {
	h := newProfileHandler(t)

	r := middleware.AsUser(httptest.NewRequest("GET", "/profile", nil), 7)
	w := httptest.NewRecorder()
	h.GetHandler(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfilePutThenGet(t *testing.T) {
	h := newProfileHandler(t)

	body := `{"fullName":"Ada","targetRole":"Backend Engineer","experienceLevel":"senior"}`
	r := middleware.AsUser(httptest.NewRequest("PUT", "/profile", strings.NewReader(body)), 7)
	w := httptest.NewRecorder()
	h.PutHandler(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	r = middleware.AsUser(httptest.NewRequest("GET", "/profile", nil), 7)
	w = httptest.NewRecorder()
	h.GetHandler(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Backend Engineer")

	// a second put updates in place
	body = `{"fullName":"Ada","targetRole":"Staff Engineer"}`
	r = middleware.AsUser(httptest.NewRequest("PUT", "/profile", strings.NewReader(body)), 7)
	w = httptest.NewRecorder()
	h.PutHandler(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	saved, err := h.Repo.GetByUserID(7)
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", saved.TargetRole)
}

func TestProfilePutIgnoresClientPrimaryKey(t *testing.T) {
	h := newProfileHandler(t)

	body := `{"id":9999,"fullName":"Mallory","targetRole":"Anything"}`
	r := middleware.AsUser(httptest.NewRequest("PUT", "/profile", strings.NewReader(body)), 3)
	w := httptest.NewRecorder()
	h.PutHandler(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	saved, err := h.Repo.GetByUserID(3)
	require.NoError(t, err)
	assert.NotEqual(t, uint(9999), saved.ID)
	assert.Equal(t, uint(3), saved.UserID)
}

func TestProfilesAreScopedPerUser(t *testing.T) {
	h := newProfileHandler(t)

	_, err := h.Repo.Upsert(&models.Profile{UserID: 1, TargetRole: "SRE"})
	require.NoError(t, err)

	r := middleware.AsUser(httptest.NewRequest("GET", "/profile", nil), 2)
	w := httptest.NewRecorder()
	h.GetHandler(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfilePutRejectsMalformedBody(t *testing.T) {
	h := newProfileHandler(t)

	r := middleware.AsUser(httptest.NewRequest("PUT", "/profile", strings.NewReader(`{"fullName":`)), 1)
	w := httptest.NewRecorder()
	h.PutHandler(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
