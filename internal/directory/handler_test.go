package directory_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modern-studios/accounts/internal/directory"
)

func newDirectoryRouter(repo *mockRepository) http.Handler {
	handler := directory.NewHandler(nil, directory.NewService(nil, repo))
	r := chi.NewRouter()
	r.Route("/api/admin/users", handler.MountRoutes)
	return r
}

func TestListUsersEndpoint(t *testing.T) {
	router := newDirectoryRouter(newMockRepository(sampleUser()))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users/", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var profiles []map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &profiles))
	require.Len(t, profiles, 1)
	assert.Equal(t, "ann@x.com", profiles[0]["email"])
	assert.Equal(t, "Ann", profiles[0]["firstName"])
	assert.NotContains(t, profiles[0], "password")
	assert.NotContains(t, profiles[0], "passwordHash")
}

func TestGetUserByEmailEndpoint(t *testing.T) {
	router := newDirectoryRouter(newMockRepository(sampleUser()))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users/email?email=ann@x.com", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "ann@x.com", body["email"])
	assert.Equal(t, "Ann", body["firstName"])
	assert.Equal(t, "Lee", body["lastName"])
	assert.NotContains(t, body, "password")
}

func TestGetUserByEmailNotFound(t *testing.T) {
	router := newDirectoryRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users/email?email=nobody@x.com", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestGetUserByEmailBlank(t *testing.T) {
	router := newDirectoryRouter(newMockRepository())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users/email", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func putJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestUpdateUserEndpoint(t *testing.T) {
	repo := newMockRepository(sampleUser())
	router := newDirectoryRouter(repo)

	res := putJSON(t, router, "/api/admin/users/update?email=ann@x.com", map[string]string{
		"firstName": "Anne",
	})
	require.Equal(t, http.StatusOK, res.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "Anne", body["firstName"])
	assert.Equal(t, "Lee", body["lastName"])
}

func TestUpdateUserImmutableEmail(t *testing.T) {
	router := newDirectoryRouter(newMockRepository(sampleUser()))

	res := putJSON(t, router, "/api/admin/users/update?email=ann@x.com", map[string]string{
		"email": "other@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestUpdateUserImmutableCreatedAt(t *testing.T) {
	router := newDirectoryRouter(newMockRepository(sampleUser()))

	res := putJSON(t, router, "/api/admin/users/update?email=ann@x.com", map[string]string{
		"createdAt": "2026-02-01T00:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestUpdateUserFieldValidation(t *testing.T) {
	router := newDirectoryRouter(newMockRepository(sampleUser()))

	res := putJSON(t, router, "/api/admin/users/update?email=ann@x.com", map[string]string{
		"firstName": "A",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestUpdateUserNotFound(t *testing.T) {
	router := newDirectoryRouter(newMockRepository())

	res := putJSON(t, router, "/api/admin/users/update?email=nobody@x.com", map[string]string{
		"firstName": "Anne",
	})
	assert.Equal(t, http.StatusNotFound, res.Code)
}
