package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebook-backend/pkg/container"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("APP_ENV", "test")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("CACHE_DRIVER", "memory")

	c, err := container.NewContainer()
	require.NoError(t, err)
	t.Cleanup(c.Cleanup)

	return &apiClient{t: t, router: SetupRouter(c)}
}

func (a *apiClient) do(method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *apiClient) register(dni, name string) (string, string) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/user", "", map[string]string{"dni": dni, "name": name, "city": "Madrid"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	token := w.Header().Get("Authorization")
	require.NotEmpty(a.t, token)

	var u struct{ ID string }
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &u))
	return u.ID, token
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct{ Code string }
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func pastaBody() map[string]interface{} {
	return map[string]interface{}{
		"name":        "Pasta",
		"description": "Pasta con tomate",
		"difficulty":  "Baja",
		"steps":       "Hervir la pasta y añadir la salsa",
		"kitchen":     "Italiana",
		"rations":     4,
		"time":        20,
		"type":        "Primero",
	}
}

func TestRecipeLifecycle(t *testing.T) {
	api := newTestAPI(t)

	_, anaToken := api.register("70917793F", "Ana")
	_, luisToken := api.register("12345678Z", "Luis")

	// duplicate DNI
	w := api.do(http.MethodPost, "/user", "", map[string]string{"dni": "70917793F", "name": "Otra", "city": "Lugo"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "5", errorCode(t, w))

	// recipe
	w = api.do(http.MethodPost, "/recipe", "", pastaBody())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/recipe", anaToken, pastaBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct{ ID string }
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	recipePath := "/recipe/" + created.ID

	w = api.do(http.MethodPost, "/recipe", "Bearer "+anaToken, pastaBody())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "1", errorCode(t, w))

	// ingredient attach/attach/detach/detach
	assert.Equal(t, http.StatusCreated, api.do(http.MethodPost, recipePath+"/ingredient/tomato", anaToken, nil).Code)
	w = api.do(http.MethodPost, recipePath+"/ingredient/Tomato", anaToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "2", errorCode(t, w))
	assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, recipePath+"/ingredient/tomato", anaToken, nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, recipePath+"/ingredient/tomato", anaToken, nil).Code)

	// tags, and owner gating
	assert.Equal(t, http.StatusCreated, api.do(http.MethodPost, recipePath+"/tag/rapida", anaToken, nil).Code)
	assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, recipePath+"/tag/RAPIDA", anaToken, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, recipePath+"/tag/otra", luisToken, nil).Code)

	// reviews
	review := map[string]interface{}{"comment": "Muy buena", "rating": 4.5}
	assert.Equal(t, http.StatusCreated, api.do(http.MethodPost, recipePath+"/review", luisToken, review).Code)
	w = api.do(http.MethodPost, recipePath+"/review", luisToken, review)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "4", errorCode(t, w))

	// read in both formats
	w = api.do(http.MethodGet, recipePath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		Tags    []string
		Reviews []struct{ Comment string }
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, []string{"Rapida"}, detail.Tags)
	require.Len(t, detail.Reviews, 1)

	w = api.do(http.MethodGet, recipePath, "", nil, "Accept", "application/xml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/xml")
	assert.Contains(t, w.Body.String(), "<tag>Rapida</tag>")
	assert.Contains(t, w.Body.String(), "<comment>Muy buena</comment>")

	assert.Equal(t, http.StatusUnsupportedMediaType, api.do(http.MethodGet, recipePath, "", nil, "Accept", "text/csv").Code)

	// both cached renderings follow a write
	patch := map[string]interface{}{"rations": 6}
	assert.Equal(t, http.StatusOK, api.do(http.MethodPatch, recipePath, anaToken, patch).Code)
	assert.Contains(t, api.do(http.MethodGet, recipePath, "", nil).Body.String(), `"rations":6`)
	assert.Contains(t, api.do(http.MethodGet, recipePath, "", nil, "Accept", "application/xml").Body.String(), "<rations>6</rations>")

	// search
	w = api.do(http.MethodGet, "/recipes/search?rations=4:gt", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total   int
		Recipes []struct{ Name string }
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)

	w = api.do(http.MethodGet, "/recipes/search?tag=rapida&rations=6:lt", "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 0, page.Total)

	// deleting the owner removes the recipe
	assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/user", anaToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, recipePath, "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/user/resetToken", anaToken, nil).Code)
}

func TestUserEndpoints(t *testing.T) {
	api := newTestAPI(t)
	anaID, anaToken := api.register("70917793F", "Ana")

	w := api.do(http.MethodGet, "/user/"+anaID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/user/"+anaID, anaToken, nil, "Accept", "application/xml")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "<user>"), w.Body.String())
	assert.NotContains(t, w.Body.String(), "70917793F")

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/user/not-a-uuid", anaToken, nil).Code)

	w = api.do(http.MethodPut, "/user", anaToken, map[string]string{"name": "Ana Maria", "city": "Vigo"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, api.do(http.MethodGet, "/user/"+anaID, anaToken, nil).Body.String(), "Vigo")

	w = api.do(http.MethodPatch, "/user", anaToken, map[string]string{"city": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/user/resetToken", anaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	newToken := w.Header().Get("Authorization")
	require.NotEmpty(t, newToken)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/users", anaToken, nil).Code)

	w = api.do(http.MethodGet, "/users/search?name=ana", newToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Total int
		Users []struct{ Name string }
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "Ana Maria", page.Users[0].Name)

	w = api.do(http.MethodGet, "/user/"+anaID+"/recipes", newToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":0`)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
