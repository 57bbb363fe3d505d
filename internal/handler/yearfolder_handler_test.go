package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/univ-registry-api/internal/service"
	appErrors "github.com/noah-isme/univ-registry-api/pkg/errors"
	"github.com/noah-isme/univ-registry-api/pkg/response"
)

type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrStateMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memStore) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func newYearRouter() (*gin.Engine, *service.YearFolderService) {
	gin.SetMode(gin.TestMode)
	years := service.NewYearFolderService(newMemStore(), nil, zap.NewNop())
	h := NewYearFolderHandler(years)

	r := gin.New()
	r.GET("/years", h.List)
	r.POST("/years", h.Create)
	r.POST("/years/archive", h.Archive)
	r.POST("/years/restore", h.Restore)
	r.DELETE("/years/:label", h.Delete)
	return r, years
}

func TestYearFolderHandlerList(t *testing.T) {
	r, _ := newYearRouter()

	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/years", nil))

	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data struct {
			Visible  []string `json:"visible"`
			Archived []string `json:"archived"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Visible, 5)
	assert.Empty(t, envelope.Data.Archived)
}

func TestYearFolderHandlerCreate(t *testing.T) {
	r, _ := newYearRouter()

	body := bytes.NewBufferString(`{"year":"2025-2026"}`)
	req := httptest.NewRequest(http.MethodPost, "/years", body)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "SY 2025-2026")
}

func TestYearFolderHandlerCreateRejectsMalformed(t *testing.T) {
	r, _ := newYearRouter()

	body := bytes.NewBufferString(`{"year":"next year"}`)
	req := httptest.NewRequest(http.MethodPost, "/years", body)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, envelope.Error.Code)
}

func TestYearFolderHandlerArchiveRequiresPhrase(t *testing.T) {
	r, _ := newYearRouter()

	body := bytes.NewBufferString(`{"label":"SY 2022-2023","confirm":"archive"}`)
	req := httptest.NewRequest(http.MethodPost, "/years/archive", body)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestYearFolderHandlerArchiveAndRestore(t *testing.T) {
	r, years := newYearRouter()

	body := bytes.NewBufferString(`{"label":"SY 2022-2023","confirm":"Archive"}`)
	req := httptest.NewRequest(http.MethodPost, "/years/archive", body)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	folders, err := years.Folders(context.Background())
	require.NoError(t, err)
	assert.Contains(t, folders.Archived, "SY 2022-2023")

	body = bytes.NewBufferString(`{"label":"SY 2022-2023","confirm":"Restore"}`)
	req = httptest.NewRequest(http.MethodPost, "/years/restore", body)
	req.Header.Set("Content-Type", "application/json")
	recorder = httptest.NewRecorder()
	r.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)

	folders, err = years.Folders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, folders.Archived)
}

func TestYearFolderHandlerDeleteBaseline(t *testing.T) {
	r, _ := newYearRouter()

	req := httptest.NewRequest(http.MethodDelete, "/years/SY%202020-2021", nil)
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}
