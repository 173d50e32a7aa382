package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/raman-shres/fba-dashboard/pkg/models/api"
	"github.com/raman-shres/fba-dashboard/pkg/services/analysis"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Analyze(ctx context.Context, items []api.AnalyzeItem) (*api.AnalyzeResponse, error) {
	args := m.Called(ctx, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.AnalyzeResponse), args.Error(1)
}

func TestAnalyze_OK(t *testing.T) {
	svc := new(mockService)
	svc.On("Analyze", mock.Anything, mock.Anything).
		Return(&api.AnalyzeResponse{Cached: true, Data: []api.AnalysisResult{{ASIN: "B01"}}}, nil)

	h := NewHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/api/asins/analyze",
		strings.NewReader(`{"items":[{"asin":"B01","cost":5}]}`))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.AnalyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Cached)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "B01", resp.Data[0].ASIN)
	svc.AssertExpectations(t)
}

func TestAnalyze_InvalidJSON(t *testing.T) {
	h := NewHandler(new(mockService))
	req := httptest.NewRequest(http.MethodPost, "/api/asins/analyze", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_ValidationErrorIsBadRequest(t *testing.T) {
	svc := new(mockService)
	svc.On("Analyze", mock.Anything, mock.Anything).
		Return(nil, &analysis.ValidationError{Index: 0, Field: "cost", Reason: "must not be negative"})

	h := NewHandler(svc)
	req := httptest.NewRequest(http.MethodPost, "/api/asins/analyze",
		strings.NewReader(`{"items":[{"asin":"B01","cost":-5}]}`))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "cost")
}

func TestHealth(t *testing.T) {
	h := NewHandler(new(mockService))
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func multipartCSV(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUpload_OK(t *testing.T) {
	csv := "asin,cost,price_override\n"
	for i := 0; i < 12; i++ {
		csv += "B00000000" + string(rune('A'+i)) + ",5,\n"
	}
	body, contentType := multipartCSV(t, "batch.csv", csv)

	h := NewHandler(new(mockService))
	req := httptest.NewRequest(http.MethodPost, "/api/batches/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, 12, resp.Count)
	assert.Len(t, resp.Preview, 10)
}

func TestUpload_RejectsNonCSV(t *testing.T) {
	body, contentType := multipartCSV(t, "batch.txt", "asin,cost\nB01,5\n")

	h := NewHandler(new(mockService))
	req := httptest.NewRequest(http.MethodPost, "/api/batches/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, ".csv")
}

func TestUpload_MissingFile(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())

	h := NewHandler(new(mockService))
	req := httptest.NewRequest(http.MethodPost, "/api/batches/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
