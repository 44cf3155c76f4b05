package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/BoxCut/internal/config"
	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/piwi3910/BoxCut/pkg/logger"
)

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Host:               "127.0.0.1",
		Port:               0,
		ShutdownTimeout:    time.Second,
		MaxRequestSize:     1 << 20,
		CORSAllowedOrigins: []string{"*"},
	}
}

func newTestServer(t *testing.T, mutate func(*config.ServerConfig)) http.Handler {
	t.Helper()
	cfg := testServerConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, model.DefaultMillSettings(), logger.Nop(), "test").Handler()
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	return resp.Error
}

const validBox = `{"length":120,"width":80,"height":50,"thickness":3,"kerf":0.2,"tab_width":15}`

func TestHealth(t *testing.T) {
	h := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["version"])
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "test", rec.Header().Get("X-API-Version"))
}

func TestGenerate_Valid(t *testing.T) {
	h := newTestServer(t, nil)
	rec := post(t, h, "/v1/boxes", validBox)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp BoxResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.DesignID)
	assert.Len(t, resp.Placements, 6)
	assert.NotEmpty(t, resp.Paths)
	assert.Greater(t, resp.CutLength, 0.0)
	assert.Less(t, resp.Bounds.Min.X, resp.Bounds.Max.X)
	assert.Equal(t, model.BoxFull, resp.Params.BoxType)
}

func TestGenerate_Nesting(t *testing.T) {
	h := newTestServer(t, nil)

	var plain BoxResponse
	rec := post(t, h, "/v1/boxes", validBox)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plain))
	assert.Nil(t, plain.Nesting)

	rec = post(t, h, "/v1/boxes", `{"length":120,"width":80,"height":50,"tab_width":15,"max_material_width":300,"max_material_height":200}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp BoxResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Nesting)
	placed := 0
	for _, sheet := range resp.Nesting.Sheets {
		placed += len(sheet.Placements)
	}
	assert.Equal(t, 6, placed)
	assert.Empty(t, resp.Nesting.Unplaced)
}

func TestGenerate_SameParamsSameDesignID(t *testing.T) {
	h := newTestServer(t, nil)
	var ids []string
	for range 2 {
		rec := post(t, h, "/v1/boxes", validBox)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp BoxResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		ids = append(ids, resp.DesignID)
	}
	assert.Equal(t, ids[0], ids[1])
}

func TestGenerate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		code  string
		field string
	}{
		{"short length", `{"length":10}`, "DIMENSION_ERROR", "length"},
		{"thick material", `{"thickness":80}`, "MATERIAL_ERROR", "thickness"},
		{"tiny tab", `{"tab_width":1}`, "TAB_ERROR", "tab_width"},
		{"unknown box type", `{"box_type":"cube"}`, "VALIDATION_ERROR", "box_type"},
		{"too many dividers", `{"dividers_length":500}`, "VALIDATION_ERROR", ""},
	}

	h := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, "/v1/boxes", tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			body := decodeError(t, rec)
			assert.Equal(t, tt.code, body.Code)
			if tt.field != "" {
				assert.Equal(t, tt.field, body.Field)
			}
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestGenerate_MalformedJSON(t *testing.T) {
	h := newTestServer(t, nil)
	rec := post(t, h, "/v1/boxes", `{"length":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeBadRequest, decodeError(t, rec).Code)
}

func TestGenerate_WrongContentType(t *testing.T) {
	h := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/boxes", strings.NewReader(validBox))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestGenerate_BodyTooLarge(t *testing.T) {
	h := newTestServer(t, func(c *config.ServerConfig) { c.MaxRequestSize = 16 })
	rec := post(t, h, "/v1/boxes", validBox)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestValidate(t *testing.T) {
	h := newTestServer(t, nil)

	rec := post(t, h, "/v1/boxes/validate", `{"length":120,"width":80,"height":50,"tab_width":15,"dividers_length":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var ok ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	assert.True(t, ok.Valid)
	require.NotNil(t, ok.LengthDividers)
	assert.Equal(t, 2, ok.LengthDividers.Count)

	rec = post(t, h, "/v1/boxes/validate", `{"height":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var bad ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bad))
	assert.False(t, bad.Valid)
	require.NotNil(t, bad.Error)
	assert.Equal(t, "DIMENSION_ERROR", bad.Error.Code)
	assert.Equal(t, "height", bad.Error.Field)
}

func TestCompare(t *testing.T) {
	h := newTestServer(t, nil)
	rec := post(t, h, "/v1/boxes/compare", validBox)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Scenarios []ScenarioSummary `json:"scenarios"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Scenarios)
	assert.Equal(t, "Current Settings", resp.Scenarios[0].Name)
	assert.Greater(t, resp.Scenarios[0].PathCount, 0)
}

func TestSVG(t *testing.T) {
	h := newTestServer(t, nil)
	rec := post(t, h, "/v1/boxes/svg", validBox)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<svg")
	assert.Contains(t, rec.Body.String(), "</svg>")
}

func TestCutList(t *testing.T) {
	h := newTestServer(t, nil)
	rec := post(t, h, "/v1/boxes/cutlist", validBox)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx is a zip container")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
}

func TestPDF(t *testing.T) {
	h := newTestServer(t, nil)
	rec := post(t, h, "/v1/boxes/pdf", validBox)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestGCode(t *testing.T) {
	h := newTestServer(t, nil)
	rec := post(t, h, "/v1/boxes/gcode", validBox)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "G21")

	rec = post(t, h, "/v1/boxes/gcode", `{"length":120,"width":80,"height":50,"tab_width":15,"mill":{"pass_depth":0}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestNotFoundAndMethod(t *testing.T) {
	h := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeNotFound, decodeError(t, rec).Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	h := newTestServer(t, func(c *config.ServerConfig) {
		c.RateLimit = 0.001
		c.RateBurst = 1
	})

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestRequestID_Propagated(t *testing.T) {
	h := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRecoverer(t *testing.T) {
	var buf bytes.Buffer
	log := logger.MustNew(logger.Config{Output: &buf})
	h := RequestID(Recoverer(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, CodeInternal, decodeError(t, rec).Code)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "request_id")
}

func TestRun_GracefulShutdown(t *testing.T) {
	cfg := testServerConfig()
	s := New(cfg, model.DefaultMillSettings(), logger.Nop(), "test")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
