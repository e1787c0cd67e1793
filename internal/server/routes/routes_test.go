package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/castgraph/backend/internal/server/middleware"
	"github.com/castgraph/backend/pkg/cache"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i any) error {
	return v.validator.Struct(i)
}

func newTestContext(t *testing.T, method, target, body string, app *middleware.App) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	c := e.NewContext(req, rec)
	return &middleware.AppContext{Context: c, App: app}, rec
}

func newTestApp(t *testing.T) *middleware.App {
	t.Helper()
	store, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	return &middleware.App{Store: store}
}

func TestGetHealthHandler(t *testing.T) {
	c, rec := newTestContext(t, http.MethodGet, "/api/health", "", nil)

	if err := GetHealthHandler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestGetCacheInfoHandler(t *testing.T) {
	app := newTestApp(t)
	if err := app.Store.Write(cache.CategoryGraphs, "11_all", map[string]string{"k": "v"}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	c, rec := newTestContext(t, http.MethodGet, "/api/cache_info", "", app)
	if err := GetCacheInfoHandler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		CacheDir  string  `json:"cache_dir"`
		Exists    bool    `json:"exists"`
		Items     int     `json:"items"`
		SizeBytes int64   `json:"size_bytes"`
		SizeMB    float64 `json:"size_mb"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Exists || body.Items != 1 || body.SizeBytes == 0 {
		t.Errorf("unexpected cache info: %+v", body)
	}
	if body.CacheDir != app.Store.Root() {
		t.Errorf("cache_dir = %q, want %q", body.CacheDir, app.Store.Root())
	}
}

func TestClearCacheHandler(t *testing.T) {
	app := newTestApp(t)
	if err := app.Store.Write(cache.CategoryBooks, "11", map[string]string{"k": "v"}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	c, rec := newTestContext(t, http.MethodPost, "/api/clear_cache", "", app)
	if err := ClearCacheHandler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	if app.Store.Exists(cache.CategoryBooks, "11") {
		t.Error("cache entry survived clear")
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestAnalyzeBookHandlerRejectsBadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: `{}`},
		{name: "missing book id", body: `{"names_only": true}`},
		{name: "not json", body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t, http.MethodPost, "/api/analyze", tt.body, nil)
			if err := AnalyzeBookHandler(c); err != nil {
				t.Fatalf("handler: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] == "" {
				t.Error("missing error field")
			}
		})
	}
}

func TestQueryBookHandlerRejectsBadSelection(t *testing.T) {
	c, rec := newTestContext(t, http.MethodPost, "/api/query",
		`{"book_id": "11", "question": "q", "chunk_selection": "psychic"}`, nil)
	if err := QueryBookHandler(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
