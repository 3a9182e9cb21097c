package catalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"masterplan/pkg/models"
)

func newRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/plots"))
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return body.Error
}

func TestHandlerGet(t *testing.T) {
	r := newRouter(NewService(NewFileBackend(writeFixture(t)), nil))

	w := do(t, r, http.MethodGet, "/api/plots", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("ETag") == "" {
		t.Fatal("missing ETag")
	}
	var cat models.Catalog
	if err := json.Unmarshal(w.Body.Bytes(), &cat); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cat.Plots) != 2 {
		t.Fatalf("unexpected plots: %d", len(cat.Plots))
	}

	w = do(t, r, http.MethodGet, "/api/plots/B", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"areaSqft":4200`) {
		t.Fatalf("get one: %d %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodGet, "/api/plots/Q", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandlerGetUnavailable(t *testing.T) {
	r := newRouter(NewService(NewFileBackend(t.TempDir()+"/missing.json"), nil))
	w := do(t, r, http.MethodGet, "/api/plots", "")
	if w.Code != http.StatusInternalServerError || decodeError(t, w) != "Failed to load plots" {
		t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
	}
}

func TestHandlerBulkEdit(t *testing.T) {
	r := newRouter(NewService(NewFileBackend(writeFixture(t)), nil))

	w := do(t, r, http.MethodPut, "/api/plots", `{"plots":[{"id":"A","x":0.2},{"id":"Z","x":0.9},{"nope":true}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var cat models.Catalog
	if err := json.Unmarshal(w.Body.Bytes(), &cat); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cat.Plots) != 2 || cat.Plots[0].X != 0.2 || cat.Plots[1].X != 0.9 {
		t.Fatalf("unexpected plots: %+v", cat.Plots)
	}
}

func TestHandlerSingleEdit(t *testing.T) {
	path := writeFixture(t)
	r := newRouter(NewService(NewFileBackend(path), nil))

	cases := []struct {
		body   string
		status int
		err    string
	}{
		{`{"id":5,"x":0.1,"y":0.1}`, http.StatusBadRequest, "Invalid id"},
		{`{"id":"A","x":"0.1","y":0.1}`, http.StatusBadRequest, "Invalid x/y"},
		{`{"id":"A","x":0.1}`, http.StatusBadRequest, "Invalid x/y"},
		{`{"id":"nonexistent","x":0.1,"y":0.1}`, http.StatusNotFound, "Plot not found"},
		{`{"id":"","x":0.1,"y":0.1}`, http.StatusNotFound, "Plot not found"},
		{`{"hello":"world"}`, http.StatusBadRequest, "Unsupported payload"},
		{`{"plots":"nope"}`, http.StatusBadRequest, "Unsupported payload"},
		{`[1,2]`, http.StatusBadRequest, "invalid json"},
	}
	before, _ := os.ReadFile(path)
	for _, tc := range cases {
		w := do(t, r, http.MethodPut, "/api/plots", tc.body)
		if w.Code != tc.status || decodeError(t, w) != tc.err {
			t.Fatalf("%s: got %d %s", tc.body, w.Code, w.Body.String())
		}
	}
	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Fatal("rejected edits changed the catalog file")
	}

	w := do(t, r, http.MethodPut, "/api/plots", `{"id":"A","x":1.5,"y":-3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var cat models.Catalog
	if err := json.Unmarshal(w.Body.Bytes(), &cat); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cat.Plots[0].X != 1 || cat.Plots[0].Y != 0 {
		t.Fatalf("not clamped: %+v", cat.Plots[0])
	}
}

func TestHandlerPersistenceFailure(t *testing.T) {
	r := newRouter(NewService(readOnly{NewFileBackend(writeFixture(t))}, nil))

	w := do(t, r, http.MethodPut, "/api/plots", `{"id":"A","x":0.5,"y":0.5}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status %d", w.Code)
	}
	var body struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Failed to persist plot positions" || !strings.Contains(body.Detail, "durable") {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHandlerIfMatch(t *testing.T) {
	r := newRouter(NewService(NewFileBackend(writeFixture(t)), nil))

	etag := do(t, r, http.MethodGet, "/api/plots", "").Header().Get("ETag")

	w := do(t, r, http.MethodPut, "/api/plots", `{"id":"A","x":0.3,"y":0.3}`, "If-Match", etag)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPut, "/api/plots", `{"plots":[{"id":"A","x":0.4}]}`, "If-Match", etag)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}
