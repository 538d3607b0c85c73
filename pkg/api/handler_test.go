package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hazyhaar/tagsmith/pkg/engine"
	"github.com/hazyhaar/tagsmith/pkg/tagdict"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	reg := tagdict.NewRegistry("")
	if err := reg.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return NewRouter(engine.New(reg), reg, nil)
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: bad JSON response %q: %v", method, path, rec.Body.String(), err)
	}
	return rec, out
}

func TestTranslateRoute(t *testing.T) {
	h := testRouter(t)
	rec, out := doJSON(t, h, "POST", "/v1/translate", `{"description":"coffee shop with wifi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", rec.Code, out)
	}

	tagsObj, ok := out["tags"].([]any)
	if !ok || len(tagsObj) != 2 {
		t.Fatalf("tags = %v, want amenity=cafe and internet_access=wlan", out["tags"])
	}
	if out["overall_status"] != "valid" {
		t.Errorf("overall_status = %v", out["overall_status"])
	}
}

func TestTranslateRouteRejectsEmptyDescription(t *testing.T) {
	h := testRouter(t)
	rec, _ := doJSON(t, h, "POST", "/v1/translate", `{"description":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTranslateRouteRejectsBadJSON(t *testing.T) {
	h := testRouter(t)
	rec, _ := doJSON(t, h, "POST", "/v1/translate", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestValidateRoute(t *testing.T) {
	h := testRouter(t)
	rec, out := doJSON(t, h, "POST", "/v1/validate", `{"tags":{"shop":"fishmonger"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", rec.Code, out)
	}
	issues, _ := out["issues"].([]any)
	if len(issues) == 0 {
		t.Error("deprecated shop=fishmonger produced no issues")
	}
	if out["overall_status"] != "valid" {
		t.Errorf("overall_status = %v, deprecation is only a warning", out["overall_status"])
	}
}

func TestValidateRouteCoordinates(t *testing.T) {
	h := testRouter(t)
	rec, out := doJSON(t, h, "POST", "/v1/validate",
		`{"tags":{"amenity":"cafe"},"location":{"lat":95.0,"lon":200.0}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", rec.Code, out)
	}
	if out["overall_status"] != "invalid" {
		t.Errorf("overall_status = %v, want invalid for out-of-range coordinates", out["overall_status"])
	}
}

func TestSuggestRoute(t *testing.T) {
	h := testRouter(t)
	rec, out := doJSON(t, h, "POST", "/v1/suggest", `{"tags":{"amenity":"restaurant"},"limit":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", rec.Code, out)
	}
	recs, _ := out["suggestions"].([]any)
	if len(recs) != 3 {
		t.Errorf("suggestions = %v, want 3", recs)
	}
}

func TestExplainRoute(t *testing.T) {
	h := testRouter(t)
	rec, out := doJSON(t, h, "POST", "/v1/explain", `{"tags":{"amenity":"cafe","name":"Bean There"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", rec.Code, out)
	}
	desc, _ := out["description"].(string)
	if !strings.Contains(desc, "cafe") || !strings.Contains(desc, "Bean There") {
		t.Errorf("description = %q", desc)
	}
}

func TestTagDocRoute(t *testing.T) {
	h := testRouter(t)
	rec, out := doJSON(t, h, "GET", "/v1/tags/amenity", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", rec.Code, out)
	}
	if out["key"] != "amenity" || out["description"] == "" {
		t.Errorf("doc = %v", out)
	}

	rec, _ = doJSON(t, h, "GET", "/v1/tags/no_such_key", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown key status = %d, want 404", rec.Code)
	}
}

func TestDictInfoAndHealthRoutes(t *testing.T) {
	h := testRouter(t)

	rec, out := doJSON(t, h, "GET", "/v1/dictionary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", rec.Code, out)
	}
	sources, _ := out["sources"].([]any)
	if len(sources) != 1 {
		t.Errorf("sources = %v, want the built-in dictionary", sources)
	}

	rec, out = doJSON(t, h, "GET", "/v1/health", "")
	if rec.Code != http.StatusOK || out["status"] != "ok" {
		t.Errorf("health = %d %v", rec.Code, out)
	}
	if rules, _ := out["rules"].(float64); rules == 0 {
		t.Error("health reports zero rules")
	}
}

func TestCORSPreflight(t *testing.T) {
	h := testRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/v1/translate", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
