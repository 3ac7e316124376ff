package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	entryservice "patchbay/contexts/catalog/entry-service"
	comparisonengine "patchbay/contexts/comparison/comparison-engine"
	comparisonentities "patchbay/contexts/comparison/comparison-engine/domain/entities"
)

const testUploadToken = "test-token"

func newTestServer() *Server {
	catalog := entryservice.NewInMemoryModule(nil)
	comparison := comparisonengine.NewInMemoryModule([]comparisonentities.Question{{
		QuestionID:      "q-similar",
		Prompt:          "Which pair sounds more alike?",
		AnswerA:         "these two",
		AnswerB:         "neither",
		Slug:            "similar",
		SelectionMethod: comparisonentities.SelectionRandom,
	}}, nil, nil)
	return New(catalog, comparison, nil, Options{
		Addr:        ":0",
		BaseURL:     "http://test.local",
		UploadToken: testUploadToken,
	})
}

func entryBody() []byte {
	return []byte(`{
		"name": "evening drone",
		"recording_file": "evening-drone.flac",
		"recorded_at": "2026-03-14T12:00:00Z",
		"license_id": "7",
		"write": true
	}`)
}

func TestCreateEntryRequiresToken(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/entries", bytes.NewReader(entryBody()))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d body=%s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/entries", bytes.NewReader(entryBody()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Token", "wrong")
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/entries", bytes.NewReader(entryBody()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Token", testUploadToken)
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 with token, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCreateTagRequiresToken(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/tags", bytes.NewReader([]byte(`{"name":"ambient"}`)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}
}

func TestReadEndpointsArePublic(t *testing.T) {
	server := newTestServer()
	for _, path := range []string{
		"/api/entries",
		"/api/tags",
		"/api/authors",
		"/api/licenses",
		"/api/questions",
		"/feed",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %s = %d, want 200", path, rr.Code)
		}
	}
}

func TestVoteFlowHashesOriginAndRecords(t *testing.T) {
	server := newTestServer()
	server.comparison.Store.AddEntry("e1")
	server.comparison.Store.AddEntry("e2")

	body := []byte(`{"entry_a":"e1","entry_b":"e2","answer":"a"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/compare/similar/votes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:51000"
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 vote, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp struct {
		CountA int `json:"count_a"`
		CountB int `json:"count_b"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode vote response: %v", err)
	}
	if resp.CountA != 1 || resp.CountB != 0 {
		t.Fatalf("vote counts = (%d,%d), want (1,0)", resp.CountA, resp.CountB)
	}

	badBody := []byte(`{"entry_a":"e1","entry_b":"e2","answer":"zz"}`)
	badReq := httptest.NewRequest(http.MethodPost, "/api/compare/similar/votes", bytes.NewReader(badBody))
	badReq.Header.Set("Content-Type", "application/json")
	badRR := httptest.NewRecorder()
	server.mux.ServeHTTP(badRR, badReq)
	if badRR.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad answer token, got %d", badRR.Code)
	}
}

func TestComparisonAuditRequiresToken(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/comparison/audit?question=similar", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/comparison/audit?question=similar", nil)
	req.Header.Set("X-Api-Token", testUploadToken)
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestFeedContentType(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("feed status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Fatalf("feed content type = %s", ct)
	}
	if !strings.Contains(rr.Body.String(), "<rss") {
		t.Fatalf("feed body missing rss element: %s", rr.Body.String())
	}
}
