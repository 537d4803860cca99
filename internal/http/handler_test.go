package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-call-readiness-service/internal/analysis/pipeline"
	"ai-call-readiness-service/internal/analysis/redflag"
	"ai-call-readiness-service/internal/events"
	"ai-call-readiness-service/internal/models"
	"ai-call-readiness-service/internal/session"
	"ai-call-readiness-service/internal/taxonomy"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	analyzer := pipeline.New(taxonomy.NewCached(taxonomy.EmbeddedSource{}), redflag.NewRuleBased())
	h := NewHandler(session.NewManager(), analyzer, events.New(nil))
	return NewRouter(h)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, router http.Handler, customerName string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/v1/sessions", map[string]string{"customerName": customerName})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.SessionID == "" {
		t.Fatal("create session: empty sessionId")
	}
	return resp.SessionID
}

func appendChunk(t *testing.T, router http.Handler, id, speaker, text string) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, router, http.MethodPost, "/v1/sessions/"+id+"/chunks", map[string]any{
		"speaker": speaker,
		"text":    text,
	})
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/v1/liveness", "/v1/readiness"} {
		rec := doJSON(t, router, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestCreateSession(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/sessions", map[string]string{"customerName": "Jordan"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp struct {
		SessionID    string `json:"sessionId"`
		CustomerName string `json:"customerName"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.SessionID == "" {
		t.Error("expected a session id")
	}
	if resp.CustomerName != "Jordan" {
		t.Errorf("expected customer name echoed back, got %q", resp.CustomerName)
	}
}

func TestCreateSession_EmptyBody(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Errorf("customer name is optional, expected 201, got %d", rec.Code)
	}
}

func TestAppendChunk_UnknownSession(t *testing.T) {
	router := newTestRouter(t)

	rec := appendChunk(t, router, "no-such-session", "prospect", "hello")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestAppendChunk_EmptyText(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router, "Jordan")

	rec := appendChunk(t, router, id, "prospect", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty text, got %d", rec.Code)
	}
}

func TestAppendChunk_BadJSON(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router, "Jordan")

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+id+"/chunks", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestAppendChunk_ShortConversationIsBaseline(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router, "Jordan")

	rec := appendChunk(t, router, id, "closer", "hello, thanks for joining")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.ConversationLength != 0 {
		t.Errorf("one chunk should produce the baseline, got length %d", result.ConversationLength)
	}
	if result.TruthIndex.Score != 100 {
		t.Errorf("baseline truth index should be 100, got %d", result.TruthIndex.Score)
	}
}

func TestAppendChunk_FullPipelineAtThreeChunks(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router, "Jordan")

	appendChunk(t, router, id, "closer", "what brought you here today")
	appendChunk(t, router, id, "prospect", "this problem is killing my business and losing customers")
	rec := appendChunk(t, router, id, "prospect", "i need it fixed immediately, cannot wait any longer")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.ConversationLength != 3 {
		t.Errorf("expected conversationLength 3, got %d", result.ConversationLength)
	}
	if len(result.Indicators) == 0 || len(result.Pillars) == 0 {
		t.Error("full analysis must carry indicators and pillars")
	}
}

func TestGetAnalysis(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router, "Jordan")

	// Before any chunk: computed on demand, baseline shape.
	rec := doJSON(t, router, http.MethodGet, "/v1/sessions/"+id+"/analysis", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var result models.AnalysisResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.ConversationLength != 0 {
		t.Errorf("expected baseline for an empty session, got %d", result.ConversationLength)
	}

	appendChunk(t, router, id, "prospect", "a")
	appendChunk(t, router, id, "prospect", "b")
	appendChunk(t, router, id, "prospect", "c")

	rec = doJSON(t, router, http.MethodGet, "/v1/sessions/"+id+"/analysis", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.ConversationLength != 3 {
		t.Errorf("expected the latest snapshot, got length %d", result.ConversationLength)
	}
}

func TestGetCloseCheck(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router, "Jordan")

	// No analysis yet.
	rec := doJSON(t, router, http.MethodGet, "/v1/sessions/"+id+"/close-check", nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 before any analysis, got %d", rec.Code)
	}

	appendChunk(t, router, id, "prospect", "qq zz xx")
	appendChunk(t, router, id, "prospect", "vv kk jj")
	appendChunk(t, router, id, "prospect", "pp ww uu")

	rec = doJSON(t, router, http.MethodGet, "/v1/sessions/"+id+"/close-check", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var check models.CloseBlockerResult
	if err := json.Unmarshal(rec.Body.Bytes(), &check); err != nil {
		t.Fatal(err)
	}
	// Neutral pillars: pain 5 (<= 6) and urgency 5 (<= 5) trip the first gate.
	if check.Closeable {
		t.Error("neutral conversation should be blocked from closing")
	}
	if check.Reason == "" {
		t.Error("blocked close must carry a reason")
	}
}

func TestGetObjectionScript(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router, "Jordan")

	rec := doJSON(t, router, http.MethodGet, "/v1/sessions/"+id+"/objections/price/script", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for the price script, got %d", rec.Code)
	}
	var script models.ObjectionScript
	if err := json.Unmarshal(rec.Body.Bytes(), &script); err != nil {
		t.Fatal(err)
	}
	if script.Title == "" || len(script.Steps) == 0 {
		t.Fatalf("incomplete script: %+v", script)
	}
	named := false
	for _, step := range script.Steps {
		if strings.Contains(step.Text, "Jordan") {
			named = true
		}
	}
	if !named {
		t.Error("session customer name should be substituted into the script")
	}
}

func TestGetObjectionScript_QueryNameOverrides(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router, "Jordan")

	path := fmt.Sprintf("/v1/sessions/%s/objections/partner/script?customerName=Sam", id)
	rec := doJSON(t, router, http.MethodGet, path, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Sam") {
		t.Error("query customerName should override the session name")
	}
}

func TestGetObjectionScript_Unmapped(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router, "Jordan")

	rec := doJSON(t, router, http.MethodGet, "/v1/sessions/"+id+"/objections/think/script", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for an objection without a script, got %d", rec.Code)
	}
}

func TestEndSession(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router, "Jordan")

	rec := doJSON(t, router, http.MethodPost, "/v1/sessions/"+id+"/end", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	// Chunks after end are rejected.
	rec = appendChunk(t, router, id, "prospect", "one more thing")
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 after end, got %d", rec.Code)
	}

	// Ending twice is idempotent.
	rec = doJSON(t, router, http.MethodPost, "/v1/sessions/"+id+"/end", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected idempotent 204, got %d", rec.Code)
	}

	// The analysis stays readable.
	rec = doJSON(t, router, http.MethodGet, "/v1/sessions/"+id+"/analysis", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected analysis readable after end, got %d", rec.Code)
	}
}
