package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(0)
}

func createTestSession(t *testing.T, s *Server) string {
	t.Helper()
	buf := encodedSample(t)
	body, err := json.Marshal(SessionCreateRequest{Data: buf})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create session status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp SessionCreateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return resp.SessionID
}

func TestServerHealth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestServerCreateGetDestroySession(t *testing.T) {
	s := newTestServer(t)
	sessionID := createTestSession(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session/"+sessionID, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var status SessionStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if status.Length != 2 {
		t.Errorf("Length = %d, want 2", status.Length)
	}

	delReq := httptest.NewRequest(http.MethodDelete, "/api/v1/session/"+sessionID, nil)
	delRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(delRec, delReq)
	if delRec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", delRec.Code)
	}

	getAgain := httptest.NewRequest(http.MethodGet, "/api/v1/session/"+sessionID, nil)
	getAgainRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(getAgainRec, getAgain)
	if getAgainRec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", getAgainRec.Code)
	}
}

func TestServerGotoAndStep(t *testing.T) {
	s := newTestServer(t)
	sessionID := createTestSession(t, s)

	body, _ := json.Marshal(GotoRequest{Index: 1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/"+sessionID+"/goto", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("goto status = %d, body = %s", rec.Code, rec.Body.String())
	}

	statusReq := httptest.NewRequest(http.MethodGet, "/api/v1/session/"+sessionID, nil)
	statusRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(statusRec, statusReq)
	var status SessionStatusResponse
	if err := json.Unmarshal(statusRec.Body.Bytes(), &status); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if status.Position != 1 {
		t.Errorf("Position = %d, want 1", status.Position)
	}

	stepBody, _ := json.Marshal(StepRequest{Delta: -1})
	stepReq := httptest.NewRequest(http.MethodPost, "/api/v1/session/"+sessionID+"/step", bytes.NewReader(stepBody))
	stepRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(stepRec, stepReq)
	if stepRec.Code != http.StatusOK {
		t.Fatalf("step status = %d, body = %s", stepRec.Code, stepRec.Body.String())
	}

	afterReq := httptest.NewRequest(http.MethodGet, "/api/v1/session/"+sessionID, nil)
	afterRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(afterRec, afterReq)
	var after SessionStatusResponse
	if err := json.Unmarshal(afterRec.Body.Bytes(), &after); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if after.Position != 0 {
		t.Errorf("Position after step -1 = %d, want 0", after.Position)
	}
}

func TestServerFilterLifecycle(t *testing.T) {
	s := newTestServer(t)
	sessionID := createTestSession(t, s)

	body, _ := json.Marshal(FilterRequest{Expression: "category==branch"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/"+sessionID+"/filter", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("filter status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var filterResp FilterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &filterResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if filterResp.Matches != 1 {
		t.Errorf("Matches = %d, want 1", filterResp.Matches)
	}

	clearReq := httptest.NewRequest(http.MethodDelete, "/api/v1/session/"+sessionID+"/filter", nil)
	clearRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(clearRec, clearReq)
	if clearRec.Code != http.StatusOK {
		t.Fatalf("clear filter status = %d", clearRec.Code)
	}
}

func TestServerWatchLifecycle(t *testing.T) {
	s := newTestServer(t)
	sessionID := createTestSession(t, s)

	body, _ := json.Marshal(WatchRequest{Register: 1, ReadWrite: true})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/"+sessionID+"/watch", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("add watch status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var watchResp WatchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &watchResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/session/"+sessionID+"/watches", nil)
	listRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(listRec, listReq)
	var listResp WatchesResponse
	if err := json.Unmarshal(listRec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(listResp.Watches) != 1 {
		t.Fatalf("len(Watches) = %d, want 1", len(listResp.Watches))
	}

	delPath := "/api/v1/session/" + sessionID + "/watch/" + strconv.Itoa(watchResp.ID)
	delReq := httptest.NewRequest(http.MethodDelete, delPath, nil)
	delRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(delRec, delReq)
	if delRec.Code != http.StatusOK {
		t.Fatalf("remove watch status = %d, body = %s", delRec.Code, delRec.Body.String())
	}
}

func TestServerLintAndStats(t *testing.T) {
	s := newTestServer(t)
	sessionID := createTestSession(t, s)

	lintReq := httptest.NewRequest(http.MethodGet, "/api/v1/session/"+sessionID+"/lint", nil)
	lintRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(lintRec, lintReq)
	if lintRec.Code != http.StatusOK {
		t.Fatalf("lint status = %d", lintRec.Code)
	}

	statsReq := httptest.NewRequest(http.MethodGet, "/api/v1/session/"+sessionID+"/stats", nil)
	statsRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(statsRec, statsReq)
	if statsRec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", statsRec.Code)
	}
}
