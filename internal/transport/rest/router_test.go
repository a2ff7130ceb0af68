package rest

import (
	"bytes"
	"campussafety/internal/model"
	"campussafety/internal/service"
	"campussafety/internal/transport/ws"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type memAssignments struct {
	mu    sync.Mutex
	items map[string]*model.Assignment
}

func (m *memAssignments) Create(_ context.Context, a *model.Assignment) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = "a1"
	m.items[a.ID] = a
	return a.ID, nil
}

func (m *memAssignments) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id], nil
}

func (m *memAssignments) GetByAccount(_ context.Context, account string, _, _ int) ([]*model.Assignment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Assignment
	for _, a := range m.items {
		if a.Account == account {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memAssignments) Update(_ context.Context, a *model.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[a.ID] = a
	return nil
}

func (m *memAssignments) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

func newTestRouter() http.Handler {
	auth := service.NewAuthService("admin@school.org", "secret", "test-key")
	return NewRouter(&Container{
		AuthService:       auth,
		AssignmentService: service.NewAssignmentService(&memAssignments{items: map[string]*model.Assignment{}}),
		WSHub:             ws.NewHub(),
		MaxUploadBytes:    1 << 20,
	})
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "admin@school.org", "password": "secret", "account": "acct1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body)
	}
	var resp model.LoginResponse
	json.NewDecoder(rec.Body).Decode(&resp)
	return resp.Token
}

func TestRouter_Health(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_Login(t *testing.T) {
	h := newTestRouter()

	rec := do(t, h, http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "not-an-email"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for invalid body, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": "admin@school.org", "password": "wrong", "account": "acct1",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", rec.Code)
	}

	if token := login(t, h); token == "" {
		t.Error("expected a token")
	}
}

func TestRouter_RequiresAccount(t *testing.T) {
	h := newTestRouter()
	for _, path := range []string{"/v1/assignments", "/v1/locations", "/v1/assignments/a1/session"} {
		if rec := do(t, h, http.MethodGet, path, "", nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, rec.Code)
		}
		if rec := do(t, h, http.MethodGet, path, "garbage", nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401 for bad token, got %d", path, rec.Code)
		}
	}
}

func TestRouter_PreflightSkipsAuth(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodOptions, "/v1/assignments", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected wildcard origin, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCORS_AllowList(t *testing.T) {
	h := corsMiddleware([]string{"https://app.example.org"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example.org")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://app.example.org" {
		t.Errorf("expected allowed origin echoed, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}

	req.Header.Set("Origin", "https://evil.example.org")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected unknown origin to get no CORS header")
	}
}

func TestRouter_AssignmentLifecycle(t *testing.T) {
	h := newTestRouter()
	token := login(t, h)

	rec := do(t, h, http.MethodPost, "/v1/assignments", token, map[string]interface{}{
		"title": "Door audit",
		"questions": []map[string]interface{}{
			{"id": "q1", "component": "options", "options": "Yes;No"},
			{"id": "q2", "component": "text", "conditional": map[string]interface{}{"field": "q2", "value": "x"}},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}
	var created struct {
		AssignmentID string   `json:"assignmentId"`
		Warnings     []string `json:"warnings"`
	}
	json.NewDecoder(rec.Body).Decode(&created)
	if created.AssignmentID != "a1" || len(created.Warnings) != 1 {
		t.Errorf("unexpected create response %+v", created)
	}

	rec = do(t, h, http.MethodGet, "/v1/assignments/a1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d", rec.Code)
	}
	var a model.Assignment
	json.NewDecoder(rec.Body).Decode(&a)
	if a.Account != "acct1" || len(a.Questions) != 2 {
		t.Errorf("unexpected assignment %+v", a)
	}

	rec = do(t, h, http.MethodPost, "/v1/assignments", token, map[string]interface{}{
		"title":     "Dupes",
		"questions": []map[string]interface{}{{"id": "q1", "component": "text"}, {"id": "q1", "component": "text"}},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for duplicate ids, got %d", rec.Code)
	}

	if rec := do(t, h, http.MethodDelete, "/v1/assignments/a1", token, nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete: %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/v1/assignments/a1", token, nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestRouter_WebSocketNeedsToken(t *testing.T) {
	rec := do(t, newTestRouter(), http.MethodGet, "/v1/ws/assignments/a1", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
