package handler

import (
	"campussafety/internal/fault"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteFault(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"client", fault.NewClientError("bad question", nil), http.StatusBadRequest, "bad question"},
		{"not found", fault.NewNotFound("assignment not found"), http.StatusNotFound, "assignment not found"},
		{"conflict", fault.NewConflict("a submission is already in progress"), http.StatusConflict, "a submission is already in progress"},
		{"unauthorized", fault.NewUnauthorized("nope"), http.StatusUnauthorized, "nope"},
		{"unavailable", fault.NewUnavailable("completion service down", errors.New("dial tcp")), http.StatusServiceUnavailable, "completion service down"},
		{"internal", fault.NewInternalError("db exploded", errors.New("boom")), http.StatusInternalServerError, "internal error"},
		{"plain error", errors.New("raw"), http.StatusInternalServerError, "internal error"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeFault(rec, httptest.NewRequest(http.MethodGet, "/x", nil), c.err)

			if rec.Code != c.status {
				t.Errorf("expected %d, got %d", c.status, rec.Code)
			}
			var body map[string]string
			json.NewDecoder(rec.Body).Decode(&body)
			if body["error"] != c.msg {
				t.Errorf("expected %q, got %q", c.msg, body["error"])
			}
		})
	}
}

func TestWriteFault_ValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fault.NewValidationError("required questions are unanswered", map[string]string{"school": "this question is required"})
	writeFault(rec, httptest.NewRequest(http.MethodPost, "/x", nil), err)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	json.NewDecoder(rec.Body).Decode(&body)
	if body.Fields["school"] == "" {
		t.Errorf("expected field messages, got %+v", body)
	}
}

func TestDecodeJSON(t *testing.T) {
	type request struct {
		Email string `json:"email" validate:"required,email"`
	}
	cases := []struct {
		name   string
		body   string
		ok     bool
		status int
	}{
		{"valid", `{"email":"a@b.org"}`, true, http.StatusOK},
		{"malformed", `{"email":`, false, http.StatusBadRequest},
		{"invalid field", `{"email":"nope"}`, false, http.StatusUnprocessableEntity},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			var req request
			ok := decodeJSON(rec, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(c.body)), &req)
			if ok != c.ok || rec.Code != c.status {
				t.Errorf("expected ok=%v status %d, got ok=%v status %d", c.ok, c.status, ok, rec.Code)
			}
		})
	}
}
