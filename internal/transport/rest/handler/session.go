package handler

import (
	"campussafety/internal/form"
	"campussafety/internal/service"
	"campussafety/internal/transport/rest/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

// SessionHandler handles the live form session of an assignment
type SessionHandler struct {
	formSvc *service.FormService
}

func NewSessionHandler(formSvc *service.FormService) *SessionHandler {
	return &SessionHandler{formSvc: formSvc}
}

// AnswersRequest is the request body for setting answers
type AnswersRequest struct {
	Answers []service.AnswerInput `json:"answers" validate:"required,min=1,dive"`
}

// Open handles GET /v1/assignments/{id}/session
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	view, err := h.formSvc.Open(r.Context(), mux.Vars(r)["id"], claims)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Questions handles GET /v1/assignments/{id}/questions?page=&section=&subSection=&status=
func (h *SessionHandler) Questions(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	q := r.URL.Query()

	filter := form.Filter{
		Page:       queryInt(r, "page", 1),
		Section:    q.Get("section"),
		SubSection: q.Get("subSection"),
		Status:     q.Get("status"),
	}
	switch filter.Status {
	case "", form.All, form.StatusAnswered, form.StatusUnanswered:
	default:
		writeValidation(w, "validation failed", map[string]string{"status": "oneof=all answered unanswered"})
		return
	}

	view, err := h.formSvc.View(r.Context(), mux.Vars(r)["id"], claims, filter)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"page":     view.Page,
		"progress": view.Progress,
	})
}

// Answers handles PUT /v1/assignments/{id}/answers
func (h *SessionHandler) Answers(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var req AnswersRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.formSvc.Answer(r.Context(), mux.Vars(r)["id"], claims, req.Answers)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// SaveDraft handles PUT /v1/assignments/{id}/draft
func (h *SessionHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	draft, err := h.formSvc.SaveDraft(r.Context(), mux.Vars(r)["id"], claims)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"savedAt": draft.SavedAt})
}

// Submit handles POST /v1/assignments/{id}/submit
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	res, err := h.formSvc.Submit(r.Context(), mux.Vars(r)["id"], claims)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}
