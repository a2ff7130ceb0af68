package handler

import (
	"campussafety/internal/model"
	"campussafety/internal/service"
	"campussafety/internal/transport/rest/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

// AssignmentHandler handles assignment definition endpoints
type AssignmentHandler struct {
	assignmentSvc *service.AssignmentService
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignmentSvc *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// AssignmentRequest is the request body for creating or replacing an
// assignment
type AssignmentRequest struct {
	Title       string                     `json:"title" validate:"required,max=200"`
	Description string                     `json:"description"`
	Type        model.AssignmentType       `json:"type" validate:"omitempty,oneof=assessment drill inspection"`
	Questions   []model.QuestionDefinition `json:"questions"`
}

func (req *AssignmentRequest) assignment(id string) *model.Assignment {
	questions := req.Questions
	if questions == nil {
		questions = []model.QuestionDefinition{}
	}
	return &model.Assignment{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Questions:   questions,
	}
}

// Create handles POST /v1/assignments
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var req AssignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a := req.assignment("")
	warnings, err := h.assignmentSvc.Create(r.Context(), claims, a)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"assignmentId": a.ID,
		"warnings":     warnings,
	})
}

// List handles GET /v1/assignments?page=&limit=
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	page, err := h.assignmentSvc.List(r.Context(), claims, queryInt(r, "page", 1), queryInt(r, "limit", 10))
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /v1/assignments/{id}
func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	a, err := h.assignmentSvc.Get(r.Context(), claims, mux.Vars(r)["id"])
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// Update handles PUT /v1/assignments/{id}
func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var req AssignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a := req.assignment(mux.Vars(r)["id"])
	warnings, err := h.assignmentSvc.Update(r.Context(), claims, a)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"assignment": a,
		"warnings":   warnings,
	})
}

// Delete handles DELETE /v1/assignments/{id}
func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	if err := h.assignmentSvc.Delete(r.Context(), claims, mux.Vars(r)["id"]); err != nil {
		writeFault(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
