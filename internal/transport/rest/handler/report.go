package handler

import (
	"campussafety/internal/service"
	"campussafety/internal/transport/rest/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

// ReportHandler handles completion report endpoints
type ReportHandler struct {
	reportSvc *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Report handles GET /v1/assignments/{id}/report
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	report, err := h.reportSvc.Report(r.Context(), mux.Vars(r)["id"], claims)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
